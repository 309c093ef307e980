package video

// 3x5 digit glyphs, one row per byte, bit 2 is the leftmost column.
var digitGlyphs = [10][5]uint8{
	{7, 5, 5, 5, 7},
	{2, 6, 2, 2, 7},
	{7, 1, 7, 4, 7},
	{7, 1, 3, 1, 7},
	{5, 5, 7, 1, 1},
	{7, 4, 7, 1, 7},
	{7, 4, 7, 5, 7},
	{7, 1, 1, 2, 2},
	{7, 5, 7, 5, 7},
	{7, 5, 7, 1, 7},
}

const (
	syntheticBackground = 0x20
	syntheticInk        = 0xE0
	glyphColumns        = 4 // 3 plus spacing
	glyphRows           = 5
	numberDigits        = 5
)

// RenderNumberField fills one field of 8 bit luma with a picture of the
// given frame number, centred. rows is the field height.
func RenderNumberField(luma []byte, width, rows, number int) {
	for i := range luma {
		luma[i] = syntheticBackground
	}

	scale := width / (glyphColumns*numberDigits + 2)
	if s := rows / (glyphRows + 2); s < scale {
		scale = s
	}
	if scale < 1 {
		return
	}

	left := (width - glyphColumns*numberDigits*scale) / 2
	top := (rows - glyphRows*scale) / 2

	digits := [numberDigits]int{}
	for i := numberDigits - 1; i >= 0; i-- {
		digits[i] = number % 10
		number /= 10
	}

	for d, digit := range digits {
		glyph := digitGlyphs[digit]
		for gy := 0; gy < glyphRows; gy++ {
			for gx := 0; gx < 3; gx++ {
				if glyph[gy]&(4>>gx) == 0 {
					continue
				}
				x0 := left + (d*glyphColumns+gx)*scale
				y0 := top + gy*scale
				fillBlock(luma, width, rows, x0, y0, scale)
			}
		}
	}
}

func fillBlock(luma []byte, width, rows, x0, y0, size int) {
	for y := y0; y < y0+size && y < rows; y++ {
		for x := x0; x < x0+size && x < width; x++ {
			luma[y*width+x] = syntheticInk
		}
	}
}

// OverlayNumber draws a frame number in the top left corner of fb, the
// way a player's on-screen display does.
func OverlayNumber(fb *FrameBuffer, number int) {
	scale := int(fb.Width()) / 80
	if scale < 1 {
		scale = 1
	}

	digits := [numberDigits]int{}
	for i := numberDigits - 1; i >= 0; i-- {
		digits[i] = number % 10
		number /= 10
	}

	for d, digit := range digits {
		glyph := digitGlyphs[digit]
		for gy := 0; gy < glyphRows; gy++ {
			for gx := 0; gx < 3; gx++ {
				if glyph[gy]&(4>>gx) == 0 {
					continue
				}
				x0 := scale + (d*glyphColumns+gx)*scale
				y0 := scale + gy*scale
				for y := y0; y < y0+scale && y < int(fb.Height()); y++ {
					for x := x0; x < x0+scale && x < int(fb.Width()); x++ {
						fb.SetPixel(uint(x), uint(y), WhiteColor)
					}
				}
			}
		}
	}
}
