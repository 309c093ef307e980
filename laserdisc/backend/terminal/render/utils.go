package render

import "github.com/valerio/go-laserdisc/laserdisc/video"

// Luma extracts the grey level of a packed pixel. Frames are greyscale,
// so the red channel is enough.
func Luma(pixel uint32) uint8 {
	return uint8(pixel >> 24)
}

// Sample picks the pixel under cell (col, row) of a cols x rows grid laid
// over the frame, nearest neighbour.
func Sample(frame *video.FrameBuffer, cols, rows, col, row int) uint8 {
	w, h := int(frame.Width()), int(frame.Height())
	if cols <= 0 || rows <= 0 || w == 0 || h == 0 {
		return 0
	}
	x := col * w / cols
	y := row * h / rows
	return Luma(frame.GetPixel(uint(x), uint(y)))
}

// FitGrid returns the largest pixel grid that fits in a cols x lines
// area of terminal cells, two pixel rows per cell, keeping the frame's
// aspect ratio. Terminal cells are about twice as tall as wide.
func FitGrid(frameW, frameH, cols, lines int) (gridCols, gridRows int) {
	if frameW <= 0 || frameH <= 0 || cols <= 0 || lines <= 0 {
		return 0, 0
	}
	gridCols = cols
	gridRows = gridCols * frameH / frameW
	if gridRows > lines*2 {
		gridRows = lines * 2
		gridCols = gridRows * frameW / frameH
	}
	return gridCols, gridRows &^ 1
}
