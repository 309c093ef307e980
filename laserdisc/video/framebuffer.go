package video

// Color is a packed 0xRRGGBBAA pixel.
type Color uint32

const (
	WhiteColor Color = 0xFFFFFFFF
	BlackColor Color = 0x000000FF
)

// Gray converts an 8 bit luma sample to an opaque grey pixel.
func Gray(luma uint8) Color {
	l := uint32(luma)
	return Color(l<<24 | l<<16 | l<<8 | 0xFF)
}

type FrameBuffer struct {
	width  uint
	height uint
	buffer []uint32
}

// NewFrameBuffer creates a black frame buffer with the specified size.
func NewFrameBuffer(width, height uint) *FrameBuffer {
	fb := &FrameBuffer{
		width:  width,
		height: height,
		buffer: make([]uint32, width*height),
	}
	fb.Fill(BlackColor)
	return fb
}

func (fb *FrameBuffer) Width() uint  { return fb.width }
func (fb *FrameBuffer) Height() uint { return fb.height }

func (fb *FrameBuffer) GetPixel(x, y uint) uint32 {
	return fb.buffer[y*fb.width+x]
}

func (fb *FrameBuffer) SetPixel(x, y uint, color Color) {
	fb.buffer[y*fb.width+x] = uint32(color)
}

// Fill sets every pixel to color.
func (fb *FrameBuffer) Fill(color Color) {
	for i := range fb.buffer {
		fb.buffer[i] = uint32(color)
	}
}

// CopyFrom copies the pixels of src, which must have the same size.
func (fb *FrameBuffer) CopyFrom(src *FrameBuffer) {
	copy(fb.buffer, src.buffer)
}

func (fb *FrameBuffer) ToSlice() []uint32 {
	return fb.buffer
}
