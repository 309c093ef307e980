package video

import "sync"

// Cache is the double-buffered store of decoded frames. Fields are woven
// into the frame being built (first field on even rows, second field on
// odd rows); a field flagged as the start of a new frame flips the
// buffers, making the frame just completed the one presented.
type Cache struct {
	mu       sync.Mutex
	width    uint
	height   uint
	frames   [2]*FrameBuffer
	numbers  [2]int
	building int
	blank    *FrameBuffer
}

// NewCache creates a cache for frames of the given size. height is the
// full interlaced frame height.
func NewCache(width, height uint) *Cache {
	return &Cache{
		width:  width,
		height: height,
		frames: [2]*FrameBuffer{NewFrameBuffer(width, height), NewFrameBuffer(width, height)},
		blank:  NewFrameBuffer(width, height),
	}
}

// FieldHeight is the number of rows carried by one field.
func (c *Cache) FieldHeight() uint {
	return c.height / 2
}

func (c *Cache) Width() uint { return c.width }

// StoreField weaves one field of 8 bit luma into the frame being built.
// A nil luma slice leaves the rows untouched. frame is the frame number
// decoded for the field, or 0 if it carried none.
func (c *Cache) StoreField(field int, luma []byte, startsFrame bool, frame int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if startsFrame {
		c.building ^= 1
		c.numbers[c.building] = frame
	} else if frame != 0 && c.numbers[c.building] == 0 {
		c.numbers[c.building] = frame
	}

	if luma == nil {
		return
	}

	fb := c.frames[c.building]
	rows := c.FieldHeight()
	for row := uint(0); row < rows; row++ {
		y := row*2 + uint(field&1)
		if y >= c.height {
			break
		}
		src := luma[row*c.width:]
		if uint(len(src)) < c.width {
			break
		}
		for x := uint(0); x < c.width; x++ {
			fb.SetPixel(x, y, Gray(src[x]))
		}
	}
}

// Frame copies the last completed frame into dst and returns its frame
// number.
func (c *Cache) Frame(dst *FrameBuffer) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	ready := c.building ^ 1
	dst.CopyFrom(c.frames[ready])
	return c.numbers[ready]
}

// Blank returns a black frame of the cache's size.
func (c *Cache) Blank() *FrameBuffer {
	return c.blank
}

// Reset blanks both buffers.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.frames {
		c.frames[i].Fill(BlackColor)
		c.numbers[i] = 0
	}
	c.building = 0
}
