package ppu

// pixel is one queued entry in a FIFO: a 2-bit color index plus enough
// metadata to resolve a final color and priority once it is popped.
type pixel struct {
	color    uint8 // 0-3, index into the owning palette
	palette  uint8 // CGB: which of the 8 BG/OBJ palettes (bits 0-2 of the attribute byte)
	dmgOBP1  bool  // DMG sprite only: true selects OBP1 over OBP0
	priority bool  // sprite-only: true if the sprite is drawn behind non-zero BG pixels
	bgIndex  uint8 // BG only: the raw BG color index, needed for OBJ-behind-BG priority
}

// fifoCapacity is the fixed capacity of a pixel FIFO: a ring is
// sufficient since it never holds more than a handful of fetched pixels.
const fifoCapacity = 16

// ringFIFO is a fixed-capacity ring buffer of pixels, shared by the
// background/window and sprite pixel pipelines.
type ringFIFO struct {
	buf        [fifoCapacity]pixel
	head, size int
}

func (f *ringFIFO) reset() {
	f.head, f.size = 0, 0
}

func (f *ringFIFO) push(p pixel) {
	if f.size == len(f.buf) {
		return
	}
	f.buf[(f.head+f.size)%len(f.buf)] = p
	f.size++
}

func (f *ringFIFO) pop() (pixel, bool) {
	if f.size == 0 {
		return pixel{}, false
	}
	p := f.buf[f.head]
	f.head = (f.head + 1) % len(f.buf)
	f.size--
	return p, true
}

func (f *ringFIFO) len() int { return f.size }
