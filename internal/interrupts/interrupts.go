// Package interrupts implements the Game Boy's interrupt controller: the
// IE/IF register pair, the interrupt master enable flip-flop (IME) and its
// one-instruction-delayed enable, and the fixed dispatch order.
package interrupts

// Vector is the address an interrupt service routine starts at.
type Vector = uint16

const (
	VBlankVector Vector = 0x0040
	LCDVector    Vector = 0x0048
	TimerVector  Vector = 0x0050
	SerialVector Vector = 0x0058
	JoypadVector Vector = 0x0060
)

// Flag identifies one of the five interrupt sources by its bit position in
// IE/IF. The dispatch order is the bit index itself: VBlank
// is always serviced before LCD, which is always serviced before Timer, and
// so on.
type Flag = uint8

const (
	VBlank Flag = iota
	LCD
	Timer
	Serial
	Joypad
)

var vectors = [5]Vector{VBlankVector, LCDVector, TimerVector, SerialVector, JoypadVector}

const (
	// FlagRegister is the 0xFF0F IF address.
	FlagRegister uint16 = 0xFF0F
	// EnableRegister is the 0xFFFF IE address.
	EnableRegister uint16 = 0xFFFF
)

// Controller tracks IE, IF and IME, and resolves which interrupt (if any)
// is next to be serviced.
type Controller struct {
	Enable uint8 // IE, 0xFFFF
	Flag   uint8 // IF, 0xFF0F

	IME bool // interrupt master enable

	// imeScheduled is set by EI; IME becomes true when Step runs at the
	// start of the next CPU step.
	imeScheduled bool
}

// NewController returns an interrupt controller in its power-on state.
func NewController() *Controller {
	return &Controller{}
}

// Request sets the IF bit for the given source. Device edges (timer
// overflow, PPU STAT/VBlank, serial transfer complete, joypad press) and
// direct CPU writes to 0xFF0F are the only two ways a bit may be set.
func (c *Controller) Request(f Flag) {
	c.Flag |= 1 << f
}

// Clear clears the IF bit for the given source.
func (c *Controller) Clear(f Flag) {
	c.Flag &^= 1 << f
}

// Pending reports whether any enabled interrupt is currently requested,
// independent of IME — used to wake the CPU from HALT/STOP.
func (c *Controller) Pending() bool {
	return c.Enable&c.Flag&0x1F != 0
}

// Ready reports whether IME is set and an enabled interrupt is pending.
func (c *Controller) Ready() bool {
	return c.IME && c.Pending()
}

// ScheduleEnable arms the one-instruction-delayed IME set performed by EI.
func (c *Controller) ScheduleEnable() {
	c.imeScheduled = true
}

// Disable clears IME immediately, as DI does, and cancels any pending EI.
func (c *Controller) Disable() {
	c.IME = false
	c.imeScheduled = false
}

// Step applies a pending EI. CPU.Step calls it once at the start of each
// step, before fetching, so IME set by EI is first visible in the step of
// the instruction after EI and the first dispatch happens once that
// instruction has completed.
func (c *Controller) Step() {
	if c.imeScheduled {
		c.imeScheduled = false
		c.IME = true
	}
}

// Next returns the lowest-indexed pending+enabled interrupt's flag and
// vector, clearing its IF bit and IME as dispatch requires. ok is false if
// nothing is ready to service.
func (c *Controller) Next() (flag Flag, vector Vector, ok bool) {
	if !c.Ready() {
		return 0, 0, false
	}
	pending := c.Enable & c.Flag & 0x1F
	for f := Flag(0); f < 5; f++ {
		if pending&(1<<f) != 0 {
			c.Clear(f)
			c.IME = false
			return f, vectors[f], true
		}
	}
	return 0, 0, false
}

// Read implements MMIO reads of IE/IF.
func (c *Controller) Read(addr uint16) uint8 {
	switch addr {
	case FlagRegister:
		// the top 3 bits of IF are unimplemented and always read as 1.
		return c.Flag | 0xE0
	case EnableRegister:
		return c.Enable
	}
	return 0xFF
}

// Write implements MMIO writes of IE/IF.
func (c *Controller) Write(addr uint16, value uint8) {
	switch addr {
	case FlagRegister:
		c.Flag = value & 0x1F
	case EnableRegister:
		c.Enable = value
	}
}
