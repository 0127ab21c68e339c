// Package serial emulates the shadow registers of the Game Boy's link
// cable port (SB/SC). A link-cable peer is out of scope, so no bytes are
// ever actually exchanged, but the shift-clock timing and interrupt are
// reproduced because conformance ROMs probe SC's busy bit and the serial
// interrupt latency.
package serial

import "github.com/retrosilicon/gomeboy/internal/interrupts"

const (
	transferStart   uint8 = 1 << 7
	clockSpeedCGB   uint8 = 1 << 1 // CGB fast-clock bit, ignored on DMG
	clockInternal   uint8 = 1 << 0
	internalShiftMC       = 128 // M-cycles per bit at the normal 8192 Hz clock
)

// Controller models SB (0xFF01) and SC (0xFF02).
type Controller struct {
	sb uint8
	sc uint8

	transferring bool
	bitsLeft     uint8
	counter      uint32

	// OnByte, if set, is invoked with the byte shifted out once a transfer
	// completes. With no link partner, the shifted-in byte is always 0xFF
	// (open line), matching real hardware with nothing plugged in.
	OnByte func(sent uint8)

	irq *interrupts.Controller
}

// New returns a serial controller with SC in its power-on state.
func New(irq *interrupts.Controller) *Controller {
	return &Controller{sc: 0x7E, irq: irq}
}

// Tick advances the shift clock by one M-cycle. It is a no-op unless a
// transfer is in progress.
func (c *Controller) Tick() {
	if !c.transferring {
		return
	}
	c.counter++
	if c.counter < internalShiftMC {
		return
	}
	c.counter = 0

	c.sb = (c.sb << 1) | 1 // shift in 0xFF (no link partner attached)
	c.bitsLeft--
	if c.bitsLeft == 0 {
		c.transferring = false
		c.sc &^= transferStart
		c.irq.Request(interrupts.Serial)
		if c.OnByte != nil {
			c.OnByte(c.sb)
		}
	}
}

// Read implements MMIO reads of SB/SC.
func (c *Controller) Read(addr uint16) uint8 {
	switch addr {
	case 0xFF01:
		return c.sb
	case 0xFF02:
		return c.sc | 0x7C
	}
	return 0xFF
}

// Write implements MMIO writes of SB/SC.
func (c *Controller) Write(addr uint16, value uint8) {
	switch addr {
	case 0xFF01:
		c.sb = value
	case 0xFF02:
		c.sc = value
		if value&clockInternal != 0 && value&transferStart != 0 {
			c.transferring = true
			c.bitsLeft = 8
			c.counter = 0
		}
	}
}
