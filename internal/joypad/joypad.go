// Package joypad emulates the Game Boy's button matrix on the P1 (0xFF00)
// register.
package joypad

import "github.com/retrosilicon/gomeboy/internal/interrupts"

// Button identifies a physical button. Each value is a single-bit mask
// that doubles as that button's bit within the internal pressed-state
// bitmask.
type Button = uint8

const (
	A Button = 1 << iota
	B
	Select
	Start
	Right
	Left
	Up
	Down
)

const (
	selectDirection uint8 = 1 << 4
	selectAction    uint8 = 1 << 5
)

// State is the joypad's register and pressed-button bitmask.
type State struct {
	register uint8 // the raw P1 select bits written by the CPU
	pressed  uint8 // bitmask of currently held buttons

	irq *interrupts.Controller
}

// New returns a joypad with nothing pressed and both select lines high
// (inactive), matching the P1 power-on value of 0xFF once the unused top
// two bits are accounted for.
func New(irq *interrupts.Controller) *State {
	return &State{register: 0x30, irq: irq}
}

// Read returns the current P1 value: the CPU only ever observes the
// selected nibble (direction or action), never both, and unselected lines
// read high.
func (s *State) Read() uint8 {
	out := s.register | 0xC0
	if s.register&selectDirection == 0 {
		out &^= (s.pressed >> 4) & 0x0F
	}
	if s.register&selectAction == 0 {
		out &^= s.pressed & 0x0F
	}
	if s.register&(selectDirection|selectAction) == (selectDirection | selectAction) {
		out |= 0x0F
	}
	return out
}

// Write updates the two select bits; the lower nibble is read-only from
// the CPU's perspective.
func (s *State) Write(value uint8) {
	s.register = (s.register & 0xCF) | (value & 0x30)
}

// Press marks a button held and requests a joypad interrupt if the
// corresponding select line is active and the button transitions from
// released to held (a low level on P1 is itself the interrupt source, so a
// button already held produces no additional edge).
func (s *State) Press(b Button) {
	wasHeld := s.pressed&b != 0
	s.pressed |= b
	if wasHeld {
		return
	}
	isDirection := b == Right || b == Left || b == Up || b == Down
	if isDirection && s.register&selectDirection == 0 {
		s.irq.Request(interrupts.Joypad)
	} else if !isDirection && s.register&selectAction == 0 {
		s.irq.Request(interrupts.Joypad)
	}
}

// Release marks a button as no longer held.
func (s *State) Release(b Button) {
	s.pressed &^= b
}
