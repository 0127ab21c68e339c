package cpu

import "github.com/retrosilicon/gomeboy/internal/types"

// The CB-prefixed rotate/shift ops set Zero from the result; the plain
// accumulator forms (RLCA/RLA/RRCA/RRA) always clear it. Both share the
// same carry arithmetic, so each plain op is a thin wrapper.

func (c *CPU) rlc(v uint8) uint8 {
	carry := v&0x80 != 0
	result := v<<1 | v>>7
	c.setFlag(types.FlagCarry, carry)
	c.setFlag(types.FlagSubtract, false)
	c.setFlag(types.FlagHalfCarry, false)
	c.setFlag(types.FlagZero, result == 0)
	return result
}

func (c *CPU) rrc(v uint8) uint8 {
	carry := v&0x01 != 0
	result := v>>1 | v<<7
	c.setFlag(types.FlagCarry, carry)
	c.setFlag(types.FlagSubtract, false)
	c.setFlag(types.FlagHalfCarry, false)
	c.setFlag(types.FlagZero, result == 0)
	return result
}

func (c *CPU) rl(v uint8) uint8 {
	carryIn := uint8(0)
	if c.flag(types.FlagCarry) {
		carryIn = 1
	}
	carryOut := v&0x80 != 0
	result := v<<1 | carryIn
	c.setFlag(types.FlagCarry, carryOut)
	c.setFlag(types.FlagSubtract, false)
	c.setFlag(types.FlagHalfCarry, false)
	c.setFlag(types.FlagZero, result == 0)
	return result
}

func (c *CPU) rr(v uint8) uint8 {
	carryIn := uint8(0)
	if c.flag(types.FlagCarry) {
		carryIn = 0x80
	}
	carryOut := v&0x01 != 0
	result := v>>1 | carryIn
	c.setFlag(types.FlagCarry, carryOut)
	c.setFlag(types.FlagSubtract, false)
	c.setFlag(types.FlagHalfCarry, false)
	c.setFlag(types.FlagZero, result == 0)
	return result
}

func (c *CPU) sla(v uint8) uint8 {
	carry := v&0x80 != 0
	result := v << 1
	c.setFlag(types.FlagCarry, carry)
	c.setFlag(types.FlagSubtract, false)
	c.setFlag(types.FlagHalfCarry, false)
	c.setFlag(types.FlagZero, result == 0)
	return result
}

func (c *CPU) sra(v uint8) uint8 {
	carry := v&0x01 != 0
	result := v>>1 | v&0x80
	c.setFlag(types.FlagCarry, carry)
	c.setFlag(types.FlagSubtract, false)
	c.setFlag(types.FlagHalfCarry, false)
	c.setFlag(types.FlagZero, result == 0)
	return result
}

func (c *CPU) srl(v uint8) uint8 {
	carry := v&0x01 != 0
	result := v >> 1
	c.setFlag(types.FlagCarry, carry)
	c.setFlag(types.FlagSubtract, false)
	c.setFlag(types.FlagHalfCarry, false)
	c.setFlag(types.FlagZero, result == 0)
	return result
}

func (c *CPU) swap(v uint8) uint8 {
	result := v<<4 | v>>4
	c.setFlag(types.FlagZero, result == 0)
	c.setFlag(types.FlagSubtract, false)
	c.setFlag(types.FlagHalfCarry, false)
	c.setFlag(types.FlagCarry, false)
	return result
}

func (c *CPU) bit(n, v uint8) {
	c.setFlag(types.FlagZero, v&(1<<n) == 0)
	c.setFlag(types.FlagSubtract, false)
	c.setFlag(types.FlagHalfCarry, true)
}

func set(n, v uint8) uint8 { return v | 1<<n }
func res(n, v uint8) uint8 { return v &^ (1 << n) }

// rlca/rla/rrca/rra are the non-CB accumulator forms: same carry math as
// their CB counterparts, but Zero is always cleared rather than derived.
func (c *CPU) rlca() {
	c.A = c.rlc(c.A)
	c.setFlag(types.FlagZero, false)
}

func (c *CPU) rrca() {
	c.A = c.rrc(c.A)
	c.setFlag(types.FlagZero, false)
}

func (c *CPU) rla() {
	c.A = c.rl(c.A)
	c.setFlag(types.FlagZero, false)
}

func (c *CPU) rra() {
	c.A = c.rr(c.A)
	c.setFlag(types.FlagZero, false)
}
