package cpu

import "github.com/retrosilicon/gomeboy/internal/types"

// add8 implements ADD A,n / ADC A,n.
func (c *CPU) add8(value uint8, withCarry bool) {
	carry := uint16(0)
	if withCarry && c.flag(types.FlagCarry) {
		carry = 1
	}
	result := uint16(c.A) + uint16(value) + carry
	c.setFlag(types.FlagHalfCarry, (c.A&0xF)+(value&0xF)+uint8(carry) > 0xF)
	c.setFlag(types.FlagCarry, result > 0xFF)
	c.A = uint8(result)
	c.setFlag(types.FlagZero, c.A == 0)
	c.setFlag(types.FlagSubtract, false)
}

// sub8 implements SUB/SBC/CP A,n. store is false for CP, which computes
// the flags without writing the result back to A.
func (c *CPU) sub8(value uint8, withCarry, store bool) {
	carry := int16(0)
	if withCarry && c.flag(types.FlagCarry) {
		carry = 1
	}
	result := int16(c.A) - int16(value) - carry
	c.setFlag(types.FlagHalfCarry, int16(c.A&0xF)-int16(value&0xF)-carry < 0)
	c.setFlag(types.FlagCarry, result < 0)
	c.setFlag(types.FlagSubtract, true)
	c.setFlag(types.FlagZero, uint8(result) == 0)
	if store {
		c.A = uint8(result)
	}
}

func (c *CPU) and8(value uint8) {
	c.A &= value
	c.setFlag(types.FlagZero, c.A == 0)
	c.setFlag(types.FlagSubtract, false)
	c.setFlag(types.FlagHalfCarry, true)
	c.setFlag(types.FlagCarry, false)
}

func (c *CPU) or8(value uint8) {
	c.A |= value
	c.setFlag(types.FlagZero, c.A == 0)
	c.setFlag(types.FlagSubtract, false)
	c.setFlag(types.FlagHalfCarry, false)
	c.setFlag(types.FlagCarry, false)
}

func (c *CPU) xor8(value uint8) {
	c.A ^= value
	c.setFlag(types.FlagZero, c.A == 0)
	c.setFlag(types.FlagSubtract, false)
	c.setFlag(types.FlagHalfCarry, false)
	c.setFlag(types.FlagCarry, false)
}

func (c *CPU) inc8(v uint8) uint8 {
	result := v + 1
	c.setFlag(types.FlagZero, result == 0)
	c.setFlag(types.FlagSubtract, false)
	c.setFlag(types.FlagHalfCarry, v&0xF == 0xF)
	return result
}

func (c *CPU) dec8(v uint8) uint8 {
	result := v - 1
	c.setFlag(types.FlagZero, result == 0)
	c.setFlag(types.FlagSubtract, true)
	c.setFlag(types.FlagHalfCarry, v&0xF == 0)
	return result
}

// daa implements the decimal-adjust-after-addition algorithm: it corrects
// A to valid BCD after an ADD/ADC/SUB/SBC between two BCD operands, using
// the N/H/C flags the preceding instruction left behind.
func (c *CPU) daa() {
	a := c.A
	carry := c.flag(types.FlagCarry)
	if !c.flag(types.FlagSubtract) {
		if carry || a > 0x99 {
			a += 0x60
			carry = true
		}
		if c.flag(types.FlagHalfCarry) || a&0xF > 9 {
			a += 0x06
		}
	} else {
		if c.flag(types.FlagHalfCarry) {
			a -= 0x06
		}
		if carry {
			a -= 0x60
		}
	}
	c.A = a
	c.setFlag(types.FlagZero, c.A == 0)
	c.setFlag(types.FlagHalfCarry, false)
	c.setFlag(types.FlagCarry, carry)
}

func (c *CPU) cpl() {
	c.A = ^c.A
	c.setFlag(types.FlagSubtract, true)
	c.setFlag(types.FlagHalfCarry, true)
}

func (c *CPU) scf() {
	c.setFlag(types.FlagSubtract, false)
	c.setFlag(types.FlagHalfCarry, false)
	c.setFlag(types.FlagCarry, true)
}

func (c *CPU) ccf() {
	c.setFlag(types.FlagSubtract, false)
	c.setFlag(types.FlagHalfCarry, false)
	c.setFlag(types.FlagCarry, !c.flag(types.FlagCarry))
}

// addHL implements ADD HL,rr: one extra internal M-cycle beyond the
// opcode fetch, no effect on the Zero flag.
func (c *CPU) addHL(value uint16) {
	hl := c.HL.Uint16()
	result := uint32(hl) + uint32(value)
	c.setFlag(types.FlagSubtract, false)
	c.setFlag(types.FlagHalfCarry, (hl&0xFFF)+(value&0xFFF) > 0xFFF)
	c.setFlag(types.FlagCarry, result > 0xFFFF)
	c.HL.SetUint16(uint16(result))
	c.tickM()
}

// addSPSigned implements the shared arithmetic of ADD SP,r8 and
// LD HL,SP+r8: both read a signed operand and compute flags from the
// unsigned low-byte addition.
func (c *CPU) addSPSigned() uint16 {
	offset := int8(c.readOperand())
	result := int32(c.SP) + int32(offset)
	c.setFlag(types.FlagZero, false)
	c.setFlag(types.FlagSubtract, false)
	c.setFlag(types.FlagHalfCarry, (c.SP&0xF)+uint16(uint8(offset)&0xF) > 0xF)
	c.setFlag(types.FlagCarry, (c.SP&0xFF)+uint16(uint8(offset)) > 0xFF)
	return uint16(result)
}
