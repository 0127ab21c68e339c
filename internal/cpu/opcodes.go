package cpu

// instructions is the primary 256-entry opcode table. The two fully
// regular blocks - LD r,r' and the ALU-A,r8 block - are filled in by
// init from their bit layout instead of being listed by hand 64 times
// over; everything else is one closure per opcode.
var instructions [256]func(*CPU)

func init() {
	instructions[0x00] = func(c *CPU) {} // NOP
	instructions[0x01] = func(c *CPU) { c.BC.SetUint16(c.readOperand16()) }
	instructions[0x02] = func(c *CPU) { c.writeByte(c.BC.Uint16(), c.A) }
	instructions[0x03] = func(c *CPU) { c.BC.SetUint16(c.BC.Uint16() + 1); c.tickM() }
	instructions[0x04] = func(c *CPU) { c.B = c.inc8(c.B) }
	instructions[0x05] = func(c *CPU) { c.B = c.dec8(c.B) }
	instructions[0x06] = func(c *CPU) { c.B = c.readOperand() }
	instructions[0x07] = func(c *CPU) { c.rlca() }
	instructions[0x08] = func(c *CPU) {
		addr := c.readOperand16()
		c.writeByte(addr, uint8(c.SP))
		c.writeByte(addr+1, uint8(c.SP>>8))
	}
	instructions[0x09] = func(c *CPU) { c.addHL(c.BC.Uint16()) }
	instructions[0x0A] = func(c *CPU) { c.A = c.readByte(c.BC.Uint16()) }
	instructions[0x0B] = func(c *CPU) { c.BC.SetUint16(c.BC.Uint16() - 1); c.tickM() }
	instructions[0x0C] = func(c *CPU) { c.C = c.inc8(c.C) }
	instructions[0x0D] = func(c *CPU) { c.C = c.dec8(c.C) }
	instructions[0x0E] = func(c *CPU) { c.C = c.readOperand() }
	instructions[0x0F] = func(c *CPU) { c.rrca() }

	instructions[0x10] = opSTOP
	instructions[0x11] = func(c *CPU) { c.DE.SetUint16(c.readOperand16()) }
	instructions[0x12] = func(c *CPU) { c.writeByte(c.DE.Uint16(), c.A) }
	instructions[0x13] = func(c *CPU) { c.DE.SetUint16(c.DE.Uint16() + 1); c.tickM() }
	instructions[0x14] = func(c *CPU) { c.D = c.inc8(c.D) }
	instructions[0x15] = func(c *CPU) { c.D = c.dec8(c.D) }
	instructions[0x16] = func(c *CPU) { c.D = c.readOperand() }
	instructions[0x17] = func(c *CPU) { c.rla() }
	instructions[0x18] = func(c *CPU) { c.PC = uint16(int32(c.PC) + int32(int8(c.readOperand()))); c.tickM() }
	instructions[0x19] = func(c *CPU) { c.addHL(c.DE.Uint16()) }
	instructions[0x1A] = func(c *CPU) { c.A = c.readByte(c.DE.Uint16()) }
	instructions[0x1B] = func(c *CPU) { c.DE.SetUint16(c.DE.Uint16() - 1); c.tickM() }
	instructions[0x1C] = func(c *CPU) { c.E = c.inc8(c.E) }
	instructions[0x1D] = func(c *CPU) { c.E = c.dec8(c.E) }
	instructions[0x1E] = func(c *CPU) { c.E = c.readOperand() }
	instructions[0x1F] = func(c *CPU) { c.rra() }

	instructions[0x20] = jrCond(0)
	instructions[0x21] = func(c *CPU) { c.HL.SetUint16(c.readOperand16()) }
	instructions[0x22] = func(c *CPU) { c.writeByte(c.HL.Uint16(), c.A); c.HL.SetUint16(c.HL.Uint16() + 1) }
	instructions[0x23] = func(c *CPU) { c.HL.SetUint16(c.HL.Uint16() + 1); c.tickM() }
	instructions[0x24] = func(c *CPU) { c.H = c.inc8(c.H) }
	instructions[0x25] = func(c *CPU) { c.H = c.dec8(c.H) }
	instructions[0x26] = func(c *CPU) { c.H = c.readOperand() }
	instructions[0x27] = func(c *CPU) { c.daa() }
	instructions[0x28] = jrCond(1)
	instructions[0x29] = func(c *CPU) { c.addHL(c.HL.Uint16()) }
	instructions[0x2A] = func(c *CPU) { c.A = c.readByte(c.HL.Uint16()); c.HL.SetUint16(c.HL.Uint16() + 1) }
	instructions[0x2B] = func(c *CPU) { c.HL.SetUint16(c.HL.Uint16() - 1); c.tickM() }
	instructions[0x2C] = func(c *CPU) { c.L = c.inc8(c.L) }
	instructions[0x2D] = func(c *CPU) { c.L = c.dec8(c.L) }
	instructions[0x2E] = func(c *CPU) { c.L = c.readOperand() }
	instructions[0x2F] = func(c *CPU) { c.cpl() }

	instructions[0x30] = jrCond(2)
	instructions[0x31] = func(c *CPU) { c.SP = c.readOperand16() }
	instructions[0x32] = func(c *CPU) { c.writeByte(c.HL.Uint16(), c.A); c.HL.SetUint16(c.HL.Uint16() - 1) }
	instructions[0x33] = func(c *CPU) { c.SP++; c.tickM() }
	instructions[0x34] = func(c *CPU) { c.writeByte(c.HL.Uint16(), c.inc8(c.readByte(c.HL.Uint16()))) }
	instructions[0x35] = func(c *CPU) { c.writeByte(c.HL.Uint16(), c.dec8(c.readByte(c.HL.Uint16()))) }
	instructions[0x36] = func(c *CPU) { c.writeByte(c.HL.Uint16(), c.readOperand()) }
	instructions[0x37] = func(c *CPU) { c.scf() }
	instructions[0x38] = jrCond(3)
	instructions[0x39] = func(c *CPU) { c.addHL(c.SP) }
	instructions[0x3A] = func(c *CPU) { c.A = c.readByte(c.HL.Uint16()); c.HL.SetUint16(c.HL.Uint16() - 1) }
	instructions[0x3B] = func(c *CPU) { c.SP--; c.tickM() }
	instructions[0x3C] = func(c *CPU) { c.A = c.inc8(c.A) }
	instructions[0x3D] = func(c *CPU) { c.A = c.dec8(c.A) }
	instructions[0x3E] = func(c *CPU) { c.A = c.readOperand() }
	instructions[0x3F] = func(c *CPU) { c.ccf() }

	instructions[0x76] = opHALT

	instructions[0xC0] = retCond(0)
	instructions[0xC1] = func(c *CPU) { c.BC.SetUint16(c.pop16()) }
	instructions[0xC2] = jpCond(0)
	instructions[0xC3] = func(c *CPU) { c.PC = c.readOperand16(); c.tickM() }
	instructions[0xC4] = callCond(0)
	instructions[0xC5] = func(c *CPU) { c.tickM(); c.push16(c.BC.Uint16()) }
	instructions[0xC6] = func(c *CPU) { c.add8(c.readOperand(), false) }
	instructions[0xC7] = rst(0x00)
	instructions[0xC8] = retCond(1)
	instructions[0xC9] = func(c *CPU) { c.PC = c.pop16(); c.tickM() }
	instructions[0xCA] = jpCond(1)
	instructions[0xCB] = func(c *CPU) {} // handled specially in Step
	instructions[0xCC] = callCond(1)
	instructions[0xCD] = func(c *CPU) { addr := c.readOperand16(); c.tickM(); c.push16(c.PC); c.PC = addr }
	instructions[0xCE] = func(c *CPU) { c.add8(c.readOperand(), true) }
	instructions[0xCF] = rst(0x08)

	instructions[0xD0] = retCond(2)
	instructions[0xD1] = func(c *CPU) { c.DE.SetUint16(c.pop16()) }
	instructions[0xD2] = jpCond(2)
	instructions[0xD3] = opIllegal
	instructions[0xD4] = callCond(2)
	instructions[0xD5] = func(c *CPU) { c.tickM(); c.push16(c.DE.Uint16()) }
	instructions[0xD6] = func(c *CPU) { c.sub8(c.readOperand(), false, true) }
	instructions[0xD7] = rst(0x10)
	instructions[0xD8] = retCond(3)
	instructions[0xD9] = func(c *CPU) { c.PC = c.pop16(); c.tickM(); c.irq.IME = true }
	instructions[0xDA] = jpCond(3)
	instructions[0xDB] = opIllegal
	instructions[0xDC] = callCond(3)
	instructions[0xDD] = opIllegal
	instructions[0xDE] = func(c *CPU) { c.sub8(c.readOperand(), true, true) }
	instructions[0xDF] = rst(0x18)

	instructions[0xE0] = func(c *CPU) { c.writeByte(0xFF00+uint16(c.readOperand()), c.A) }
	instructions[0xE1] = func(c *CPU) { c.HL.SetUint16(c.pop16()) }
	instructions[0xE2] = func(c *CPU) { c.writeByte(0xFF00+uint16(c.C), c.A) }
	instructions[0xE3] = opIllegal
	instructions[0xE4] = opIllegal
	instructions[0xE5] = func(c *CPU) { c.tickM(); c.push16(c.HL.Uint16()) }
	instructions[0xE6] = func(c *CPU) { c.and8(c.readOperand()) }
	instructions[0xE7] = rst(0x20)
	instructions[0xE8] = func(c *CPU) { c.SP = c.addSPSigned(); c.tickM(); c.tickM() }
	instructions[0xE9] = func(c *CPU) { c.PC = c.HL.Uint16() }
	instructions[0xEA] = func(c *CPU) { c.writeByte(c.readOperand16(), c.A) }
	instructions[0xEB] = opIllegal
	instructions[0xEC] = opIllegal
	instructions[0xED] = opIllegal
	instructions[0xEE] = func(c *CPU) { c.xor8(c.readOperand()) }
	instructions[0xEF] = rst(0x28)

	instructions[0xF0] = func(c *CPU) { c.A = c.readByte(0xFF00 + uint16(c.readOperand())) }
	instructions[0xF1] = func(c *CPU) { c.AF.SetUint16(c.pop16() & 0xFFF0) }
	instructions[0xF2] = func(c *CPU) { c.A = c.readByte(0xFF00 + uint16(c.C)) }
	instructions[0xF3] = func(c *CPU) { c.irq.Disable() }
	instructions[0xF4] = opIllegal
	instructions[0xF5] = func(c *CPU) { c.tickM(); c.push16(c.AF.Uint16() & 0xFFF0) }
	instructions[0xF6] = func(c *CPU) { c.or8(c.readOperand()) }
	instructions[0xF7] = rst(0x30)
	instructions[0xF8] = func(c *CPU) { c.HL.SetUint16(c.addSPSigned()); c.tickM() }
	instructions[0xF9] = func(c *CPU) { c.SP = c.HL.Uint16(); c.tickM() }
	instructions[0xFA] = func(c *CPU) { c.A = c.readByte(c.readOperand16()) }
	instructions[0xFB] = func(c *CPU) { c.irq.ScheduleEnable() }
	instructions[0xFC] = opIllegal
	instructions[0xFD] = opIllegal
	instructions[0xFE] = func(c *CPU) { c.sub8(c.readOperand(), false, false) }
	instructions[0xFF] = rst(0x38)

	fillLoadBlock()
	fillALUBlock()
}

// jrCond/jpCond/callCond/retCond/rst build the four conditional-branch
// families and RST from the same small parameter set instead of 4
// near-identical closures apiece.

func jrCond(cc uint8) func(*CPU) {
	return func(c *CPU) {
		offset := int8(c.readOperand())
		if c.condition(cc) {
			c.PC = uint16(int32(c.PC) + int32(offset))
			c.tickM()
		}
	}
}

func jpCond(cc uint8) func(*CPU) {
	return func(c *CPU) {
		addr := c.readOperand16()
		if c.condition(cc) {
			c.PC = addr
			c.tickM()
		}
	}
}

func callCond(cc uint8) func(*CPU) {
	return func(c *CPU) {
		addr := c.readOperand16()
		if c.condition(cc) {
			c.tickM()
			c.push16(c.PC)
			c.PC = addr
		}
	}
}

func retCond(cc uint8) func(*CPU) {
	return func(c *CPU) {
		c.tickM()
		if c.condition(cc) {
			c.PC = c.pop16()
			c.tickM()
		}
	}
}

func rst(addr uint16) func(*CPU) {
	return func(c *CPU) {
		c.tickM()
		c.push16(c.PC)
		c.PC = addr
	}
}

// fillLoadBlock fills 0x40-0x7F with LD r,r' for every (dst, src) pair
// except 0x76, which is HALT.
func fillLoadBlock() {
	for opcode := 0x40; opcode <= 0x7F; opcode++ {
		if opcode == 0x76 {
			continue
		}
		dst := uint8((opcode >> 3) & 0x07)
		src := uint8(opcode & 0x07)
		instructions[opcode] = func(c *CPU) { c.setR8(dst, c.getR8(src)) }
	}
}

// fillALUBlock fills 0x80-0xBF with the ADD/ADC/SUB/SBC/AND/XOR/OR/CP
// A,r8 block.
func fillALUBlock() {
	for opcode := 0x80; opcode <= 0xBF; opcode++ {
		op := uint8((opcode >> 3) & 0x07)
		src := uint8(opcode & 0x07)
		switch op {
		case 0:
			instructions[opcode] = func(c *CPU) { c.add8(c.getR8(src), false) }
		case 1:
			instructions[opcode] = func(c *CPU) { c.add8(c.getR8(src), true) }
		case 2:
			instructions[opcode] = func(c *CPU) { c.sub8(c.getR8(src), false, true) }
		case 3:
			instructions[opcode] = func(c *CPU) { c.sub8(c.getR8(src), true, true) }
		case 4:
			instructions[opcode] = func(c *CPU) { c.and8(c.getR8(src)) }
		case 5:
			instructions[opcode] = func(c *CPU) { c.xor8(c.getR8(src)) }
		case 6:
			instructions[opcode] = func(c *CPU) { c.or8(c.getR8(src)) }
		default:
			instructions[opcode] = func(c *CPU) { c.sub8(c.getR8(src), false, false) }
		}
	}
}
