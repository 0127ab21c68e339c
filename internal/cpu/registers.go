package cpu

// r8 index encoding shared by the LD r,r' block, the ALU-r block, and
// every CB-prefixed opcode: 0=B 1=C 2=D 3=E 4=H 5=L 6=(HL) 7=A.

func (c *CPU) getR8(idx uint8) uint8 {
	switch idx {
	case 0:
		return c.B
	case 1:
		return c.C
	case 2:
		return c.D
	case 3:
		return c.E
	case 4:
		return c.H
	case 5:
		return c.L
	case 6:
		return c.readByte(c.HL.Uint16())
	default:
		return c.A
	}
}

func (c *CPU) setR8(idx uint8, v uint8) {
	switch idx {
	case 0:
		c.B = v
	case 1:
		c.C = v
	case 2:
		c.D = v
	case 3:
		c.E = v
	case 4:
		c.H = v
	case 5:
		c.L = v
	case 6:
		c.writeByte(c.HL.Uint16(), v)
	default:
		c.A = v
	}
}

// r16 index encoding for the 0x00-0x3F block: 0=BC 1=DE 2=HL 3=SP.

func (c *CPU) getR16(idx uint8) uint16 {
	switch idx {
	case 0:
		return c.BC.Uint16()
	case 1:
		return c.DE.Uint16()
	case 2:
		return c.HL.Uint16()
	default:
		return c.SP
	}
}

func (c *CPU) setR16(idx uint8, v uint16) {
	switch idx {
	case 0:
		c.BC.SetUint16(v)
	case 1:
		c.DE.SetUint16(v)
	case 2:
		c.HL.SetUint16(v)
	default:
		c.SP = v
	}
}

// r16Stack index encoding for PUSH/POP: 0=BC 1=DE 2=HL 3=AF.

func (c *CPU) getR16Stack(idx uint8) uint16 {
	switch idx {
	case 0:
		return c.BC.Uint16()
	case 1:
		return c.DE.Uint16()
	case 2:
		return c.HL.Uint16()
	default:
		return c.AF.Uint16() & 0xFFF0
	}
}

func (c *CPU) setR16Stack(idx uint8, v uint16) {
	switch idx {
	case 0:
		c.BC.SetUint16(v)
	case 1:
		c.DE.SetUint16(v)
	case 2:
		c.HL.SetUint16(v)
	default:
		c.AF.SetUint16(v & 0xFFF0)
	}
}
