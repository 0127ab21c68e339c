package cpu

// cbInstructions is generated at package init from the CB-prefixed
// opcode's bit layout rather than hand-listed, since the whole 256-entry
// space reduces to four fully regular groups (rotate/shift, BIT, RES, SET).
var cbInstructions [256]func(*CPU)

func (c *CPU) rotateShift(op, v uint8) uint8 {
	switch op {
	case 0:
		return c.rlc(v)
	case 1:
		return c.rrc(v)
	case 2:
		return c.rl(v)
	case 3:
		return c.rr(v)
	case 4:
		return c.sla(v)
	case 5:
		return c.sra(v)
	case 6:
		return c.swap(v)
	default:
		return c.srl(v)
	}
}

func init() {
	for opcode := 0; opcode < 256; opcode++ {
		reg := uint8(opcode & 0x07)
		bitIdx := uint8((opcode >> 3) & 0x07)

		switch {
		case opcode < 0x40:
			op := bitIdx
			cbInstructions[opcode] = func(c *CPU) {
				c.setR8(reg, c.rotateShift(op, c.getR8(reg)))
			}
		case opcode < 0x80:
			cbInstructions[opcode] = func(c *CPU) {
				c.bit(bitIdx, c.getR8(reg))
			}
		case opcode < 0xC0:
			cbInstructions[opcode] = func(c *CPU) {
				c.setR8(reg, res(bitIdx, c.getR8(reg)))
			}
		default:
			cbInstructions[opcode] = func(c *CPU) {
				c.setR8(reg, set(bitIdx, c.getR8(reg)))
			}
		}
	}
}
