package cpu

import "github.com/retrosilicon/gomeboy/internal/types"

// cc index encoding shared by JR/JP/CALL/RET: 0=NZ 1=Z 2=NC 3=C.
func (c *CPU) condition(idx uint8) bool {
	switch idx {
	case 0:
		return !c.flag(types.FlagZero)
	case 1:
		return c.flag(types.FlagZero)
	case 2:
		return !c.flag(types.FlagCarry)
	default:
		return c.flag(types.FlagCarry)
	}
}
