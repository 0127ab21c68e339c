package cpu

import "github.com/retrosilicon/gomeboy/internal/types"

// setFlag forces a flag bit to a specific value, keeping the low nibble
// of F clear.
func (c *CPU) setFlag(flag types.Flag, value bool) {
	if value {
		c.F |= flag
	} else {
		c.F &^= flag
	}
	c.F &= 0xF0
}

func (c *CPU) flag(flag types.Flag) bool {
	return c.F&flag != 0
}
