package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/retrosilicon/gomeboy/internal/types"
)

func TestRlcWrapsTopBitToCarryAndBottom(t *testing.T) {
	c := &CPU{}
	result := c.rlc(0x80)
	assert.Equal(t, uint8(0x01), result)
	assert.True(t, c.flag(types.FlagCarry))
}

func TestRrcWrapsBottomBitToCarryAndTop(t *testing.T) {
	c := &CPU{}
	result := c.rrc(0x01)
	assert.Equal(t, uint8(0x80), result)
	assert.True(t, c.flag(types.FlagCarry))
}

func TestRlShiftsInExistingCarry(t *testing.T) {
	c := &CPU{}
	c.setFlag(types.FlagCarry, true)
	result := c.rl(0x01)
	assert.Equal(t, uint8(0x03), result, "carry-in becomes the new bit 0")
	assert.False(t, c.flag(types.FlagCarry), "bit 7 of 0x01 was 0")
}

func TestRrShiftsInExistingCarry(t *testing.T) {
	c := &CPU{}
	c.setFlag(types.FlagCarry, true)
	result := c.rr(0x02)
	assert.Equal(t, uint8(0x81), result, "carry-in becomes the new bit 7")
}

func TestSraPreservesSignBit(t *testing.T) {
	c := &CPU{}
	result := c.sra(0x80)
	assert.Equal(t, uint8(0xC0), result, "arithmetic shift keeps bit 7 set")
}

func TestSrlClearsTopBit(t *testing.T) {
	c := &CPU{}
	result := c.srl(0x80)
	assert.Equal(t, uint8(0x40), result)
	assert.False(t, c.flag(types.FlagCarry))
}

func TestSlaSetsCarryFromTopBit(t *testing.T) {
	c := &CPU{}
	result := c.sla(0x81)
	assert.Equal(t, uint8(0x02), result)
	assert.True(t, c.flag(types.FlagCarry))
}

func TestSwapExchangesNibbles(t *testing.T) {
	c := &CPU{}
	result := c.swap(0xAB)
	assert.Equal(t, uint8(0xBA), result)
}

func TestSwapZeroSetsZeroFlag(t *testing.T) {
	c := &CPU{}
	result := c.swap(0x00)
	assert.Equal(t, uint8(0), result)
	assert.True(t, c.flag(types.FlagZero))
}

func TestBitTestsSpecificBit(t *testing.T) {
	c := &CPU{}
	c.bit(3, 0x08)
	assert.False(t, c.flag(types.FlagZero), "bit 3 is set")
	c.bit(3, 0x00)
	assert.True(t, c.flag(types.FlagZero), "bit 3 is clear")
}

func TestSetAndRes(t *testing.T) {
	assert.Equal(t, uint8(0x08), set(3, 0x00))
	assert.Equal(t, uint8(0x00), res(3, 0x08))
}

func TestRlcaAlwaysClearsZeroEvenWhenResultIsZero(t *testing.T) {
	c := &CPU{A: 0x00}
	c.rlca()
	assert.Equal(t, uint8(0x00), c.A)
	assert.False(t, c.flag(types.FlagZero), "the accumulator form never sets Zero")
}

func TestRlaUsesExistingCarryUnlikeRlca(t *testing.T) {
	c := &CPU{A: 0x01}
	c.setFlag(types.FlagCarry, true)
	c.rla()
	assert.Equal(t, uint8(0x03), c.A)
}
