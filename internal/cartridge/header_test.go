package cartridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTestROM(mbcByte, romSizeByte, ramSizeByte uint8, title string) []byte {
	rom := make([]byte, 0x8000)
	copy(rom[0x134:0x144], title)
	rom[0x143] = 0x00
	rom[0x147] = mbcByte
	rom[0x148] = romSizeByte
	rom[0x149] = ramSizeByte
	var sum uint8
	for addr := 0x134; addr <= 0x14C; addr++ {
		sum = sum - rom[addr] - 1
	}
	rom[0x14D] = sum
	return rom
}

func TestParseHeaderMBC1WithBattery(t *testing.T) {
	rom := buildTestROM(0x03, 0x00, 0x02, "POKEMON")
	h, err := ParseHeader(rom)
	require.NoError(t, err)
	assert.Equal(t, "POKEMON", h.Title)
	assert.Equal(t, MBC1, h.MBC)
	assert.True(t, h.HasBattery)
	assert.False(t, h.HasRTC)
	assert.Equal(t, 2, h.ROMBanks)
	assert.Equal(t, 8*1024, h.RAMSize)
	assert.True(t, h.ChecksumOK)
}

func TestParseHeaderMBC3WithRTC(t *testing.T) {
	rom := buildTestROM(0x10, 0x01, 0x00, "ZELDA")
	h, err := ParseHeader(rom)
	require.NoError(t, err)
	assert.Equal(t, MBC3, h.MBC)
	assert.True(t, h.HasBattery)
	assert.True(t, h.HasRTC)
}

func TestParseHeaderMBC2IgnoresRAMSizeByte(t *testing.T) {
	rom := buildTestROM(0x06, 0x00, 0x03, "TETRIS")
	h, err := ParseHeader(rom)
	require.NoError(t, err)
	assert.Equal(t, MBC2, h.MBC)
	assert.Equal(t, 512, h.RAMSize, "MBC2's built-in RAM size overrides the header byte")
}

func TestParseHeaderRejectsShortROM(t *testing.T) {
	_, err := ParseHeader(make([]byte, 0x100))
	assert.ErrorIs(t, err, ErrInvalidRom)
}

func TestParseHeaderRejectsUnknownMBCByte(t *testing.T) {
	rom := buildTestROM(0xFE, 0x00, 0x00, "BAD")
	_, err := ParseHeader(rom)
	assert.ErrorIs(t, err, ErrUnsupportedMbc)
}

func TestParseHeaderBadChecksumIsSoftWarning(t *testing.T) {
	rom := buildTestROM(0x00, 0x00, 0x00, "OK")
	rom[0x14D] ^= 0xFF
	h, err := ParseHeader(rom)
	require.NoError(t, err, "a bad header checksum must not fail parsing")
	assert.False(t, h.ChecksumOK)
}

func TestNewConstructsExpectedController(t *testing.T) {
	rom := buildTestROM(0x01, 0x00, 0x00, "MARIO")
	cart, header, err := New(rom)
	require.NoError(t, err)
	assert.Equal(t, MBC1, header.MBC)
	_, ok := cart.(*mbc1)
	assert.True(t, ok)
}

func TestNewPropagatesHeaderError(t *testing.T) {
	_, _, err := New(make([]byte, 4))
	assert.ErrorIs(t, err, ErrInvalidRom)
}
