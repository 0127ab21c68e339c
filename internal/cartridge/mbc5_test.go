package cartridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMBC5(romBanks, ramSize int) *mbc5 {
	header := &Header{MBC: MBC5, ROMBanks: romBanks, RAMSize: ramSize, HasBattery: true}
	rom := make([]byte, romBanks*0x4000)
	for bank := 0; bank < romBanks; bank++ {
		rom[bank*0x4000] = uint8(bank % 256)
	}
	return newMBC5(rom, header)
}

func TestMBC5BankZeroIsSelectableUnlikeMBC1(t *testing.T) {
	m := newTestMBC5(4, 0)
	m.WriteROM(0x2000, 0x00)
	assert.Equal(t, uint8(0), m.ReadROM(0x4000), "MBC5 has no bank-0 quirk, bank 0 maps straight through")
}

func TestMBC5NineBitBankSpansTwoWriteWindows(t *testing.T) {
	m := newTestMBC5(512, 0)
	m.WriteROM(0x2000, 0xFF) // low 8 bits
	m.WriteROM(0x3000, 0x01) // bit 8
	assert.Equal(t, 0x1FF, m.romBank())
	assert.Equal(t, uint8(0xFF), m.ReadROM(0x4000), "bank 0x1FF%256 wraps back to 0xFF in this fixture's fill pattern")
}

func TestMBC5RAMBankSelect(t *testing.T) {
	m := newTestMBC5(4, 4*0x2000)
	m.WriteROM(0x0000, 0x0A)
	m.WriteROM(0x4000, 0x02) // RAM bank 2
	m.WriteRAM(0xA000, 0x9C)
	m.WriteROM(0x4000, 0x00)
	assert.Equal(t, uint8(0x00), m.ReadRAM(0xA000), "bank 0 is untouched")
	m.WriteROM(0x4000, 0x02)
	assert.Equal(t, uint8(0x9C), m.ReadRAM(0xA000))
}

func TestMBC5BatteryRAMRoundTrip(t *testing.T) {
	m := newTestMBC5(2, 0x2000)
	m.WriteROM(0x0000, 0x0A)
	m.WriteRAM(0xA000, 0x33)

	saved := m.BatteryRAM()
	require.Len(t, saved, 0x2000)

	m2 := newTestMBC5(2, 0x2000)
	require.NoError(t, m2.LoadBatteryRAM(saved))
	m2.WriteROM(0x0000, 0x0A)
	assert.Equal(t, uint8(0x33), m2.ReadRAM(0xA000))
}
