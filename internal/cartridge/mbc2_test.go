package cartridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMBC2(romBanks int) *mbc2 {
	header := &Header{MBC: MBC2, ROMBanks: romBanks, HasBattery: true}
	rom := make([]byte, romBanks*0x4000)
	for bank := 0; bank < romBanks; bank++ {
		rom[bank*0x4000] = uint8(bank)
	}
	return newMBC2(rom, header)
}

func TestMBC2BankSelectUsesAddressBit8(t *testing.T) {
	m := newTestMBC2(4)
	m.WriteROM(0x0000, 0x0A) // bit 8 clear -> RAM enable toggle, not bank select
	m.WriteROM(0x2100, 0x02) // bit 8 set -> bank select
	assert.Equal(t, uint8(2), m.ReadROM(0x4000))
}

func TestMBC2BankZeroWriteTreatedAsOne(t *testing.T) {
	m := newTestMBC2(4)
	m.WriteROM(0x2100, 0x00)
	assert.Equal(t, uint8(1), m.ReadROM(0x4000))
}

func TestMBC2RAMOnlyLowNibbleMeaningful(t *testing.T) {
	m := newTestMBC2(2)
	m.WriteROM(0x0000, 0x0A)
	m.WriteRAM(0xA000, 0xFF)
	assert.Equal(t, uint8(0xFF), m.ReadRAM(0xA000))

	m.WriteRAM(0xA000, 0x05)
	assert.Equal(t, uint8(0xF5), m.ReadRAM(0xA000), "upper nibble always reads back as 0xF")
}

func TestMBC2RAMGatedByEnable(t *testing.T) {
	m := newTestMBC2(2)
	m.WriteRAM(0xA000, 0x05)
	assert.Equal(t, uint8(0xFF), m.ReadRAM(0xA000), "RAM disabled")
}

func TestMBC2RAMWrapsAt512(t *testing.T) {
	m := newTestMBC2(2)
	m.WriteROM(0x0000, 0x0A)
	m.WriteRAM(0xA1FF, 0x03) // last valid index (511)
	assert.Equal(t, uint8(0xF3), m.ReadRAM(0xA3FF), "0xA3FF wraps back to index 511")
}

func TestMBC2BatteryRAMRoundTrip(t *testing.T) {
	m := newTestMBC2(2)
	m.WriteROM(0x0000, 0x0A)
	m.WriteRAM(0xA000, 0x07)

	saved := m.BatteryRAM()
	require.Len(t, saved, 512)

	m2 := newTestMBC2(2)
	require.NoError(t, m2.LoadBatteryRAM(saved))
	m2.WriteROM(0x0000, 0x0A)
	assert.Equal(t, uint8(0xF7), m2.ReadRAM(0xA000))
}
