package cartridge

// mbc1 implements the MBC1 controller: a 5-bit primary ROM
// bank register, a 2-bit secondary register shared between the upper ROM
// bank bits and the RAM bank depending on the mode bit, and the
// bank-0-means-1 quirk on the primary register.
type mbc1 struct {
	rom    []byte
	ram    []byte
	header *Header

	ramEnabled bool
	bank1      uint8 // 5 bits, the primary ROM bank selector; 0 is treated as 1
	bank2      uint8 // 2 bits, secondary register (upper ROM bits or RAM bank)
	mode       bool  // advanced banking mode

	isMultiCart bool // heuristically detected 8-game multicart (16 Mbit carts)

	romBanks int
}

func newMBC1(rom []byte, header *Header) *mbc1 {
	m := &mbc1{rom: rom, ram: make([]byte, header.RAMSize), header: header, bank1: 1, romBanks: header.ROMBanks}
	m.detectMultiCart()
	return m
}

var nintendoLogo = [48]byte{
	0xCE, 0xED, 0x66, 0x66, 0xCC, 0x0D, 0x00, 0x0B,
	0x03, 0x73, 0x00, 0x83, 0x00, 0x0C, 0x00, 0x0D,
	0x00, 0x08, 0x11, 0x1F, 0x88, 0x89, 0x00, 0x0E,
	0xDC, 0xCC, 0x6E, 0xE6, 0xDD, 0xDD, 0xD9, 0x99,
	0xBB, 0xBB, 0x67, 0x63, 0x6E, 0x0E, 0xEC, 0xCC,
	0xDD, 0xDC, 0x99, 0x9F, 0xBB, 0xB9, 0x33, 0x3E,
}

// detectMultiCart applies the usual heuristic for MBC1M carts: a 1 MiB ROM
// that repeats the Nintendo logo at the start of more than one of its four
// 256 KiB (16-bank) groups is a multicart, which uses a 4-bit (not 5-bit) bank1 and
// shifts bank2 by 4 instead of 5.
func (m *mbc1) detectMultiCart() {
	if len(m.rom) != 1024*1024 {
		return
	}
	matches := 0
	for group := 0; group < 4; group++ {
		base := group * 0x40000
		ok := true
		for i, want := range nintendoLogo {
			if m.rom[base+0x0104+i] != want {
				ok = false
				break
			}
		}
		if ok {
			matches++
		}
	}
	m.isMultiCart = matches > 1
}

func (m *mbc1) bankShift() uint8 {
	if m.isMultiCart {
		return 4
	}
	return 5
}

func (m *mbc1) lowBankNumber() int {
	if m.mode {
		return int(m.bank2) << m.bankShift()
	}
	return 0
}

func (m *mbc1) highBankNumber() int {
	n := int(m.bank1) | (int(m.bank2) << m.bankShift())
	return n
}

func (m *mbc1) ReadROM(addr uint16) uint8 {
	if addr < 0x4000 {
		bank := m.lowBankNumber() % m.romBanks
		off := bank*0x4000 + int(addr)
		return m.rom[off]
	}
	bank := m.highBankNumber() % m.romBanks
	off := bank*0x4000 + int(addr-0x4000)
	return m.rom[off]
}

func (m *mbc1) WriteROM(addr uint16, value uint8) {
	switch {
	case addr < 0x2000:
		m.ramEnabled = value&0x0F == 0x0A
	case addr < 0x4000:
		value &= 0x1F
		if m.isMultiCart {
			value &= 0x0F
		}
		if value == 0 {
			value = 1
		}
		m.bank1 = value
	case addr < 0x6000:
		m.bank2 = value & 0x03
	case addr < 0x8000:
		m.mode = value&1 == 1
	}
}

func (m *mbc1) ramBankNumber() int {
	if m.mode && m.header.RAMSize > 0x2000 {
		return int(m.bank2) & 0x03
	}
	return 0
}

func (m *mbc1) ReadRAM(addr uint16) uint8 {
	if !m.ramEnabled || len(m.ram) == 0 {
		return 0xFF
	}
	off := m.ramBankNumber()*0x2000 + int(addr-0xA000)
	if off >= len(m.ram) {
		return 0xFF
	}
	return m.ram[off]
}

func (m *mbc1) WriteRAM(addr uint16, value uint8) {
	if !m.ramEnabled || len(m.ram) == 0 {
		return
	}
	off := m.ramBankNumber()*0x2000 + int(addr-0xA000)
	if off < len(m.ram) {
		m.ram[off] = value
	}
}

func (m *mbc1) Tick() {}

func (m *mbc1) Header() *Header { return m.header }

func (m *mbc1) BatteryRAM() []byte {
	if !m.header.HasBattery {
		return nil
	}
	return m.ram
}

func (m *mbc1) LoadBatteryRAM(data []byte) error {
	if len(data) != len(m.ram) {
		return ErrBatteryRamSize
	}
	copy(m.ram, data)
	return nil
}
