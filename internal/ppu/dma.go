package ppu

// OAMDMA implements the OAM DMA engine: writing 0xFF46
// starts a 160 M-cycle transfer of 160 bytes into OAM, during which the
// CPU may only access HRAM and IE (enforced by the bus, not here).
type OAMDMA struct {
	ppu *PPU

	active     bool
	source     uint16
	cyclesLeft uint16
}

func newOAMDMA(p *PPU) *OAMDMA {
	return &OAMDMA{ppu: p}
}

// Active reports whether a transfer is in progress; the bus consults this
// to restrict CPU memory access.
func (d *OAMDMA) Active() bool { return d.active }

// Start begins a transfer from (value << 8). The reader Tick copies
// through is supplied by Tick's caller so the DMA engine doesn't need its
// own memory-region dispatch logic.
func (d *OAMDMA) Start(value uint8) {
	d.source = uint16(value) << 8
	d.cyclesLeft = 160
	d.active = true
}

// Tick copies one byte per M-cycle for 160 M-cycles, then deactivates.
// readByte reads source memory bypassing the DMA-active restriction (the
// DMA engine itself is exempt from its own lockout).
func (d *OAMDMA) Tick(readByte func(addr uint16) uint8) {
	if !d.active {
		return
	}
	offset := 160 - d.cyclesLeft
	d.ppu.oam[offset] = readByte(d.source + offset)
	d.cyclesLeft--
	if d.cyclesLeft == 0 {
		d.active = false
	}
}
