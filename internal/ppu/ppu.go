// Package ppu implements the Game Boy's picture-processing unit: the
// mode-2/3/0/1 scanline state machine, a background/window/sprite pixel
// pipeline, OAM scanning, LYC/STAT interrupt handling, and (on CGB) the
// palette RAM and VRAM banking, built around an explicit Tick-per-M-cycle
// interface instead of a scanline-precomputed renderer.
package ppu

import "github.com/retrosilicon/gomeboy/internal/interrupts"

const (
	ScreenWidth  = 160
	ScreenHeight = 144

	dotsPerLine  = 456
	linesPerFrame = 154
	oamScanDots  = 80
)

// Mode is one of the four PPU states.
type Mode = uint8

const (
	ModeHBlank Mode = 0
	ModeVBlank Mode = 1
	ModeOAM    Mode = 2
	ModeDraw   Mode = 3
)

const (
	lcdcEnable          uint8 = 1 << 7
	lcdcWindowTileMap   uint8 = 1 << 6
	lcdcWindowEnable    uint8 = 1 << 5
	lcdcTileDataSelect  uint8 = 1 << 4
	lcdcBGTileMap       uint8 = 1 << 3
	lcdcObjSize         uint8 = 1 << 2
	lcdcObjEnable       uint8 = 1 << 1
	lcdcBGEnable        uint8 = 1 << 0

	statLYCEnable   uint8 = 1 << 6
	statMode2Enable uint8 = 1 << 5
	statMode1Enable uint8 = 1 << 4
	statMode0Enable uint8 = 1 << 3
	statCoincidence uint8 = 1 << 2
)

type spriteEntry struct {
	y, x, tile, attr uint8
	oamIndex         uint8
}

// PPU is the Game Boy picture-processing unit.
type PPU struct {
	lcdc, stat             uint8
	scy, scx               uint8
	ly, lyc                uint8
	wy, wx                 uint8
	windowLine             uint8 // internal counter, only advances on lines the window was actually drawn
	bgp, obp0, obp1        uint8
	vbk                    uint8 // CGB VRAM bank select (0 or 1)
	opri                   uint8 // CGB object priority mode register

	vram [2][0x2000]uint8
	oam  [0xA0]uint8

	bgPalette, objPalette *cgbPaletteRAM

	dot  uint16
	mode Mode

	statLine bool // previous value of the STAT interrupt OR, for edge detection

	sprites    []spriteEntry // this line's OAM-scan result, up to 10 entries
	bg, sprite ringFIFO

	FrameBuffer [ScreenHeight][ScreenWidth][3]uint8

	// VBlankEntered latches true the M-cycle the PPU transitions from line
	// 143 into line 144, and stays true until the caller calls
	// ClearVBlank. The machine package uses this to know a complete frame
	// is ready without racing a mid-instruction reset.
	VBlankEntered bool

	isCGB bool
	irq   *interrupts.Controller

	DMA  *OAMDMA
	HDMA *HDMA

	// ReadBus lets the DMA/HDMA engines read arbitrary bus addresses (ROM,
	// WRAM, etc.) without the ppu package depending on the bus package.
	// mmu.New wires this to a bus read that the OAM-DMA lockout exempts.
	ReadBus func(addr uint16) uint8
}

// New returns a PPU in its DMG/CGB power-on state.
func New(irq *interrupts.Controller, isCGB bool) *PPU {
	p := &PPU{
		lcdc:  0x91,
		stat:  0x80,
		bgp:   0xFC,
		mode:  ModeOAM,
		isCGB: isCGB,
		irq:   irq,
	}
	if isCGB {
		p.bgPalette = &cgbPaletteRAM{}
		p.objPalette = &cgbPaletteRAM{}
	}
	p.DMA = newOAMDMA(p)
	p.HDMA = newHDMA(p)
	return p
}

func (p *PPU) enabled() bool { return p.lcdc&lcdcEnable != 0 }

// Tick advances the PPU by one M-cycle (4 dots). Callers are responsible
// for only invoking this at the normal (non-double) rate even in CGB
// double-speed mode.
func (p *PPU) Tick() {
	if p.DMA.Active() && p.ReadBus != nil {
		p.DMA.Tick(p.ReadBus)
	}
	if !p.enabled() {
		return
	}
	for i := 0; i < 4; i++ {
		p.tickDot()
	}
}

func (p *PPU) tickDot() {
	p.dot++

	switch p.mode {
	case ModeOAM:
		if p.dot == oamScanDots {
			p.scanOAM()
			p.enterMode(ModeDraw)
			p.renderScanline()
		}
	case ModeDraw:
		if p.dot >= oamScanDots+p.modeDrawLength() {
			p.enterMode(ModeHBlank)
		}
	case ModeHBlank:
		if p.dot >= dotsPerLine {
			p.advanceLine()
		}
	case ModeVBlank:
		if p.dot >= dotsPerLine {
			p.advanceLine()
		}
	}
}

func (p *PPU) advanceLine() {
	p.dot = 0
	p.ly++
	if p.ly == ScreenHeight {
		p.enterMode(ModeVBlank)
		p.irq.Request(interrupts.VBlank)
		p.VBlankEntered = true
	} else if p.ly > linesPerFrame-1 {
		p.ly = 0
		p.windowLine = 0
		p.enterMode(ModeOAM)
	} else if p.mode == ModeVBlank {
		// stay in VBlank for lines 144-153
	} else {
		p.enterMode(ModeOAM)
	}
	p.checkLYC()
	p.updateStatLine()
}

func (p *PPU) enterMode(m Mode) {
	p.mode = m
	p.updateStatLine()
	if m == ModeHBlank && p.isCGB && p.ReadBus != nil {
		p.HDMA.OnHBlankStart(p.ReadBus)
	}
}

func (p *PPU) checkLYC() {
	if p.ly == p.lyc {
		p.stat |= statCoincidence
	} else {
		p.stat &^= statCoincidence
	}
}

// updateStatLine recomputes the STAT interrupt OR and requests an
// interrupt only on its rising edge.
func (p *PPU) updateStatLine() {
	line := false
	if p.stat&statLYCEnable != 0 && p.stat&statCoincidence != 0 {
		line = true
	}
	switch p.mode {
	case ModeOAM:
		line = line || p.stat&statMode2Enable != 0
	case ModeVBlank:
		line = line || p.stat&statMode1Enable != 0
		// VBlank also feeds mode-2 sources on real hardware for the final
		// line transition; omitted as a minor, untested corner.
	case ModeHBlank:
		line = line || p.stat&statMode0Enable != 0
	}
	if line && !p.statLine {
		p.irq.Request(interrupts.LCD)
	}
	p.statLine = line
}

// modeDrawLength estimates the dot length of Mode 3 for the current line.
// Exact per-dot FIFO timing is outside this emulator's accuracy target;
// the estimate reproduces the well-documented contributors - SCX&7
// discard, a window engage penalty, and a per-sprite fetch stall -
// without simulating the fetcher dot-by-dot.
func (p *PPU) modeDrawLength() uint16 {
	length := uint16(172)
	length += uint16(p.scx & 0x07)
	if p.windowTriggeredThisLine() {
		length += 6
	}
	for _, s := range p.sprites {
		offset := (uint16(s.x) + uint16(p.scx)) % 8
		length += 6 + (8-offset)%8
	}
	return length
}

func (p *PPU) windowTriggeredThisLine() bool {
	return p.lcdc&lcdcWindowEnable != 0 && p.ly >= p.wy && p.wx <= 166
}

// scanOAM selects up to 10 sprites visible on the current line, in the
// priority order requires (DMG: lower X wins ties broken by
// OAM index; CGB: strictly OAM index when LCDC bit 0 is set).
func (p *PPU) scanOAM() {
	height := uint8(8)
	if p.lcdc&lcdcObjSize != 0 {
		height = 16
	}
	p.sprites = p.sprites[:0]
	for i := 0; i < 40 && len(p.sprites) < 10; i++ {
		y := p.oam[i*4]
		x := p.oam[i*4+1]
		tile := p.oam[i*4+2]
		attr := p.oam[i*4+3]
		if p.ly+16 >= y && p.ly+16 < y+height {
			p.sprites = append(p.sprites, spriteEntry{y: y, x: x, tile: tile, attr: attr, oamIndex: uint8(i)})
		}
	}
	cgbIndexPriority := p.isCGB && p.opri&1 == 0
	if !cgbIndexPriority {
		// stable sort by X, OAM index already ascending so ties keep
		// their scan order.
		for i := 1; i < len(p.sprites); i++ {
			for j := i; j > 0 && p.sprites[j].x < p.sprites[j-1].x; j-- {
				p.sprites[j], p.sprites[j-1] = p.sprites[j-1], p.sprites[j]
			}
		}
	}
}

// Read implements MMIO reads of the PPU's registers, respecting the
// VRAM/OAM access locks during modes 3 and 2+3.
func (p *PPU) Read(addr uint16) uint8 {
	switch {
	case addr >= 0x8000 && addr <= 0x9FFF:
		if p.mode == ModeDraw {
			return 0xFF
		}
		return p.vram[p.vbk][addr-0x8000]
	case addr >= 0xFE00 && addr <= 0xFE9F:
		if p.mode == ModeOAM || p.mode == ModeDraw {
			return 0xFF
		}
		return p.oam[addr-0xFE00]
	}
	switch addr {
	case 0xFF40:
		return p.lcdc
	case 0xFF41:
		return p.stat | 0x80 | p.mode
	case 0xFF42:
		return p.scy
	case 0xFF43:
		return p.scx
	case 0xFF44:
		return p.ly
	case 0xFF45:
		return p.lyc
	case 0xFF47:
		return p.bgp
	case 0xFF48:
		return p.obp0
	case 0xFF49:
		return p.obp1
	case 0xFF4A:
		return p.wy
	case 0xFF4B:
		return p.wx
	case 0xFF4F:
		return p.vbk | 0xFE
	case 0xFF68:
		if p.bgPalette != nil {
			return p.bgPalette.readSpec()
		}
	case 0xFF69:
		if p.bgPalette != nil {
			return p.bgPalette.readData()
		}
	case 0xFF6A:
		if p.objPalette != nil {
			return p.objPalette.readSpec()
		}
	case 0xFF6B:
		if p.objPalette != nil {
			return p.objPalette.readData()
		}
	case 0xFF6C:
		return p.opri | 0xFE
	case 0xFF55:
		if p.isCGB {
			return p.HDMA.Read(addr)
		}
	}
	return 0xFF
}

// Write implements MMIO writes of the PPU's registers, respecting the
// same access locks as Read. It returns the number of 16-byte blocks a
// general-purpose HDMA write just performed synchronously, so the bus can
// charge the CPU the matching stall; every other write returns 0.
func (p *PPU) Write(addr uint16, value uint8) int {
	switch {
	case addr >= 0x8000 && addr <= 0x9FFF:
		if p.mode != ModeDraw {
			p.vram[p.vbk][addr-0x8000] = value
		}
		return 0
	case addr >= 0xFE00 && addr <= 0xFE9F:
		if p.mode != ModeOAM && p.mode != ModeDraw {
			p.oam[addr-0xFE00] = value
		}
		return 0
	}
	switch addr {
	case 0xFF40:
		wasEnabled := p.enabled()
		p.lcdc = value
		if wasEnabled && !p.enabled() {
			p.dot = 0
			p.ly = 0
			p.mode = ModeHBlank
			p.FrameBuffer = [ScreenHeight][ScreenWidth][3]uint8{}
		} else if !wasEnabled && p.enabled() {
			p.dot = 0
			p.mode = ModeOAM
		}
	case 0xFF41:
		p.stat = (p.stat & 0x87) | (value & 0x78)
		p.updateStatLine()
	case 0xFF42:
		p.scy = value
	case 0xFF43:
		p.scx = value
	case 0xFF44:
		p.ly = 0 // writes reset LY, per the real register's documented behavior
	case 0xFF45:
		p.lyc = value
		p.checkLYC()
		p.updateStatLine()
	case 0xFF47:
		p.bgp = value
	case 0xFF48:
		p.obp0 = value
	case 0xFF49:
		p.obp1 = value
	case 0xFF4A:
		p.wy = value
	case 0xFF4B:
		p.wx = value
	case 0xFF4F:
		if p.isCGB {
			p.vbk = value & 0x01
		}
	case 0xFF68:
		if p.bgPalette != nil {
			p.bgPalette.writeSpec(value)
		}
	case 0xFF69:
		if p.bgPalette != nil {
			p.bgPalette.writeData(value)
		}
	case 0xFF6A:
		if p.objPalette != nil {
			p.objPalette.writeSpec(value)
		}
	case 0xFF6B:
		if p.objPalette != nil {
			p.objPalette.writeData(value)
		}
	case 0xFF6C:
		p.opri = value & 0x01
	case 0xFF46:
		p.DMA.Start(value)
	case 0xFF51, 0xFF52, 0xFF53, 0xFF54:
		if p.isCGB {
			p.HDMA.Write(addr, value, p.ReadBus)
		}
	case 0xFF55:
		if p.isCGB {
			return p.HDMA.Write(addr, value, p.ReadBus)
		}
	}
	return 0
}

// CurrentMode exposes the current mode for tests and debug tooling.
func (p *PPU) CurrentMode() Mode { return p.mode }

// LY exposes the current scanline for tests and debug tooling.
func (p *PPU) LY() uint8 { return p.ly }

// OAMDMAActive reports whether an OAM DMA transfer is in flight, used by
// the bus to restrict the CPU to HRAM/IE accesses.
func (p *PPU) OAMDMAActive() bool { return p.DMA.Active() }

// ClearVBlank consumes the latched VBlankEntered flag once the caller has
// read the completed frame out of FrameBuffer.
func (p *PPU) ClearVBlank() { p.VBlankEntered = false }
