// Package mmu provides the Game Boy's memory bus: the single Read/Write
// dispatch across the full 16-bit address space that every other
// component is wired behind, generalized to also own WRAM banking (CGB
// SVBK), the boot ROM overlay, the KEY1 speed-switch register, and the
// OAM-DMA CPU lockout.
package mmu

import (
	"github.com/retrosilicon/gomeboy/internal/boot"
	"github.com/retrosilicon/gomeboy/internal/cartridge"
	"github.com/retrosilicon/gomeboy/internal/interrupts"
	"github.com/retrosilicon/gomeboy/internal/joypad"
	"github.com/retrosilicon/gomeboy/internal/ppu"
	"github.com/retrosilicon/gomeboy/internal/scheduler"
	"github.com/retrosilicon/gomeboy/internal/serial"
	"github.com/retrosilicon/gomeboy/internal/timer"
	"github.com/retrosilicon/gomeboy/internal/types"
)

// Bus is the Game Boy's 16-bit address space, dispatching to whichever
// component owns a given region.
type Bus struct {
	Cart   cartridge.Cartridge
	PPU    *ppu.PPU
	Timer  *timer.Controller
	Joypad *joypad.State
	Serial *serial.Controller
	IRQ    *interrupts.Controller

	// Cycles is the monotonic M-cycle counter since reset, advanced once
	// per TickM call. It only counts; the timer, serial port and RTC keep
	// their own counters.
	Cycles *scheduler.Scheduler

	wram     [8][0x1000]uint8
	wramBank uint8 // SVBK (0xFF70); always effectively 1 on DMG
	hram     [0x7F]uint8

	// apuShell stores whatever was last written to the NR10-NR52/wave-RAM
	// range. Audio synthesis is out of scope; this only keeps the bus from
	// behaving as unmapped hardware games can probe for.
	apuShell [0x30]uint8

	bootROM     *boot.ROM
	bootEnabled bool

	isCGB       bool
	key1        uint8 // KEY1 (0xFF4D): bit 0 armed, bit 7 current speed
	doubleSpeed bool
	speedToggle bool // flips every TickM call; gates the half-rate components in double speed
	dmaReading  bool // true while a DMA engine reads through PPU.ReadBus; exempts it from the OAM-DMA lockout
}

// New constructs a Bus from already-constructed components. bootROM may
// be nil, in which case the cartridge is mapped from address 0 immediately.
func New(cart cartridge.Cartridge, p *ppu.PPU, t *timer.Controller, j *joypad.State, s *serial.Controller, irq *interrupts.Controller, isCGB bool, bootROM *boot.ROM) *Bus {
	b := &Bus{
		Cart:        cart,
		PPU:         p,
		Timer:       t,
		Joypad:      j,
		Serial:      s,
		IRQ:         irq,
		Cycles:      scheduler.New(),
		wramBank:    1,
		isCGB:       isCGB,
		bootROM:     bootROM,
		bootEnabled: bootROM != nil,
	}
	p.ReadBus = func(addr uint16) uint8 {
		b.dmaReading = true
		v := b.Read(addr)
		b.dmaReading = false
		return v
	}
	return b
}

// SpeedSwitchArmed reports whether KEY1 bit 0 is set, meaning the next
// STOP instruction performs a CGB double-speed switch instead of halting.
func (b *Bus) SpeedSwitchArmed() bool { return b.key1&0x01 != 0 }

// IsDoubleSpeed reports the CPU's current clock multiplier, consulted by
// callers that must scale their own tick rate: PPU, DIV and APU scale
// 0.5x; DMA block costs and serial bit rate do not.
func (b *Bus) IsDoubleSpeed() bool { return b.doubleSpeed }

// TickM advances every bus-resident component by one M-cycle. Called once
// per M-cycle the CPU spends on a memory access or internal delay. In CGB
// double-speed mode the timer/DIV and PPU only actually advance every
// other call, since they scale 0.5x relative to the CPU's own M-cycle
// rate; DMA block costs and the serial shift rate are left unscaled.
func (b *Bus) TickM() {
	b.Cycles.Tick()
	b.Serial.Tick()
	b.Cart.Tick()

	b.speedToggle = !b.speedToggle
	if !b.doubleSpeed || b.speedToggle {
		b.Timer.Tick()
		b.PPU.Tick()
	} else if b.PPU.DMA.Active() {
		// OAM DMA runs at the CPU's rate, so it also advances on the calls
		// that skip the PPU.
		b.PPU.DMA.Tick(b.PPU.ReadBus)
	}
}

// PerformSpeedSwitch toggles the CPU's clock multiplier when STOP is
// executed with KEY1 bit 0 set. It also resets the DIV chain the same
// way a DIV write does, matching real hardware's behavior during the
// switch.
func (b *Bus) PerformSpeedSwitch() {
	if b.key1&0x01 == 0 {
		return
	}
	b.doubleSpeed = !b.doubleSpeed
	b.key1 &^= 0x01
	b.Timer.Write(types.DIV, 0) // DIV reset, same falling-edge glitch path as a real write
}

// chargeHDMAWrite forwards an FF51-FF55 write to the PPU's HDMA engine and,
// if it just ran a general-purpose transfer synchronously, ticks the bus
// the matching number of extra M-cycles: 8 per 16-byte block in single
// speed, doubled in CGB double speed, so the CPU stalls for the real
// transfer cost instead of the DMA completing for free.
func (b *Bus) chargeHDMAWrite(addr uint16, value uint8) {
	blocks := b.PPU.Write(addr, value)
	if blocks <= 0 {
		return
	}
	cyclesPerBlock := 8
	if b.doubleSpeed {
		cyclesPerBlock = 16
	}
	for i := 0; i < blocks*cyclesPerBlock; i++ {
		b.TickM()
	}
}

func (b *Bus) oamDMALocked(addr uint16) bool {
	return !b.dmaReading && b.PPU.OAMDMAActive() && !(addr >= 0xFF80 && addr <= 0xFFFE) && addr != types.IE
}

// Read dispatches a CPU (or DMA-engine) read across the full address space.
func (b *Bus) Read(addr uint16) uint8 {
	if b.oamDMALocked(addr) {
		return 0xFF
	}
	switch {
	case addr <= 0x7FFF:
		if b.bootEnabled && b.inBootWindow(addr) {
			return b.bootROM.Read(addr)
		}
		return b.Cart.ReadROM(addr)
	case addr >= 0x8000 && addr <= 0x9FFF:
		return b.PPU.Read(addr)
	case addr >= 0xA000 && addr <= 0xBFFF:
		return b.Cart.ReadRAM(addr)
	case addr >= 0xC000 && addr <= 0xCFFF:
		return b.wram[0][addr-0xC000]
	case addr >= 0xD000 && addr <= 0xDFFF:
		return b.wram[b.wramBank][addr-0xD000]
	case addr >= 0xE000 && addr <= 0xEFFF:
		return b.wram[0][addr-0xE000]
	case addr >= 0xF000 && addr <= 0xFDFF:
		return b.wram[b.wramBank][addr-0xF000]
	case addr >= 0xFE00 && addr <= 0xFE9F:
		return b.PPU.Read(addr)
	case addr >= 0xFEA0 && addr <= 0xFEFF:
		return 0xFF // prohibited region; real hardware's exact glitch pattern isn't modeled
	case addr == types.P1:
		return b.Joypad.Read()
	case addr == types.SB || addr == types.SC:
		return b.Serial.Read(addr)
	case addr >= types.DIV && addr <= types.TAC:
		return b.Timer.Read(addr)
	case addr == types.IF:
		return b.IRQ.Read(addr)
	case addr >= types.NR10 && addr < types.NR10+uint16(len(b.apuShell)):
		return b.apuShell[addr-types.NR10]
	case addr >= types.LCDC && addr <= types.LYC, addr >= types.BGP && addr <= types.WX:
		return b.PPU.Read(addr)
	case addr == types.DMA:
		return 0xFF // DMA start register is write-only
	case addr == types.KEY1:
		if b.isCGB {
			speed := uint8(0)
			if b.doubleSpeed {
				speed = 0x80
			}
			return speed | b.key1&0x01 | 0x7E
		}
		return 0xFF
	case addr == types.VBK:
		return b.PPU.Read(addr)
	case addr == types.BDIS:
		return 0xFF
	case addr >= types.HDMA1 && addr <= types.HDMA5:
		return b.PPU.Read(addr)
	case addr == types.SVBK:
		if b.isCGB {
			return b.wramBank | 0xF8
		}
		return 0xFF
	case addr >= types.BCPS && addr <= types.OPRI:
		return b.PPU.Read(addr)
	case addr >= 0xFF80 && addr <= 0xFFFE:
		return b.hram[addr-0xFF80]
	case addr == types.IE:
		return b.IRQ.Read(addr)
	}
	return 0xFF
}

// Write dispatches a CPU (or DMA-engine) write across the full address
// space.
func (b *Bus) Write(addr uint16, value uint8) {
	if b.oamDMALocked(addr) {
		return
	}
	switch {
	case addr <= 0x7FFF:
		b.Cart.WriteROM(addr, value)
	case addr >= 0x8000 && addr <= 0x9FFF:
		b.PPU.Write(addr, value)
	case addr >= 0xA000 && addr <= 0xBFFF:
		b.Cart.WriteRAM(addr, value)
	case addr >= 0xC000 && addr <= 0xCFFF:
		b.wram[0][addr-0xC000] = value
	case addr >= 0xD000 && addr <= 0xDFFF:
		b.wram[b.wramBank][addr-0xD000] = value
	case addr >= 0xE000 && addr <= 0xEFFF:
		b.wram[0][addr-0xE000] = value
	case addr >= 0xF000 && addr <= 0xFDFF:
		b.wram[b.wramBank][addr-0xF000] = value
	case addr >= 0xFE00 && addr <= 0xFE9F:
		b.PPU.Write(addr, value)
	case addr >= 0xFEA0 && addr <= 0xFEFF:
		// writes to the prohibited region are dropped
	case addr == types.P1:
		b.Joypad.Write(value)
	case addr == types.SB || addr == types.SC:
		b.Serial.Write(addr, value)
	case addr >= types.DIV && addr <= types.TAC:
		b.Timer.Write(addr, value)
	case addr == types.IF:
		b.IRQ.Write(addr, value)
	case addr >= types.NR10 && addr < types.NR10+uint16(len(b.apuShell)):
		b.apuShell[addr-types.NR10] = value
	case addr >= types.LCDC && addr <= types.LYC, addr >= types.BGP && addr <= types.WX:
		b.PPU.Write(addr, value)
	case addr == types.DMA:
		b.PPU.Write(addr, value)
	case addr == types.KEY1:
		if b.isCGB {
			b.key1 = (b.key1 & 0x80) | (value & 0x01)
		}
	case addr == types.VBK:
		b.PPU.Write(addr, value)
	case addr == types.BDIS:
		if value&0x01 != 0 {
			b.bootEnabled = false
		}
	case addr >= types.HDMA1 && addr <= types.HDMA5:
		b.chargeHDMAWrite(addr, value)
	case addr == types.SVBK:
		if b.isCGB {
			v := value & 0x07
			if v == 0 {
				v = 1
			}
			b.wramBank = v
		}
	case addr >= types.BCPS && addr <= types.OPRI:
		b.PPU.Write(addr, value)
	case addr >= 0xFF80 && addr <= 0xFFFE:
		b.hram[addr-0xFF80] = value
	case addr == types.IE:
		b.IRQ.Write(addr, value)
	}
}

// inBootWindow reports whether addr currently falls under the boot ROM
// overlay: 0x0000-0x00FF always, plus 0x0200-0x08FF for the larger CGB
// image (which leaves 0x0100-0x01FF unmapped so the cartridge header can
// be read mid-boot).
func (b *Bus) inBootWindow(addr uint16) bool {
	if addr < 0x100 {
		return true
	}
	return b.bootROM.IsCGBStyle() && addr >= 0x200 && addr < 0x900
}
