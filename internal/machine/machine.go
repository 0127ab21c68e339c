// Package machine wires the CPU, bus, cartridge, and every MMIO-mapped
// subsystem into the root aggregate a host drives frame by frame. It owns
// construction order (each subsystem needs the interrupt controller
// before the bus exists, the bus needs every subsystem before the CPU
// exists) and exposes the few operations a frontend actually needs:
// load a ROM, reset, step to the next frame, and push button events.
package machine

import (
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/retrosilicon/gomeboy/internal/boot"
	"github.com/retrosilicon/gomeboy/internal/cartridge"
	"github.com/retrosilicon/gomeboy/internal/cpu"
	"github.com/retrosilicon/gomeboy/internal/interrupts"
	"github.com/retrosilicon/gomeboy/internal/joypad"
	"github.com/retrosilicon/gomeboy/internal/mmu"
	"github.com/retrosilicon/gomeboy/internal/ppu"
	"github.com/retrosilicon/gomeboy/internal/serial"
	"github.com/retrosilicon/gomeboy/internal/timer"
)

// Model selects which hardware personality to boot as. ModelAutomatic
// defers to the cartridge header's CGB-support flag.
type Model uint8

const (
	ModelAutomatic Model = iota
	ModelDMG
	ModelCGB
)

// ErrNoROMLoaded is returned by Reset when no ROM has ever been loaded.
var ErrNoROMLoaded = errors.New("machine: no rom loaded")

// Machine is the root aggregate: it owns every emulated subsystem and
// steps them coherently one M-cycle at a time via the CPU.
type Machine struct {
	CPU    *cpu.CPU
	Bus    *mmu.Bus
	Cart   cartridge.Cartridge
	PPU    *ppu.PPU
	Timer  *timer.Controller
	Joypad *joypad.State
	Serial *serial.Controller
	IRQ    *interrupts.Controller

	bootROM      *boot.ROM
	model        Model
	log          *logrus.Logger
	romCopy      []byte
	isCGB        bool
	rtcWallClock bool
	pixelFormat  PixelFormat
}

// PixelFormat selects the byte layout FrameBytes packs a frame into. The
// framebuffer itself is always plain RGB internally; this only controls
// how it's repacked for a host expecting a specific texture-upload layout.
type PixelFormat uint8

const (
	PixelFormatRGBA PixelFormat = iota
	PixelFormatARGB
	PixelFormatBGRA
)

// Option configures a Machine at construction time.
type Option func(*Machine)

// WithBootROM supplies a boot ROM image (256 bytes for DMG, 2304 for
// CGB). An image of any other length is logged as a warning and ignored;
// the machine then starts without a boot ROM.
func WithBootROM(rom []byte) Option {
	return func(m *Machine) {
		br, err := boot.Load(rom)
		if err != nil {
			m.log.WithError(err).Warn("ignoring invalid boot rom")
			return
		}
		m.bootROM = br
	}
}

// WithModel forces DMG or CGB hardware behavior instead of deferring to
// the cartridge header.
func WithModel(model Model) Option {
	return func(m *Machine) { m.model = model }
}

// WithLogger overrides the default logger used for structured
// diagnostic output (ROM load, cartridge errors, ignored options).
func WithLogger(log *logrus.Logger) Option {
	return func(m *Machine) { m.log = log }
}

// WithRTCWallClock switches an MBC3 cartridge's real-time clock from the
// default deterministic, cycle-driven source to host wall-clock time,
// anchored at the moment the ROM is loaded. Has no effect on cartridges
// without an RTC.
func WithRTCWallClock() Option {
	return func(m *Machine) { m.rtcWallClock = true }
}

// WithPixelFormat selects the channel order FrameBytes uses to pack a
// frame. Defaults to PixelFormatRGBA.
func WithPixelFormat(f PixelFormat) Option {
	return func(m *Machine) { m.pixelFormat = f }
}

// New constructs a Machine and loads rom into it. The returned error is
// whatever LoadROM produces for the initial image.
func New(rom []byte, opts ...Option) (*Machine, error) {
	m := &Machine{log: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(m)
	}
	if err := m.LoadROM(rom); err != nil {
		return nil, err
	}
	return m, nil
}

// LoadROM parses rom, rebuilds every subsystem around it, and puts the
// CPU in its power-on state. On a parse error (ErrInvalidRom or
// ErrUnsupportedMbc) the Machine's existing state is left untouched.
func (m *Machine) LoadROM(rom []byte) error {
	cart, header, err := cartridge.New(rom)
	if err != nil {
		m.log.WithError(err).Error("rom load failed")
		return err
	}
	if !header.ChecksumOK {
		m.log.WithField("title", header.Title).Warn("cartridge header checksum mismatch")
	}

	isCGB := m.resolveModel(header)

	if m.rtcWallClock {
		if rc, ok := cart.(interface{ SetWallClock(time.Time) }); ok {
			rc.SetWallClock(time.Now())
		}
	}

	irq := interrupts.NewController()
	pad := joypad.New(irq)
	ser := serial.New(irq)
	tmr := timer.New(irq)
	video := ppu.New(irq, isCGB)
	bus := mmu.New(cart, video, tmr, pad, ser, irq, isCGB, m.bootROM)
	core := cpu.New(bus, irq)
	core.Reset(isCGB, m.bootROM != nil)

	m.Cart = cart
	m.IRQ = irq
	m.Joypad = pad
	m.Serial = ser
	m.Timer = tmr
	m.PPU = video
	m.Bus = bus
	m.CPU = core
	m.isCGB = isCGB

	m.romCopy = make([]byte, len(rom))
	copy(m.romCopy, rom)

	m.log.WithFields(logrus.Fields{
		"title": header.Title,
		"mbc":   header.MBC,
		"cgb":   isCGB,
	}).Info("rom loaded")
	return nil
}

// Reset reloads the most recently loaded ROM image, returning every
// subsystem to its power-on state. Returns ErrNoROMLoaded if LoadROM has
// never succeeded.
func (m *Machine) Reset() error {
	if m.romCopy == nil {
		return ErrNoROMLoaded
	}
	return m.LoadROM(m.romCopy)
}

func (m *Machine) resolveModel(header *cartridge.Header) bool {
	switch m.model {
	case ModelDMG:
		return false
	case ModelCGB:
		return true
	default:
		return header.CGBSupported()
	}
}

// RunUntilVBlank steps the CPU until the PPU has produced a complete
// frame, then returns it. The frame is also available afterward via
// m.PPU.FrameBuffer until the next call overwrites it.
//
// A STOP with no joypad edge ever arriving freezes every clock in the
// machine, so once the CPU reports Stopped this returns immediately with
// whatever frame was already in the buffer rather than spinning forever;
// a subsequent Press unblocks it on the next call.
func (m *Machine) RunUntilVBlank() [ppu.ScreenHeight][ppu.ScreenWidth][3]uint8 {
	for !m.PPU.VBlankEntered {
		m.CPU.Step()
		if m.CPU.Frozen || m.CPU.Stopped() {
			break
		}
	}
	m.PPU.ClearVBlank()
	return m.PPU.FrameBuffer
}

// Press registers a button as held.
func (m *Machine) Press(b joypad.Button) { m.Joypad.Press(b) }

// Release registers a button as no longer held.
func (m *Machine) Release(b joypad.Button) { m.Joypad.Release(b) }

// BatteryRAM returns the cartridge's persistent RAM contents, or nil if
// it has no battery.
func (m *Machine) BatteryRAM() []byte { return m.Cart.BatteryRAM() }

// LoadBatteryRAM restores previously saved battery RAM into the current
// cartridge. Returns cartridge.ErrBatteryRamSize on a length mismatch.
func (m *Machine) LoadBatteryRAM(data []byte) error { return m.Cart.LoadBatteryRAM(data) }

// IsCGB reports whether the currently loaded cartridge is running in
// CGB mode.
func (m *Machine) IsCGB() bool { return m.isCGB }

// CycleCount returns the number of M-cycles consumed since the last
// LoadROM or Reset.
func (m *Machine) CycleCount() uint64 { return m.Bus.Cycles.Cycle() }

// FrameBytes packs the current frame into the configured PixelFormat,
// four bytes per pixel with alpha fixed at 0xFF.
func (m *Machine) FrameBytes() []byte {
	buf := make([]byte, ppu.ScreenWidth*ppu.ScreenHeight*4)
	i := 0
	for y := 0; y < ppu.ScreenHeight; y++ {
		for x := 0; x < ppu.ScreenWidth; x++ {
			px := m.PPU.FrameBuffer[y][x]
			switch m.pixelFormat {
			case PixelFormatARGB:
				buf[i], buf[i+1], buf[i+2], buf[i+3] = 0xFF, px[0], px[1], px[2]
			case PixelFormatBGRA:
				buf[i], buf[i+1], buf[i+2], buf[i+3] = px[2], px[1], px[0], 0xFF
			default:
				buf[i], buf[i+1], buf[i+2], buf[i+3] = px[0], px[1], px[2], 0xFF
			}
			i += 4
		}
	}
	return buf
}
