package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retrosilicon/gomeboy/internal/cartridge"
	"github.com/retrosilicon/gomeboy/internal/interrupts"
	"github.com/retrosilicon/gomeboy/internal/joypad"
	"github.com/retrosilicon/gomeboy/internal/mmu"
	"github.com/retrosilicon/gomeboy/internal/ppu"
	"github.com/retrosilicon/gomeboy/internal/serial"
	"github.com/retrosilicon/gomeboy/internal/timer"
)

// buildTestROM constructs a minimal valid plain-ROM cartridge image so
// cartridge.New can build a real Cartridge for the bus.
func buildTestROM() []byte {
	rom := make([]byte, 0x8000)
	copy(rom[0x134:0x144], "TEST")
	rom[0x147] = 0x00 // MBCNone
	var sum uint8
	for addr := 0x134; addr <= 0x14C; addr++ {
		sum = sum - rom[addr] - 1
	}
	rom[0x14D] = sum
	return rom
}

// newTestCPU builds a complete machine-less CPU harness: a real Bus wired
// to a plain-ROM cartridge and fresh peripheral instances, with program
// bytes placed starting at 0x0100 (the post-boot entry point).
func newTestCPU(t *testing.T, program []uint8) *CPU {
	t.Helper()
	rom := buildTestROM()
	copy(rom[0x0100:], program)
	cart, _, err := cartridge.New(rom)
	require.NoError(t, err)

	irq := interrupts.NewController()
	p := ppu.New(irq, false)
	tm := timer.New(irq)
	jp := joypad.New(irq)
	sr := serial.New(irq)
	bus := mmu.New(cart, p, tm, jp, sr, irq, false, nil)

	c := New(bus, irq)
	c.Reset(false, false)
	return c
}

func TestResetDMGPowerOnState(t *testing.T) {
	c := newTestCPU(t, nil)
	assert.Equal(t, uint8(0x01), c.A)
	assert.Equal(t, uint8(0xB0), c.F)
	assert.Equal(t, uint16(0xFFFE), c.SP)
	assert.Equal(t, uint16(0x0100), c.PC)
}

func TestResetCGBPowerOnState(t *testing.T) {
	c := newTestCPU(t, nil)
	c.Reset(true, false)
	assert.Equal(t, uint8(0x11), c.A)
}

func TestResetWithBootROMZeroesRegisters(t *testing.T) {
	c := newTestCPU(t, nil)
	c.Reset(false, true)
	assert.Equal(t, uint8(0), c.A)
	assert.Equal(t, uint16(0), c.PC)
	assert.Equal(t, uint16(0), c.SP)
}

func TestNOPConsumesOneMCycle(t *testing.T) {
	c := newTestCPU(t, []uint8{0x00}) // NOP
	cycles := c.Step()
	assert.Equal(t, uint8(1), cycles)
	assert.Equal(t, uint16(0x0101), c.PC)
}

func TestLDRegisterImmediate(t *testing.T) {
	c := newTestCPU(t, []uint8{0x3E, 0x42}) // LD A, 0x42
	c.Step()
	assert.Equal(t, uint8(0x42), c.A)
}

func TestHaltBugRedecodesFollowingInstruction(t *testing.T) {
	// IME clear, an interrupt already pending: HALT doesn't actually halt,
	// PC fails to advance past the opcode that follows it once.
	c := newTestCPU(t, []uint8{0x76, 0x3C}) // HALT; INC A
	c.irq.Enable = 1 << interrupts.VBlank
	c.irq.Flag = 1 << interrupts.VBlank
	c.irq.IME = false

	c.Step() // HALT, triggers the bug
	assert.True(t, c.haltBug)
	assert.False(t, c.halted)

	startA := c.A
	c.Step() // INC A decoded once, PC doesn't advance past it
	assert.Equal(t, startA+1, c.A)
	c.Step() // INC A decoded a second time, from the same PC
	assert.Equal(t, startA+2, c.A)
}

func TestHaltSuspendsUntilInterruptPending(t *testing.T) {
	c := newTestCPU(t, []uint8{0x76}) // HALT
	c.irq.IME = true
	c.Step()
	assert.True(t, c.halted)

	c.Step()
	assert.True(t, c.halted, "no pending interrupt yet, stays halted")

	c.irq.Enable = 1 << interrupts.Timer
	c.irq.Flag = 1 << interrupts.Timer
	c.Step()
	assert.False(t, c.halted)
}

func TestStopFreezesUntilJoypadEdge(t *testing.T) {
	c := newTestCPU(t, []uint8{0x10, 0x00}) // STOP, operand 0x00
	c.Step()
	require.True(t, c.Stopped())

	before := c.bus.Cycles.Cycle()
	c.Step()
	c.Step()
	assert.Equal(t, before, c.bus.Cycles.Cycle(), "the bus does not tick at all while stopped")

	c.irq.Flag = 1 << interrupts.Joypad
	c.Step()
	assert.False(t, c.Stopped())
}

func TestIllegalOpcodeFreezesCPU(t *testing.T) {
	c := newTestCPU(t, []uint8{0xD3}) // undocumented, hangs real hardware
	c.Step()
	assert.True(t, c.Frozen)

	pc := c.PC
	c.Step()
	assert.Equal(t, pc, c.PC, "a frozen CPU never fetches again")
}

func TestEIDelaysEnableByOneInstruction(t *testing.T) {
	// EI; INC A; INC A, with a VBlank interrupt already pending. Real
	// hardware always runs the instruction immediately after EI to
	// completion before the first interrupt can be serviced.
	c := newTestCPU(t, []uint8{0xFB, 0x3C, 0x3C}) // EI; INC A; INC A
	c.irq.IME = false
	c.irq.Enable = 1 << interrupts.VBlank
	c.irq.Flag = 1 << interrupts.VBlank

	c.Step() // EI: schedules enable, must not dispatch this step
	assert.False(t, c.irq.IME, "IME does not flip within EI's own Step call")
	assert.Equal(t, uint16(0x0101), c.PC, "no interrupt dispatched, PC just advances past EI")

	startA := c.A
	c.Step() // the instruction right after EI runs to completion, then IME
	// having just become enabled lets the already-pending interrupt
	// preempt the second INC A rather than letting it execute.
	assert.Equal(t, startA+1, c.A, "INC A following EI executes before any dispatch")
	assert.Equal(t, uint16(0x0040), c.PC, "dispatch preempts the second INC A, not the one right after EI")
}

func TestInterruptDispatchPushesPCAndJumps(t *testing.T) {
	c := newTestCPU(t, []uint8{0x00}) // NOP
	c.irq.IME = true
	c.irq.Enable = 1 << interrupts.VBlank
	c.irq.Flag = 1 << interrupts.VBlank

	startSP := c.SP
	c.Step()
	assert.Equal(t, uint16(0x0040), c.PC, "dispatch jumps to the VBlank vector")
	assert.Equal(t, startSP-2, c.SP)
	assert.False(t, c.irq.IME, "dispatch clears IME")
}
