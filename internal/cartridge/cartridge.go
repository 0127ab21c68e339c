// Package cartridge decodes a ROM image's header and provides the bank
// switching behavior of the supported memory bank controllers
// (MBC1/2/3/5, plus plain ROM-only carts). Battery-backed RAM is exposed
// as an opaque byte blob for external persistence.
package cartridge

import (
	"errors"

	"github.com/cespare/xxhash"
)

// Error taxonomy. Wrapped with fmt.Errorf("%w: ...", ...) at
// the point of detection so callers can errors.Is against these sentinels
// while still getting a descriptive message.
var (
	ErrInvalidRom     = errors.New("cartridge: invalid rom")
	ErrUnsupportedMbc = errors.New("cartridge: unsupported mbc")
	ErrBatteryRamSize = errors.New("cartridge: saved battery ram does not match cartridge ram size")
)

// Cartridge is the tagged-variant interface every MBC implementation
// satisfies. The set of variants is closed: Go's nearest equivalent
// without sum types is a small sealed interface plus a switch in New,
// so no other package is expected to implement it.
type Cartridge interface {
	// ReadROM reads from the 0x0000-0x7FFF window.
	ReadROM(addr uint16) uint8
	// WriteROM handles a write landing in the 0x0000-0x7FFF window,
	// which on every supported controller is a bank-control write, never
	// an actual ROM mutation.
	WriteROM(addr uint16, value uint8)
	// ReadRAM reads from the 0xA000-0xBFFF external RAM window.
	ReadRAM(addr uint16) uint8
	// WriteRAM writes to the 0xA000-0xBFFF external RAM window.
	WriteRAM(addr uint16, value uint8)

	// Tick advances any cartridge-resident clock (MBC3's RTC) by one
	// M-cycle. A no-op on controllers without one.
	Tick()

	Header() *Header

	// BatteryRAM returns the persistent RAM contents, or nil if the
	// cartridge has no battery.
	BatteryRAM() []byte
	// LoadBatteryRAM restores previously-saved RAM. Returns
	// ErrBatteryRamSize (without modifying state) if data's length
	// doesn't match the cartridge's installed RAM size.
	LoadBatteryRAM(data []byte) error
}

// New parses the header and constructs the appropriate Cartridge
// implementation. The returned error is always one of ErrInvalidRom or
// ErrUnsupportedMbc; on error the caller's existing machine state must be
// left untouched.
func New(rom []byte) (Cartridge, *Header, error) {
	header, err := ParseHeader(rom)
	if err != nil {
		return nil, nil, err
	}

	romCopy := make([]byte, len(rom))
	copy(romCopy, rom)

	switch header.MBC {
	case MBCNone:
		return newNoMBC(romCopy, header), header, nil
	case MBC1:
		return newMBC1(romCopy, header), header, nil
	case MBC2:
		return newMBC2(romCopy, header), header, nil
	case MBC3:
		return newMBC3(romCopy, header), header, nil
	case MBC5:
		return newMBC5(romCopy, header), header, nil
	default:
		return nil, nil, ErrUnsupportedMbc
	}
}

// RAMFingerprint returns a fast, non-cryptographic fingerprint of a
// battery-RAM blob, letting a host cheaply detect that a save changed
// without diffing the whole buffer.
func RAMFingerprint(data []byte) uint64 {
	return xxhash.Sum64(data)
}
