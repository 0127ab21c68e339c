// Package boot models the optional boot ROM overlay: the small program
// mapped over the low addresses until the cartridge disables it by
// writing to the BDIS register (0xFF50). Actual boot ROM images are
// copyrighted Nintendo binaries; this package only knows how to host one
// supplied at runtime, never how to synthesize or embed one.
package boot

import (
	"fmt"

	"github.com/cespare/xxhash"
)

// ROM is a loaded boot ROM image: 256 bytes for DMG/MGB, or 2304 bytes
// for CGB (which reserves 0x100-0x1FF for the cartridge header read and
// resumes at 0x200).
type ROM struct {
	raw         []byte
	Fingerprint uint64
}

// Load validates and wraps a boot ROM image. It never looks the bytes up
// against a list of "known good" images; callers that care about exact
// model identification can compare Fingerprint themselves.
func Load(raw []byte) (*ROM, error) {
	if len(raw) != 256 && len(raw) != 2304 {
		return nil, fmt.Errorf("boot: invalid boot rom length %d (want 256 or 2304)", len(raw))
	}
	return &ROM{raw: raw, Fingerprint: xxhash.Sum64(raw)}, nil
}

// Read returns the byte at addr, which must already have been checked by
// the caller against the active overlay window.
func (r *ROM) Read(addr uint16) uint8 {
	return r.raw[addr]
}

// IsCGBStyle reports whether this is the larger CGB-style image.
func (r *ROM) IsCGBStyle() bool {
	return len(r.raw) == 2304
}
