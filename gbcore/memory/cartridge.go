package memory

import (
	"fmt"
	"log/slog"
)

const (
	titleAddress         = 0x134
	titleLength          = 16
	cartridgeTypeAddress = 0x147
	romSizeAddress       = 0x148
	ramSizeAddress       = 0x149

	// headerEnd is the first byte past the region a ROM must at least
	// contain for its header to be inspectable.
	headerEnd = 0x180
)

// Cartridge type codes from the header byte at 0x147 that this core can
// run natively: plain 32 KiB ROMs, optionally with inert RAM.
const (
	cartROMOnly   = 0x00
	cartROMRAM    = 0x08
	cartROMRAMBat = 0x09
)

// ErrROMTooSmall is returned when a ROM image is shorter than its own
// header region.
var ErrROMTooSmall = fmt.Errorf("ROM image smaller than %d bytes", headerEnd)

// Cartridge holds a ROM image and its parsed header.
type Cartridge struct {
	data     []byte
	title    string
	cartType uint8
	romSize  uint8
	ramSize  uint8
}

// NewCartridge creates an empty cartridge, equivalent to powering on
// with nothing inserted.
func NewCartridge() *Cartridge {
	return &Cartridge{
		data: make([]byte, romSize),
	}
}

// NewCartridgeWithData initializes a Cartridge from a ROM image,
// parsing the header. Images too small to carry a header are rejected.
// Cartridge types that need a memory bank controller load anyway, with
// a warning: banks beyond 32 KiB are simply not addressable.
func NewCartridgeWithData(bytes []byte) (*Cartridge, error) {
	if len(bytes) < headerEnd {
		return nil, ErrROMTooSmall
	}

	cart := &Cartridge{
		data:     make([]byte, len(bytes)),
		title:    parseTitle(bytes[titleAddress : titleAddress+titleLength]),
		cartType: bytes[cartridgeTypeAddress],
		romSize:  bytes[romSizeAddress],
		ramSize:  bytes[ramSizeAddress],
	}
	copy(cart.data, bytes)

	if !cart.IsROMOnly() {
		slog.Warn("cartridge type needs a bank controller, running without one",
			"title", cart.title,
			"type", fmt.Sprintf("0x%02X", cart.cartType),
			"rom_size", cart.romSize,
			"ram_size", cart.ramSize)
	}

	return cart, nil
}

// Title returns the game title from the header.
func (c *Cartridge) Title() string {
	return c.title
}

// Type returns the raw cartridge type byte from the header.
func (c *Cartridge) Type() uint8 {
	return c.cartType
}

// IsROMOnly reports whether the cartridge needs no bank controller.
func (c *Cartridge) IsROMOnly() bool {
	switch c.cartType {
	case cartROMOnly, cartROMRAM, cartROMRAMBat:
		return true
	}
	return false
}
