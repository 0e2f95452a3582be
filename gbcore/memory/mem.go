package memory

import (
	"github.com/dmgcore/emu/gbcore/addr"
	"github.com/dmgcore/emu/gbcore/bit"
	"github.com/dmgcore/emu/gbcore/video"
)

type memRegion uint8

const (
	regionROM memRegion = iota
	regionVRAM
	regionExtRAM
	regionWRAM
	regionEcho
	regionOAM
	regionIO
)

const (
	romSize    = 0x8000
	extRAMSize = 0x2000
	wramSize   = 0x2000
	hramSize   = 0x7F
	ioSize     = 0x80

	oamDMALength = 0xA0

	// The timer is not emulated; DIV reads a fixed non-zero value.
	divPlaceholder = 0x01
)

// MMU is the address-decoded bus over the cartridge ROM, RAM regions
// and memory-mapped I/O. It owns the GPU: video memory and LCD register
// accesses are forwarded to it.
type MMU struct {
	cart *Cartridge
	gpu  *video.GPU

	// The ROM image is plain storage: with no MBC, writes land in it
	// directly and bank-switch sequences have no other effect.
	rom    []byte
	extRAM [extRAMSize]byte
	wram   [wramSize]byte
	hram   [hramSize]byte
	io     [ioSize]byte

	interruptEnable uint8
	interruptFlags  uint8

	regionMap [256]memRegion
}

// New creates a memory unit with no cartridge loaded, equivalent to
// powering on without one inserted.
func New() *MMU {
	mmu := &MMU{
		rom:  make([]byte, romSize),
		cart: NewCartridge(),
		gpu:  video.New(),
	}
	initRegionMap(mmu)
	return mmu
}

// NewWithCartridge creates a memory unit with the cartridge image
// copied in starting at address 0.
func NewWithCartridge(cart *Cartridge) *MMU {
	mmu := New()
	mmu.cart = cart
	copy(mmu.rom, cart.data)
	return mmu
}

func initRegionMap(m *MMU) {
	// ROM: 0x0000-0x7FFF
	for i := 0x00; i <= 0x7F; i++ {
		m.regionMap[i] = regionROM
	}
	// VRAM: 0x8000-0x9FFF
	for i := 0x80; i <= 0x9F; i++ {
		m.regionMap[i] = regionVRAM
	}
	// External RAM: 0xA000-0xBFFF
	for i := 0xA0; i <= 0xBF; i++ {
		m.regionMap[i] = regionExtRAM
	}
	// Work RAM: 0xC000-0xDFFF
	for i := 0xC0; i <= 0xDF; i++ {
		m.regionMap[i] = regionWRAM
	}
	// Echo RAM: 0xE000-0xFDFF
	for i := 0xE0; i <= 0xFD; i++ {
		m.regionMap[i] = regionEcho
	}
	// OAM and the unusable area: 0xFE00-0xFEFF
	m.regionMap[0xFE] = regionOAM
	// IO + HRAM + IE: 0xFF00-0xFFFF
	m.regionMap[0xFF] = regionIO
}

// GPU returns the bus-owned graphics unit.
func (m *MMU) GPU() *video.GPU {
	return m.gpu
}

// Tick forwards elapsed CPU cycles to the GPU and raises the VBLANK
// interrupt flag when a frame completes.
func (m *MMU) Tick(cycles int) {
	if m.gpu.Tick(cycles) {
		m.RequestInterrupt(addr.VBlankInterrupt)
	}
}

// RequestInterrupt sets the chosen interrupt's bit in the IF register.
func (m *MMU) RequestInterrupt(interrupt addr.Interrupt) {
	m.interruptFlags |= uint8(interrupt)
}

func (m *MMU) ReadBit(index uint8, address uint16) bool {
	return bit.IsSet(index, m.Read(address))
}

func (m *MMU) Read(address uint16) byte {
	switch m.regionMap[address>>8] {
	case regionROM:
		return m.rom[address]
	case regionVRAM:
		return m.gpu.ReadVRAM(address)
	case regionExtRAM:
		return m.extRAM[address-0xA000]
	case regionWRAM:
		return m.wram[address-0xC000]
	case regionEcho:
		return m.wram[address-0xE000]
	case regionOAM:
		if address <= addr.OAMEnd {
			return m.gpu.ReadOAM(address)
		}
		// Unusable area 0xFEA0-0xFEFF
		return 0
	case regionIO:
		return m.readIO(address)
	}
	return 0
}

func (m *MMU) readIO(address uint16) byte {
	switch address {
	case addr.P1:
		// No joypad is wired up; nothing is ever pressed.
		return 0
	case addr.DIV:
		return divPlaceholder
	case addr.IF:
		return m.interruptFlags
	case addr.IE:
		return m.interruptEnable
	case addr.LCDC, addr.SCY, addr.SCX, addr.LY, addr.BGP, addr.OBP0, addr.OBP1, addr.WY, addr.WX:
		return m.gpu.ReadRegister(address)
	}

	if address >= 0xFF80 && address <= 0xFFFE {
		return m.hram[address-0xFF80]
	}
	if address <= 0xFF7F {
		return m.io[address-0xFF00]
	}
	return 0
}

func (m *MMU) Write(address uint16, value byte) {
	switch m.regionMap[address>>8] {
	case regionROM:
		m.rom[address] = value
	case regionVRAM:
		m.gpu.WriteVRAM(address, value)
	case regionExtRAM:
		m.extRAM[address-0xA000] = value
	case regionWRAM:
		m.wram[address-0xC000] = value
	case regionEcho:
		m.wram[address-0xE000] = value
	case regionOAM:
		if address <= addr.OAMEnd {
			m.gpu.WriteOAM(address, value)
		}
		// Writes to 0xFEA0-0xFEFF are dropped.
	case regionIO:
		m.writeIO(address, value)
	}
}

func (m *MMU) writeIO(address uint16, value byte) {
	switch address {
	case addr.IF:
		m.interruptFlags = value
	case addr.IE:
		m.interruptEnable = value
	case addr.DMA:
		m.oamDMA(value)
		m.io[address-0xFF00] = value
	case addr.LCDC, addr.SCY, addr.SCX, addr.LY, addr.BGP, addr.OBP0, addr.OBP1, addr.WY, addr.WX:
		m.gpu.WriteRegister(address, value)
	default:
		if address >= 0xFF80 && address <= 0xFFFE {
			m.hram[address-0xFF80] = value
		} else if address <= 0xFF7F {
			m.io[address-0xFF00] = value
		}
	}
}

// oamDMA copies 160 bytes from value<<8 into OAM. The hardware transfer
// takes 160 us; here it completes atomically. Source bytes go through
// the normal read path, so a source in ROM or echo RAM behaves.
func (m *MMU) oamDMA(value byte) {
	source := uint16(value) << 8
	for i := uint16(0); i < oamDMALength; i++ {
		m.gpu.WriteOAM(addr.OAMStart+i, m.Read(source+i))
	}
}

// ReadWord reads a little-endian 16 bit value at the given address.
func (m *MMU) ReadWord(address uint16) uint16 {
	return bit.Combine(m.Read(address+1), m.Read(address))
}

// WriteWord writes a little-endian 16 bit value at the given address.
func (m *MMU) WriteWord(address uint16, value uint16) {
	m.Write(address, bit.Low(value))
	m.Write(address+1, bit.High(value))
}
