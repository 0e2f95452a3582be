package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/dmgcore/emu/gbcore/addr"
)

func TestMMURAMRegions(t *testing.T) {
	testCases := []struct {
		desc string
		addr uint16
	}{
		{desc: "work RAM start", addr: 0xC000},
		{desc: "work RAM end", addr: 0xDFFF},
		{desc: "external RAM", addr: 0xA123},
		{desc: "high RAM start", addr: 0xFF80},
		{desc: "high RAM end", addr: 0xFFFE},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			mmu := New()
			mmu.Write(tC.addr, 0x5A)
			assert.Equal(t, byte(0x5A), mmu.Read(tC.addr))
		})
	}
}

func TestMMUEchoRAM(t *testing.T) {
	mmu := New()

	mmu.Write(0xC123, 0xAB)
	assert.Equal(t, byte(0xAB), mmu.Read(0xE123))

	mmu.Write(0xE456, 0xCD)
	assert.Equal(t, byte(0xCD), mmu.Read(0xC456))
}

func TestMMUUnusableRegion(t *testing.T) {
	mmu := New()

	mmu.Write(0xFEA0, 0xFF)
	mmu.Write(0xFEFF, 0xFF)

	assert.Equal(t, byte(0), mmu.Read(0xFEA0))
	assert.Equal(t, byte(0), mmu.Read(0xFEFF))
}

func TestMMUROMWritesLandInImage(t *testing.T) {
	mmu := New()

	// With no bank controller, ROM-area writes hit the image directly.
	mmu.Write(0x0100, 0x3E)
	mmu.Write(0x7FFF, 0x42)

	assert.Equal(t, byte(0x3E), mmu.Read(0x0100))
	assert.Equal(t, byte(0x42), mmu.Read(0x7FFF))
}

func TestMMUForwardsVRAMToGPU(t *testing.T) {
	mmu := New()

	mmu.Write(0x8000, 0x3C)
	mmu.Write(0x8001, 0x42)

	assert.Equal(t, byte(0x3C), mmu.Read(0x8000))
	assert.Equal(t, byte(0x42), mmu.GPU().ReadVRAM(0x8001))
}

func TestMMUForwardsOAMToGPU(t *testing.T) {
	mmu := New()

	mmu.Write(0xFE00, 0x10)
	mmu.Write(0xFE9F, 0x20)

	assert.Equal(t, byte(0x10), mmu.GPU().ReadOAM(0xFE00))
	assert.Equal(t, byte(0x20), mmu.Read(0xFE9F))
}

func TestMMUOAMDMA(t *testing.T) {
	mmu := New()

	for i := uint16(0); i < 0xA0; i++ {
		mmu.Write(0xC000+i, byte(i))
	}

	mmu.Write(addr.DMA, 0xC0)

	for i := uint16(0); i < 0xA0; i++ {
		assert.Equalf(t, byte(i), mmu.Read(0xFE00+i), "OAM byte %d", i)
	}
	// The DMA register itself reads back the last written value.
	assert.Equal(t, byte(0xC0), mmu.Read(addr.DMA))
}

func TestMMULCDRegistersForwarded(t *testing.T) {
	mmu := New()

	mmu.Write(addr.LCDC, 0x91)
	assert.Equal(t, byte(0x91), mmu.Read(addr.LCDC))

	mmu.Write(addr.SCY, 0x12)
	mmu.Write(addr.SCX, 0x34)
	assert.Equal(t, byte(0x12), mmu.Read(addr.SCY))
	assert.Equal(t, byte(0x34), mmu.Read(addr.SCX))

	mmu.Write(addr.BGP, 0x1B)
	assert.Equal(t, byte(0x1B), mmu.Read(addr.BGP))

	// LY is read-only through the bus.
	mmu.Write(addr.LY, 0x45)
	assert.Equal(t, byte(0), mmu.Read(addr.LY))
}

func TestMMUInterruptRegisters(t *testing.T) {
	mmu := New()

	mmu.Write(addr.IF, 0x15)
	mmu.Write(addr.IE, 0x0A)

	assert.Equal(t, byte(0x15), mmu.Read(addr.IF))
	assert.Equal(t, byte(0x0A), mmu.Read(addr.IE))

	mmu.RequestInterrupt(addr.VBlankInterrupt)
	assert.Equal(t, byte(0x15), mmu.Read(addr.IF))

	mmu.Write(addr.IF, 0)
	mmu.RequestInterrupt(addr.TimerInterrupt)
	assert.Equal(t, byte(0x04), mmu.Read(addr.IF))
}

func TestMMUTickRaisesVBlank(t *testing.T) {
	mmu := New()

	fullFrame := 70224
	for c := 0; c < fullFrame; c += 4 {
		mmu.Tick(4)
	}

	assert.Equal(t, byte(0x01), mmu.Read(addr.IF)&0x01)
}

func TestMMUFixedIOReads(t *testing.T) {
	mmu := New()

	// No joypad wired up.
	assert.Equal(t, byte(0), mmu.Read(addr.P1))

	// The timer is out of scope; DIV reads a fixed non-zero value.
	assert.NotEqual(t, byte(0), mmu.Read(addr.DIV))
}

func TestMMUWordAccess(t *testing.T) {
	mmu := New()

	mmu.WriteWord(0xC000, 0xABCD)

	assert.Equal(t, byte(0xCD), mmu.Read(0xC000))
	assert.Equal(t, byte(0xAB), mmu.Read(0xC001))
	assert.Equal(t, uint16(0xABCD), mmu.ReadWord(0xC000))
}

func TestNewWithCartridgeCopiesROM(t *testing.T) {
	image := make([]byte, 0x8000)
	image[0x100] = 0x3E
	image[0x147] = cartROMOnly
	copy(image[0x134:], "TESTROM")

	cart, err := NewCartridgeWithData(image)
	assert.NoError(t, err)

	mmu := NewWithCartridge(cart)
	assert.Equal(t, byte(0x3E), mmu.Read(0x0100))
	assert.Equal(t, "TESTROM", cart.Title())
}
