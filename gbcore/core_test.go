package gbcore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/dmgcore/emu/gbcore/addr"
)

func TestBootRegisterState(t *testing.T) {
	emu := New()

	assert.Equal(t, uint16(0x01B0), emu.cpu.AF())
	assert.Equal(t, uint16(0x0013), emu.cpu.BC())
	assert.Equal(t, uint16(0x00D8), emu.cpu.DE())
	assert.Equal(t, uint16(0x014D), emu.cpu.HL())
	assert.Equal(t, uint16(0xFFFE), emu.cpu.SP())
	assert.Equal(t, uint16(0x0100), emu.cpu.PC())
}

// loadProgram places code at the entry point of an otherwise empty
// emulator.
func loadProgram(emu *Emulator, program []byte) {
	for i, b := range program {
		emu.mem.Write(0x0100+uint16(i), b)
	}
}

func TestTrivialProgram(t *testing.T) {
	emu := New()

	// LD A,0x2A; LD B,0x07; ADD A,B; HALT
	loadProgram(emu, []byte{0x3E, 0x2A, 0x06, 0x07, 0x80, 0x76})

	for i := 0; i < 4; i++ {
		emu.cpu.Tick()
	}

	// 0x2A + 0x07 = 0x31, carrying out of bit 3 only.
	assert.Equal(t, uint16(0x3120), emu.cpu.AF(), "A=0x31, only the half-carry flag set")
	assert.Equal(t, uint16(0x0713), emu.cpu.BC(), "B=0x07, C keeps its boot value 0x13")
}

func TestDAAAfterAdd(t *testing.T) {
	emu := New()

	// LD A,0x45; ADD A,0x38; DAA; HALT
	loadProgram(emu, []byte{0x3E, 0x45, 0xC6, 0x38, 0x27, 0x76})

	for i := 0; i < 3; i++ {
		emu.cpu.Tick()
	}

	// 0x45 + 0x38 = 0x7D; decimal adjusting 45+38 gives 83.
	assert.Equal(t, uint16(0x8300), emu.cpu.AF(), "A=0x83, Z and C clear")
}

func TestFrameProducesVBlank(t *testing.T) {
	emu := New()

	// An empty ROM executes NOPs; one frame of them must still raise
	// the VBLANK flag exactly once.
	err := emu.RunUntilFrame()
	require.NoError(t, err)

	assert.Equal(t, byte(0x01), emu.mem.Read(addr.IF)&0x01)
	assert.Equal(t, uint64(1), emu.FrameCount())
	assert.NotNil(t, emu.GetCurrentFrame())
}

func TestUndefinedOpcodeHaltsEmulation(t *testing.T) {
	emu := New()

	loadProgram(emu, []byte{0x00, 0xD3})

	err := emu.RunUntilFrame()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "0xD3")
	assert.Contains(t, err.Error(), "0x0101")
}

func TestNewWithROMRejectsTruncatedImage(t *testing.T) {
	_, err := NewWithROM(make([]byte, 0x100))
	assert.Error(t, err)
}

func TestNewWithROMRunsProgram(t *testing.T) {
	image := make([]byte, 0x8000)
	// LD A,0x2A; HALT at the entry point.
	copy(image[0x100:], []byte{0x3E, 0x2A, 0x76})

	emu, err := NewWithROM(image)
	require.NoError(t, err)

	emu.cpu.Tick()
	assert.Equal(t, byte(0x2A), byte(emu.cpu.AF()>>8))
}
