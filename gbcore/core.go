package gbcore

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/dmgcore/emu/gbcore/cpu"
	"github.com/dmgcore/emu/gbcore/memory"
	"github.com/dmgcore/emu/gbcore/video"
)

// Emulator is the root struct and entry point for running the emulation.
// Ownership is a tree: the CPU drives the bus, the bus owns the GPU, the
// GPU feeds the pixel sink.
type Emulator struct {
	cpu *cpu.CPU
	mem *memory.MMU

	frameCount uint64
}

func newEmulator(mem *memory.MMU) *Emulator {
	return &Emulator{
		cpu: cpu.New(mem),
		mem: mem,
	}
}

// New creates an emulator with no cartridge loaded. Registers come up
// in the documented post-boot state.
func New() *Emulator {
	return newEmulator(memory.New())
}

// NewWithROM creates an emulator with the given ROM image loaded.
func NewWithROM(data []byte) (*Emulator, error) {
	cart, err := memory.NewCartridgeWithData(data)
	if err != nil {
		return nil, fmt.Errorf("loading ROM: %w", err)
	}

	slog.Debug("loaded ROM", "title", cart.Title(), "size", len(data))

	return newEmulator(memory.NewWithCartridge(cart)), nil
}

// NewWithFile creates an emulator and loads the ROM file at path.
func NewWithFile(path string) (*Emulator, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading ROM file: %w", err)
	}
	return NewWithROM(data)
}

// SetSink attaches the pixel sink that receives each completed frame.
func (e *Emulator) SetSink(sink video.PixelSink) {
	e.mem.GPU().SetSink(sink)
}

// RunUntilFrame executes instructions until one frame's worth of cycles
// has elapsed. Cycles are charged to the bus (and through it the GPU)
// strictly after the instruction that produced them, so an interrupt the
// GPU raises is serviced at the next instruction boundary.
//
// It fails if the CPU trapped on an undefined opcode; emulation cannot
// meaningfully continue past one.
func (e *Emulator) RunUntilFrame() error {
	total := 0
	for total < video.FrameCycles {
		cycles := e.cpu.Tick()
		e.mem.Tick(cycles)

		if err := e.cpu.Err(); err != nil {
			return fmt.Errorf("emulation halted: %w", err)
		}

		total += cycles
	}

	e.frameCount++
	return nil
}

// GetCurrentFrame returns the GPU's framebuffer.
func (e *Emulator) GetCurrentFrame() *video.FrameBuffer {
	return e.mem.GPU().GetFrameBuffer()
}

// FrameCount returns the number of completed frames.
func (e *Emulator) FrameCount() uint64 {
	return e.frameCount
}
