package video

import (
	"github.com/dmgcore/emu/gbcore/bit"
)

// GpuMode represents the LCD controller's current rendering stage.
type GpuMode int

const (
	// hblankMode (Mode 0): horizontal blank at the end of a scanline.
	hblankMode GpuMode = 0
	// vblankMode (Mode 1): vertical blank, ten line periods per frame.
	vblankMode GpuMode = 1
	// oamReadMode (Mode 2): controller is scanning OAM.
	oamReadMode GpuMode = 2
	// vramReadMode (Mode 3): controller is reading VRAM, pixels are
	// pushed to the line.
	vramReadMode GpuMode = 3
)

const (
	oamScanCycles  = 80
	vramReadCycles = 172
	hblankCycles   = 204
	scanlineCycles = oamScanCycles + vramReadCycles + hblankCycles

	visibleLines = 144
	lastLine     = 153

	// FrameCycles is one full frame: 144 drawn lines plus 10 vblank
	// lines, 456 cycles each.
	FrameCycles = scanlineCycles * (lastLine + 1)
)

const (
	vramSize  = 0x2000
	oamSize   = 0xA0
	tileCount = 384

	// VRAM offsets of the two background tile maps.
	tileMap0Offset = 0x1800
	tileMap1Offset = 0x1C00
)

// PixelSink receives finished frames from the GPU, one pixel at a time.
// Implementations may buffer and display at their own cadence.
type PixelSink interface {
	SetPixel(x, y int, gray byte)
	PresentFrame()
}

// GPU owns video memory and composes the background layer into a
// grayscale framebuffer, one scanline at a time. It is driven by the
// cycles the CPU reports after every instruction.
type GPU struct {
	vram  [vramSize]byte
	oam   [oamSize]byte
	tiles [tileCount]Tile

	framebuffer *FrameBuffer
	sink        PixelSink

	// LCDC control bits, kept decomposed. The remaining bits of the
	// register are preserved verbatim for readback.
	bgEnabled bool // bit 0
	bgMap     bool // bit 3: use tile map at 0x9C00 instead of 0x9800
	bgTile    bool // bit 4: unsigned tile addressing from 0x8000
	lcdOn     bool // bit 7
	lcdcRest  byte

	scrollX, scrollY byte
	windowX, windowY byte

	// Palette lookup tables, recomputed on every palette register
	// write, plus the raw register values for readback.
	bgPalette      [4]byte
	spritePalette0 [4]byte
	spritePalette1 [4]byte
	bgp, obp0, obp1 byte

	mode   GpuMode
	line   int
	cycles int
}

// shadeMap translates a 2-bit palette color to a grayscale level.
var shadeMap = [4]byte{WhiteShade, LightGreyShade, DarkGreyShade, BlackShade}

func New() *GPU {
	return &GPU{
		framebuffer:    NewFrameBuffer(),
		mode:           oamReadMode,
		bgPalette:      decodePalette(0),
		spritePalette0: decodePalette(0),
		spritePalette1: decodePalette(0),
	}
}

// SetSink attaches the sink that receives each completed frame.
func (g *GPU) SetSink(sink PixelSink) {
	g.sink = sink
}

func (g *GPU) GetFrameBuffer() *FrameBuffer {
	return g.framebuffer
}

// Line returns the current scanline (the LY register).
func (g *GPU) Line() int {
	return g.line
}

// Mode returns the controller's current mode.
func (g *GPU) Mode() GpuMode {
	return g.mode
}

// Tick advances the mode state machine by the given number of CPU
// cycles. It returns true when the frame just entered vertical blank,
// which is the caller's signal to raise the VBLANK interrupt flag.
func (g *GPU) Tick(cycles int) bool {
	g.cycles += cycles

	switch g.mode {
	case oamReadMode:
		if g.cycles >= oamScanCycles {
			g.cycles -= oamScanCycles
			g.mode = vramReadMode
		}
	case vramReadMode:
		if g.cycles >= vramReadCycles {
			g.cycles -= vramReadCycles
			g.RenderScanline()
			g.mode = hblankMode
		}
	case hblankMode:
		if g.cycles >= hblankCycles {
			g.cycles -= hblankCycles
			g.line++

			if g.line == visibleLines {
				g.mode = vblankMode
				g.PresentFrame()
				return true
			}
			g.mode = oamReadMode
		}
	case vblankMode:
		if g.cycles >= scanlineCycles {
			g.cycles -= scanlineCycles
			g.line++

			if g.line > lastLine {
				g.line = 0
				g.mode = oamReadMode
			}
		}
	}

	return false
}

// ReadVRAM returns the VRAM byte mapped at the given bus address
// (0x8000-0x9FFF).
func (g *GPU) ReadVRAM(address uint16) byte {
	return g.vram[address&(vramSize-1)]
}

// WriteVRAM stores a byte into VRAM. Writes into the tile pattern area
// (0x8000-0x97FF) refresh the affected row of the decoded tile cache,
// so the scanline hot path never decodes on read.
func (g *GPU) WriteVRAM(address uint16, value byte) {
	offset := address & (vramSize - 1)
	g.vram[offset] = value

	if offset < tileMap0Offset {
		g.updateTile(offset)
	}
}

// ReadOAM returns the OAM byte mapped at the given bus address
// (0xFE00-0xFE9F).
func (g *GPU) ReadOAM(address uint16) byte {
	offset := address & 0xFF
	if offset >= oamSize {
		return 0
	}
	return g.oam[offset]
}

// WriteOAM stores a byte into OAM.
func (g *GPU) WriteOAM(address uint16, value byte) {
	offset := address & 0xFF
	if offset >= oamSize {
		return
	}
	g.oam[offset] = value
}

// updateTile recomputes the cached row holding the given VRAM offset.
// Each row is two consecutive bytes, low plane on the even address.
func (g *GPU) updateTile(offset uint16) {
	base := offset &^ 1

	tile := (base >> 4) & 0x1FF
	row := (base >> 1) & 7

	g.tiles[tile][row] = decodeTileRow(g.vram[base], g.vram[base+1])
}

// RenderScanline composes the current line of the framebuffer from the
// background layer.
func (g *GPU) RenderScanline() {
	if g.line >= FramebufferHeight {
		return
	}

	if !g.lcdOn || !g.bgEnabled {
		for i := 0; i < FramebufferWidth; i++ {
			g.framebuffer.SetPixel(i, g.line, g.bgPalette[0])
		}
		return
	}

	mapBase := tileMap0Offset
	if g.bgMap {
		mapBase = tileMap1Offset
	}
	mapRow := ((g.line + int(g.scrollY)) & 0xFF) >> 3

	col := int(g.scrollX) >> 3
	x := int(g.scrollX) & 7
	y := (g.line + int(g.scrollY)) & 7

	tile := g.tileIndexAt(mapBase, mapRow, col)

	for i := 0; i < FramebufferWidth; i++ {
		g.framebuffer.SetPixel(i, g.line, g.bgPalette[g.tiles[tile][y][x]])

		x++
		if x == 8 {
			x = 0
			col = (col + 1) & 31
			tile = g.tileIndexAt(mapBase, mapRow, col)
		}
	}
}

// tileIndexAt fetches a tile number from the background map and resolves
// it into the cache. With signed addressing (LCDC bit 4 clear), numbers
// below 128 address the second tile bank.
func (g *GPU) tileIndexAt(mapBase, mapRow, col int) int {
	tile := int(g.vram[mapBase+mapRow*32+col])
	if !g.bgTile && tile < 128 {
		tile += 256
	}
	return tile
}

// PresentFrame pushes the framebuffer to the attached sink, if any.
func (g *GPU) PresentFrame() {
	if g.sink == nil {
		return
	}

	for y := 0; y < FramebufferHeight; y++ {
		for x := 0; x < FramebufferWidth; x++ {
			g.sink.SetPixel(x, y, g.framebuffer.GetPixel(x, y))
		}
	}
	g.sink.PresentFrame()
}

// ReadRegister synthesizes the value of an LCD register from the GPU's
// state. Addresses outside the GPU's register set read as 0.
func (g *GPU) ReadRegister(address uint16) byte {
	switch address {
	case 0xFF40:
		value := g.lcdcRest
		if g.bgEnabled {
			value = bit.Set(0, value)
		}
		if g.bgMap {
			value = bit.Set(3, value)
		}
		if g.bgTile {
			value = bit.Set(4, value)
		}
		if g.lcdOn {
			value = bit.Set(7, value)
		}
		return value
	case 0xFF42:
		return g.scrollY
	case 0xFF43:
		return g.scrollX
	case 0xFF44:
		return byte(g.line)
	case 0xFF47:
		return g.bgp
	case 0xFF48:
		return g.obp0
	case 0xFF49:
		return g.obp1
	case 0xFF4A:
		return g.windowY
	case 0xFF4B:
		return g.windowX
	}
	return 0
}

// WriteRegister updates GPU state from a write to an LCD register.
// Writes to LY are ignored; the scanline counter is hardware-driven.
func (g *GPU) WriteRegister(address uint16, value byte) {
	switch address {
	case 0xFF40:
		g.bgEnabled = bit.IsSet(0, value)
		g.bgMap = bit.IsSet(3, value)
		g.bgTile = bit.IsSet(4, value)
		g.lcdOn = bit.IsSet(7, value)
		g.lcdcRest = value &^ 0x99
	case 0xFF42:
		g.scrollY = value
	case 0xFF43:
		g.scrollX = value
	case 0xFF44:
		// read-only
	case 0xFF47:
		g.bgp = value
		g.bgPalette = decodePalette(value)
	case 0xFF48:
		g.obp0 = value
		g.spritePalette0 = decodePalette(value)
	case 0xFF49:
		g.obp1 = value
		g.spritePalette1 = decodePalette(value)
	case 0xFF4A:
		g.windowY = value
	case 0xFF4B:
		g.windowX = value
	}
}

// decodePalette expands a palette register into a color-index to shade
// lookup table.
func decodePalette(value byte) [4]byte {
	var palette [4]byte
	for i := 0; i < 4; i++ {
		palette[i] = shadeMap[(value>>(2*uint(i)))&0x3]
	}
	return palette
}
