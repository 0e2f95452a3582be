package video

import "github.com/dmgcore/emu/gbcore/bit"

// Tile is a decoded 8x8 tile pattern, one 2-bit color index (0-3) per
// pixel, indexed as [row][column].
//
// In VRAM a tile occupies 16 bytes, two per row, in a bit-plane format:
//
//	Byte 1 (Low):  bit plane 0 - provides bit 0 of each pixel's color
//	Byte 2 (High): bit plane 1 - provides bit 1 of each pixel's color
//
// Bit 7 represents the leftmost pixel, bit 0 the rightmost:
//
//	Bit:     7 6 5 4 3 2 1 0
//	Pixel:   0 1 2 3 4 5 6 7
//
// Example: Bytes $3C and $42 represent a row:
//
//	Low  (0x3C): 0 0 1 1 1 1 0 0
//	High (0x42): 0 1 0 0 0 0 1 0
//	            -----------------
//	Colors:      0 2 1 1 1 1 2 0
//
// The actual display shade is determined by a palette register (BGP for
// the background).
//
// Reference: https://gbdev.io/pandocs/Tile_Data.html
type Tile [8][8]uint8

// Pixel returns the color index (0-3) at (x, y), where (0,0) is the
// top-left pixel.
func (t *Tile) Pixel(x, y int) uint8 {
	return t[y][x]
}

// decodeTileRow expands the two bit-plane bytes of one tile row into
// eight color indices, leftmost pixel first.
func decodeTileRow(low, high byte) [8]uint8 {
	var row [8]uint8
	for x := 0; x < 8; x++ {
		bitIndex := uint8(7 - x)

		var pixel uint8
		if bit.IsSet(bitIndex, low) {
			pixel |= 1
		}
		if bit.IsSet(bitIndex, high) {
			pixel |= 2
		}
		row[x] = pixel
	}
	return row
}
