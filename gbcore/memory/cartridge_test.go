package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func makeROM(size int, cartType byte, title string) []byte {
	image := make([]byte, size)
	if size > cartridgeTypeAddress {
		image[cartridgeTypeAddress] = cartType
	}
	if size > titleAddress+titleLength {
		copy(image[titleAddress:titleAddress+titleLength], title)
	}
	return image
}

func TestCartridgeRejectsTruncatedImage(t *testing.T) {
	_, err := NewCartridgeWithData(make([]byte, 0x17F))
	assert.ErrorIs(t, err, ErrROMTooSmall)

	_, err = NewCartridgeWithData(make([]byte, 0x180))
	assert.NoError(t, err)
}

func TestCartridgeHeaderParsing(t *testing.T) {
	image := makeROM(0x8000, cartROMOnly, "ALLEYWAY")
	image[romSizeAddress] = 0x00
	image[ramSizeAddress] = 0x00

	cart, err := NewCartridgeWithData(image)
	assert.NoError(t, err)

	assert.Equal(t, "ALLEYWAY", cart.Title())
	assert.Equal(t, uint8(cartROMOnly), cart.Type())
	assert.True(t, cart.IsROMOnly())
}

func TestCartridgeTitleIsNullTerminated(t *testing.T) {
	image := makeROM(0x8000, cartROMOnly, "")
	copy(image[titleAddress:], []byte{'A', 'B', 0, 'X', 'Y'})

	cart, err := NewCartridgeWithData(image)
	assert.NoError(t, err)
	assert.Equal(t, "AB", cart.Title())
}

func TestCartridgeClassification(t *testing.T) {
	testCases := []struct {
		desc     string
		cartType byte
		romOnly  bool
	}{
		{desc: "ROM only", cartType: 0x00, romOnly: true},
		{desc: "ROM+RAM", cartType: 0x08, romOnly: true},
		{desc: "ROM+RAM+battery", cartType: 0x09, romOnly: true},
		{desc: "MBC1", cartType: 0x01, romOnly: false},
		{desc: "MBC3+RTC", cartType: 0x10, romOnly: false},
		{desc: "MBC5", cartType: 0x19, romOnly: false},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			cart, err := NewCartridgeWithData(makeROM(0x8000, tC.cartType, "TEST"))
			assert.NoError(t, err)
			assert.Equal(t, tC.romOnly, cart.IsROMOnly())
		})
	}
}
