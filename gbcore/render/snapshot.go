package render

import (
	"fmt"
	"io"

	"github.com/dmgcore/emu/gbcore/video"
)

// FrameToLines renders a framebuffer as text, one block character per
// pixel, for headless runs and snapshot files.
func FrameToLines(fb *video.FrameBuffer) []string {
	lines := make([]string, 0, video.FramebufferHeight)
	for y := 0; y < video.FramebufferHeight; y++ {
		row := make([]rune, video.FramebufferWidth)
		for x := 0; x < video.FramebufferWidth; x++ {
			row[x] = shadeRunes[fb.GetPixel(x, y)]
		}
		lines = append(lines, string(row))
	}
	return lines
}

// WriteSnapshot writes a text rendering of the framebuffer.
func WriteSnapshot(w io.Writer, fb *video.FrameBuffer, frame uint64) error {
	if _, err := fmt.Fprintf(w, "# frame %d, %dx%d\n", frame, video.FramebufferWidth, video.FramebufferHeight); err != nil {
		return err
	}
	for _, line := range FrameToLines(fb) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
