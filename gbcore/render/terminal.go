package render

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dmgcore/emu/gbcore"
	"github.com/dmgcore/emu/gbcore/video"
)

const frameTime = time.Second / 60

// shadeRunes maps the four grayscale levels to block characters, from
// white to black.
var shadeRunes = map[byte]rune{
	video.WhiteShade:     ' ',
	video.LightGreyShade: '░',
	video.DarkGreyShade:  '▒',
	video.BlackShade:     '█',
}

// TerminalSink draws frames onto a tcell screen. It implements
// video.PixelSink: the GPU hands it every pixel of a finished frame,
// and PresentFrame flips it onto the terminal.
type TerminalSink struct {
	screen tcell.Screen
	style  tcell.Style
}

func NewTerminalSink() (*TerminalSink, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize terminal: %w", err)
	}

	style := tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite)
	screen.SetStyle(style)
	screen.Clear()

	return &TerminalSink{screen: screen, style: style}, nil
}

func (t *TerminalSink) SetPixel(x, y int, gray byte) {
	t.screen.SetContent(x, y, shadeRunes[gray], nil, t.style)
}

func (t *TerminalSink) PresentFrame() {
	t.screen.Show()
}

// Close releases the terminal.
func (t *TerminalSink) Close() {
	t.screen.Fini()
}

// Screen exposes the underlying tcell screen for event polling.
func (t *TerminalSink) Screen() tcell.Screen {
	return t.screen
}

// TerminalRenderer drives an emulator at 60 frames per second of
// wall-clock time, presenting through a TerminalSink.
type TerminalRenderer struct {
	sink     *TerminalSink
	emulator *gbcore.Emulator
	running  bool
}

func NewTerminalRenderer(emu *gbcore.Emulator) (*TerminalRenderer, error) {
	sink, err := NewTerminalSink()
	if err != nil {
		return nil, err
	}
	emu.SetSink(sink)

	return &TerminalRenderer{
		sink:     sink,
		emulator: emu,
		running:  true,
	}, nil
}

func (t *TerminalRenderer) Run() error {
	defer func() {
		slog.Info("finishing terminal")
		t.sink.Close()
	}()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGQUIT)

	go t.handleInput()

	ticker := time.NewTicker(frameTime)
	defer ticker.Stop()

	for t.running {
		select {
		case <-ticker.C:
			if err := t.emulator.RunUntilFrame(); err != nil {
				return err
			}
		case <-signals:
			t.running = false
			slog.Info("received signal to stop")
			return nil
		}
	}

	return nil
}

func (t *TerminalRenderer) handleInput() {
	for t.running {
		ev := t.sink.Screen().PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventKey:
			switch ev.Key() {
			case tcell.KeyEscape, tcell.KeyCtrlC:
				t.running = false
				return
			}
		case *tcell.EventResize:
			t.sink.Screen().Sync()
		}
	}
}
