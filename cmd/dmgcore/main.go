package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli"

	"github.com/dmgcore/emu/gbcore"
	"github.com/dmgcore/emu/gbcore/render"
)

func main() {
	app := cli.NewApp()
	app.Name = "dmgcore"
	app.Description = "A Game Boy (DMG) emulator core with a terminal front end"
	app.Usage = "dmgcore [options] <ROM file>"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "rom",
			Usage: "Path to the ROM file",
		},
		cli.BoolFlag{
			Name:  "headless",
			Usage: "Run without a display",
		},
		cli.IntFlag{
			Name:  "frames",
			Usage: "Number of frames to run in headless mode (required for headless)",
			Value: 0,
		},
		cli.StringFlag{
			Name:  "snapshot",
			Usage: "Write a text rendering of the final frame to this file (headless mode)",
		},
	}
	app.Action = runEmulator

	if err := app.Run(os.Args); err != nil {
		slog.Error("error running emulator", "error", err)
		os.Exit(1)
	}
}

func runEmulator(c *cli.Context) error {
	romPath := c.String("rom")
	if romPath == "" {
		if c.NArg() > 0 {
			romPath = c.Args().Get(0)
		} else {
			cli.ShowAppHelp(c)
			return errors.New("no ROM path provided")
		}
	}

	emu, err := gbcore.NewWithFile(romPath)
	if err != nil {
		return err
	}

	if c.Bool("headless") {
		return runHeadless(emu, c.Int("frames"), c.String("snapshot"))
	}

	renderer, err := render.NewTerminalRenderer(emu)
	if err != nil {
		return err
	}
	return renderer.Run()
}

func runHeadless(emu *gbcore.Emulator, frames int, snapshotPath string) error {
	if frames <= 0 {
		return errors.New("headless mode requires --frames with a positive value")
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	slog.SetDefault(slog.New(handler))

	slog.Info("running headless", "frames", frames)

	for i := 0; i < frames; i++ {
		if err := emu.RunUntilFrame(); err != nil {
			return err
		}
		if (i+1)%60 == 0 {
			slog.Info("frame progress", "completed", i+1, "total", frames)
		}
	}

	if snapshotPath != "" {
		file, err := os.Create(snapshotPath)
		if err != nil {
			return fmt.Errorf("creating snapshot file: %w", err)
		}
		defer file.Close()

		if err := render.WriteSnapshot(file, emu.GetCurrentFrame(), emu.FrameCount()); err != nil {
			return fmt.Errorf("writing snapshot: %w", err)
		}
		slog.Info("wrote frame snapshot", "path", snapshotPath)
	}

	slog.Info("headless execution completed", "frames", frames)
	return nil
}
