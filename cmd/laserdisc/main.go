package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli"
)

var deviceFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "disc",
		Usage: "Path to a disc image (default: synthetic disc)",
	},
	cli.StringFlag{
		Name:  "player",
		Usage: "Player model: pr7820, pr8210, ldv1000, ldp1450, 22vp932",
		Value: "ldv1000",
	},
	cli.BoolFlag{
		Name:  "trace",
		Usage: "Log every byte crossing the data bus",
	},
	cli.BoolFlag{
		Name:  "trace-hex",
		Usage: "Log traced bytes as hex rather than text",
	},
	cli.StringFlag{
		Name:  "wav",
		Usage: "Capture the audio output to a WAV file",
	},
}

var playFlags = []cli.Flag{
	cli.BoolFlag{
		Name:  "headless",
		Usage: "Run without a user interface",
	},
	cli.BoolFlag{
		Name:  "sdl",
		Usage: "Use the SDL2 window (requires a build with -tags sdl2)",
	},
	cli.IntFlag{
		Name:  "fields",
		Usage: "Number of fields to run in headless mode (0 = until the script ends)",
	},
	cli.StringFlag{
		Name:  "script",
		Usage: "Lua host script to drive the player",
	},
	cli.IntFlag{
		Name:  "snapshot-interval",
		Usage: "Save frame snapshots every N fields in headless mode (0 = disabled)",
	},
	cli.StringFlag{
		Name:  "snapshot-dir",
		Usage: "Directory to save frame snapshots (default: temp directory)",
	},
	cli.IntFlag{
		Name:  "scale",
		Usage: "Window scale for the SDL2 backend",
		Value: 1,
	},
	cli.StringFlag{
		Name:  "limiter",
		Usage: "Field pacing: adaptive, ticker or none (headless always uses none)",
		Value: "adaptive",
	},
}

func main() {
	app := cli.NewApp()
	app.Name = "laserdisc"
	app.Usage = "emulate a laserdisc player wired to a host"
	app.Version = "1.0.0"
	app.Flags = append(append([]cli.Flag{
		cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level: debug, info, warn, error",
			Value: "info",
		},
	}, deviceFlags...), playFlags...)
	app.Before = setupLogging
	app.Action = runPlay
	app.Commands = []cli.Command{
		{
			Name:   "play",
			Usage:  "Run the player with a frontend",
			Flags:  append(append([]cli.Flag{}, deviceFlags...), playFlags...),
			Action: runPlay,
		},
		{
			Name:   "console",
			Usage:  "Drive the player from an interactive host console",
			Flags:  deviceFlags,
			Action: runConsole,
		},
		{
			Name:      "mkdisc",
			Usage:     "Write a synthetic test disc image",
			ArgsUsage: "<output>",
			Flags:     mkdiscFlags,
			Action:    runMkdisc,
		},
		{
			Name:      "info",
			Usage:     "Describe a disc image",
			ArgsUsage: "<image>",
			Action:    runInfo,
		},
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("Error running player", "error", err)
		os.Exit(1)
	}
}

func setupLogging(c *cli.Context) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.GlobalString("log-level")))); err != nil {
		return fmt.Errorf("bad --log-level: %w", err)
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
	return nil
}
