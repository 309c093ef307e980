package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli"
	"github.com/valerio/go-laserdisc/laserdisc/disc"
	"github.com/valerio/go-laserdisc/laserdisc/vbi"
)

var mkdiscFlags = []cli.Flag{
	cli.IntFlag{
		Name:  "frames",
		Usage: "Number of numbered frames",
		Value: 600,
	},
	cli.IntFlag{
		Name:  "lead-in",
		Usage: "Number of lead-in tracks before frame 1",
		Value: 30,
	},
	cli.IntFlag{
		Name:  "chapter",
		Usage: "Frames per chapter (0 = no chapter codes)",
		Value: 150,
	},
	cli.IntFlag{
		Name:  "width",
		Usage: "Frame width in pixels",
		Value: 320,
	},
	cli.IntFlag{
		Name:  "height",
		Usage: "Frame height in pixels, both fields",
		Value: 240,
	},
	cli.Float64Flag{
		Name:  "tone-left",
		Usage: "Left channel test tone in Hz (0 = silent)",
		Value: 440,
	},
	cli.Float64Flag{
		Name:  "tone-right",
		Usage: "Right channel test tone in Hz (0 = silent)",
		Value: 660,
	},
}

func runMkdisc(c *cli.Context) error {
	if c.NArg() != 1 {
		cli.ShowCommandHelp(c, "mkdisc")
		return errors.New("mkdisc needs an output path")
	}
	frames := c.Int("frames")
	if frames < 1 || frames > vbi.MaxFrame {
		return fmt.Errorf("--frames must be between 1 and %d", vbi.MaxFrame)
	}

	info := disc.DefaultInfo()
	info.Width = c.Int("width")
	info.Height = c.Int("height")

	f, err := os.Create(c.Args().First())
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)

	err = disc.Generate(w, disc.GenerateOptions{
		Info:             info,
		Frames:           frames,
		LeadInTracks:     c.Int("lead-in"),
		FramesPerChapter: c.Int("chapter"),
		ToneLeft:         c.Float64("tone-left"),
		ToneRight:        c.Float64("tone-right"),
	})
	if err == nil {
		err = w.Flush()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("writing disc: %w", err)
	}
	fmt.Printf("wrote %s: %d frames, %d lead-in tracks\n", c.Args().First(), frames, c.Int("lead-in"))
	return nil
}

func runInfo(c *cli.Context) error {
	if c.NArg() != 1 {
		cli.ShowCommandHelp(c, "info")
		return errors.New("info needs an image path")
	}

	f, err := disc.Open(c.Args().First(), disc.WithSynchronousReads())
	if err != nil {
		return err
	}
	defer f.Close()

	h := f.Header()
	fmt.Printf("format:    %s\n", h.Info.MetadataString())
	fmt.Printf("hunks:     %d (%d bytes each)\n", h.Hunks, h.HunkSize)
	fmt.Printf("tracks:    %d\n", h.Tracks())

	first, last, chapters, err := scanFrames(f)
	if err != nil {
		return err
	}
	if first == 0 {
		fmt.Println("frames:    none")
	} else {
		fmt.Printf("frames:    %d-%d\n", first, last)
	}
	fmt.Printf("chapters:  %d\n", chapters)
	return nil
}

// scanFrames reads the VBI of every field and reports the frame range and
// the highest chapter number.
func scanFrames(f *disc.File) (first, last, chapters int, err error) {
	buf := make([]byte, f.Header().HunkSize)
	for hunk := 0; hunk < f.Hunks(); hunk++ {
		if err := f.Configure(hunk, disc.DecodeOptions{}); err != nil {
			return 0, 0, 0, err
		}
		if err := f.BeginRead(hunk, buf); err != nil {
			return 0, 0, 0, err
		}
		if _, err := f.PollRead(); err != nil {
			return 0, 0, 0, fmt.Errorf("hunk %d: %w", hunk, err)
		}
		meta, ok := vbi.Parse(f.Info().Decode(buf, disc.DecodeOptions{}).VBI)
		if !ok {
			continue
		}
		if frame, ok := meta.Frame(); ok {
			if first == 0 {
				first = frame
			}
			last = frame
		}
		if ch, ok := meta.Chapter(); ok && ch > chapters {
			chapters = ch
		}
	}
	return first, last, chapters, nil
}
