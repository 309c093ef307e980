package headless

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/valerio/go-laserdisc/laserdisc/backend"
	"github.com/valerio/go-laserdisc/laserdisc/debug"
	"github.com/valerio/go-laserdisc/laserdisc/input/action"
	"github.com/valerio/go-laserdisc/laserdisc/video"
)

// Backend implements the Backend interface for automated testing and batch processing
type Backend struct {
	config         backend.Config
	frameCount     int
	maxFrames      int
	snapshotConfig SnapshotConfig
}

// SnapshotConfig holds configuration for frame snapshots
type SnapshotConfig struct {
	Enabled   bool
	Interval  int    // Save snapshot every N fields
	Directory string // Directory to save snapshots
	DiscName  string // Disc name for snapshot filenames
}

// New creates a backend that quits after maxFrames fields. Zero runs
// until the host stops it.
func New(maxFrames int, snapshotConfig SnapshotConfig) *Backend {
	return &Backend{
		maxFrames:      maxFrames,
		snapshotConfig: snapshotConfig,
	}
}

func (h *Backend) Init(config backend.Config) error {
	h.config = config
	slog.Info("Running headless mode",
		"fields", h.maxFrames,
		"snapshot_interval", h.snapshotConfig.Interval,
		"snapshot_dir", h.snapshotConfig.Directory)
	return nil
}

// Update counts a field and handles snapshots
func (h *Backend) Update(frame *video.FrameBuffer) ([]backend.InputEvent, error) {
	var events []backend.InputEvent

	h.frameCount++

	if h.snapshotConfig.Enabled && h.frameCount%h.snapshotConfig.Interval == 0 {
		h.saveSnapshot(frame)
	}

	if h.frameCount%600 == 0 {
		attrs := []any{"completed", h.frameCount, "total", h.maxFrames}
		if h.config.Status != nil {
			attrs = append(attrs, "status", h.config.Status())
		}
		slog.Info("Field progress", attrs...)
	}

	if h.maxFrames > 0 && h.frameCount >= h.maxFrames {
		// Save final snapshot if enabled and we haven't just saved one
		if h.snapshotConfig.Enabled && h.frameCount%h.snapshotConfig.Interval != 0 {
			h.saveSnapshot(frame)
		}

		if h.snapshotConfig.Enabled {
			slog.Info("Headless execution completed", "fields", h.maxFrames, "png_snapshots_saved_to", h.snapshotConfig.Directory)
		} else {
			slog.Info("Headless execution completed", "fields", h.maxFrames)
		}

		events = append(events, backend.Press(action.EmulatorQuit))
	}

	return events, nil
}

func (h *Backend) Cleanup() error {
	return nil
}

// FrameCount is the number of fields seen so far.
func (h *Backend) FrameCount() int {
	return h.frameCount
}

// CreateSnapshotConfig creates a snapshot configuration from CLI parameters
func CreateSnapshotConfig(interval int, directory, discPath string) (SnapshotConfig, error) {
	config := SnapshotConfig{
		Enabled:  interval > 0,
		Interval: interval,
	}

	if !config.Enabled {
		return config, nil
	}

	if directory == "" {
		tempDir, err := os.MkdirTemp("", "laserdisc-snapshots-*")
		if err != nil {
			return config, fmt.Errorf("failed to create snapshot directory: %v", err)
		}
		config.Directory = tempDir
	} else {
		if err := os.MkdirAll(directory, 0755); err != nil {
			return config, fmt.Errorf("failed to create snapshot directory: %v", err)
		}
		config.Directory = directory
	}

	config.DiscName = "nodisc"
	if discPath != "" {
		config.DiscName = strings.TrimSuffix(filepath.Base(discPath), filepath.Ext(discPath))
	}

	return config, nil
}

// saveSnapshot saves a PNG snapshot for the current field
func (h *Backend) saveSnapshot(frame *video.FrameBuffer) {
	pngBaseName := fmt.Sprintf("%s_field_%d", h.snapshotConfig.DiscName, h.frameCount)

	if _, err := debug.SaveFramePNGToDir(frame, pngBaseName, h.snapshotConfig.Directory); err != nil {
		slog.Error("Failed to save PNG snapshot", "field", h.frameCount, "error", err)
	}
}
