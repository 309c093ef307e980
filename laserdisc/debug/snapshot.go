// Package debug holds tooling for inspecting the player's output.
package debug

import (
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/valerio/go-laserdisc/laserdisc/video"
)

// TakeSnapshot handles the snapshot key for interactive backends.
func TakeSnapshot(frame *video.FrameBuffer) {
	if frame == nil {
		slog.Warn("No frame data available for snapshot")
		return
	}
	if _, err := SaveFramePNGToDir(frame, "laserdisc_snapshot", ""); err != nil {
		slog.Error("Failed to save snapshot", "error", err)
	}
}

// Image converts a framebuffer to an RGBA image.
func Image(frame *video.FrameBuffer) *image.RGBA {
	w, h := int(frame.Width()), int(frame.Height())
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i, px := range frame.ToSlice() {
		idx := i * 4
		img.Pix[idx] = byte(px >> 24)
		img.Pix[idx+1] = byte(px >> 16)
		img.Pix[idx+2] = byte(px >> 8)
		img.Pix[idx+3] = byte(px)
	}
	return img
}

// SaveFramePNGToDir saves a framebuffer as PNG with timestamp to a specific
// directory, the working directory if empty. It returns the file written.
func SaveFramePNGToDir(frame *video.FrameBuffer, baseName, directory string) (string, error) {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.png", baseName, timestamp)

	outputDir := directory
	if outputDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get current directory: %v", err)
		}
		outputDir = cwd
	}

	filePath := filepath.Join(outputDir, filename)
	file, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create file %s: %v", filePath, err)
	}
	defer file.Close()

	if err := png.Encode(file, Image(frame)); err != nil {
		return "", fmt.Errorf("failed to encode PNG: %v", err)
	}

	slog.Info("Snapshot saved", "path", filePath, "size", fmt.Sprintf("%dx%d", frame.Width(), frame.Height()), "format", "PNG")
	return filePath, nil
}
