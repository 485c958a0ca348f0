package chart

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/KaramelBytes/chunkplot/internal/logging"
	"github.com/KaramelBytes/chunkplot/internal/utils"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
)

// Save renders p at w x h and writes it to path. The image format follows the
// file extension and defaults to PNG.
func Save(p *plot.Plot, w, h vg.Length, path string) error {
	format := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if format == "" {
		format = "png"
	}
	wt, err := p.WriterTo(w, h, format)
	if err != nil {
		return fmt.Errorf("render %s: %w", path, err)
	}
	if err := utils.SafeWriteTo(path, wt); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// Display renders p to a temporary PNG and opens it with viewer, or the
// platform's default image viewer when viewer is empty, waiting for the
// viewer process to exit. The image is removed afterwards unless the viewer
// hands it off and returns while the window is still open (xdg-open, rundll32).
func Display(ctx context.Context, p *plot.Plot, w, h vg.Length, viewer string) error {
	f, err := os.CreateTemp("", "chunkplot-*.png")
	if err != nil {
		return fmt.Errorf("create temp image: %w", err)
	}
	path := f.Name()
	_ = f.Close()
	keep := !ViewerBlocks(runtime.GOOS, viewer)
	defer func() {
		if !keep {
			_ = os.Remove(path)
		}
	}()
	if err := Save(p, w, h, path); err != nil {
		keep = false
		return err
	}

	name, args := ViewerCommand(runtime.GOOS, viewer, path)
	logging.Debugf("display %s", logging.Fields("viewer", name, "image", path, "keep", keep))
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("run viewer %s: %w", name, err)
	}
	return nil
}

// ViewerBlocks reports whether the viewer for goos stays attached until its
// window is closed. A configured viewer is assumed to block.
func ViewerBlocks(goos, viewer string) bool {
	if strings.TrimSpace(viewer) != "" {
		return true
	}
	return goos == "darwin"
}

// ViewerCommand returns the command that opens path on goos. A non-empty
// viewer is split on whitespace and the path appended as the last argument.
func ViewerCommand(goos, viewer, path string) (string, []string) {
	if fields := strings.Fields(viewer); len(fields) > 0 {
		return fields[0], append(fields[1:], path)
	}
	switch goos {
	case "darwin":
		return "open", []string{"-W", path}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", path}
	default:
		return "xdg-open", []string{path}
	}
}
