// Package snapshot saves the presented canvas as a PNG.
package snapshot

import (
	"bytes"
	"fmt"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/milk9111/rawframe/canvas"
)

// ClipboardWriter places PNG data on the system clipboard.
type ClipboardWriter interface {
	WriteImage(png []byte) error
}

// Saver writes snapshots to a directory, the clipboard, or both.
type Saver struct {
	Dir       string
	Clipboard ClipboardWriter
	Logger    *slog.Logger
	Now       func() time.Time
}

// Encode returns the canvas as PNG bytes.
func Encode(c *canvas.Canvas) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, c.RGBA()); err != nil {
		return nil, fmt.Errorf("snapshot: encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// Save encodes c and hands it to every configured destination. It returns
// the written file path, if any.
func (s *Saver) Save(c *canvas.Canvas) (string, error) {
	if s.Dir == "" && s.Clipboard == nil {
		return "", nil
	}
	data, err := Encode(c)
	if err != nil {
		return "", err
	}

	var path string
	if s.Dir != "" {
		if err := os.MkdirAll(s.Dir, 0o755); err != nil {
			return "", fmt.Errorf("snapshot: create %s: %w", s.Dir, err)
		}
		path = filepath.Join(s.Dir, FileName(s.now()))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return "", fmt.Errorf("snapshot: write %s: %w", path, err)
		}
	}
	if s.Clipboard != nil {
		if err := s.Clipboard.WriteImage(data); err != nil {
			return path, fmt.Errorf("snapshot: clipboard: %w", err)
		}
	}

	s.logger().Info("snapshot saved", "path", path, "clipboard", s.Clipboard != nil, "width", c.Width(), "height", c.Height())
	return path, nil
}

// FileName returns the file name used for a snapshot taken at t.
func FileName(t time.Time) string {
	return "rawframe-" + t.Format("20060102-150405.000") + ".png"
}

func (s *Saver) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Saver) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.New(slog.DiscardHandler)
}
