// Package images prepares image nodes for output: remote images pass
// through, SVGs are rasterized with an external converter, and other local
// images are copied next to the generated pages.
package images

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/dgallion1/docsite/internal/doctree"
)

// DefaultCommand is the ImageMagick converter invoked for SVG files.
const DefaultCommand = "convert"

// Converter rasterizes src into dst.
type Converter interface {
	Convert(ctx context.Context, src, dst string) error
}

// ConversionError reports a failed conversion.
type ConversionError struct {
	URI string
	Err error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("convert image %s: %v", e.URI, e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }

// ExecConverter shells out to an ImageMagick-compatible command.
type ExecConverter struct {
	Command string
}

func (c ExecConverter) Convert(ctx context.Context, src, dst string) error {
	name := c.Command
	if name == "" {
		name = DefaultCommand
	}
	out, err := exec.CommandContext(ctx, name, src, dst).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(out)))
	}
	return nil
}

// Handler rewrites image uris of one input document.
type Handler struct {
	Converter Converter
	InputDir  string
	OutputDir string
	Log       *slog.Logger
}

// Process handles every image node under doc. The first conversion failure
// aborts processing.
func (h *Handler) Process(ctx context.Context, doc *doctree.Node) error {
	for _, img := range doctree.Filter(doc, doctree.KindImage) {
		uri, err := h.rewrite(ctx, img.Attrs.URI)
		if err != nil {
			return err
		}
		img.Attrs.URI = uri
	}
	return nil
}

func (h *Handler) rewrite(ctx context.Context, uri string) (string, error) {
	if uri == "" || isRemote(uri) {
		return uri, nil
	}
	src := filepath.Join(h.InputDir, filepath.FromSlash(uri))

	if strings.EqualFold(filepath.Ext(uri), ".svg") {
		base := filepath.Base(uri)
		newURI := strings.TrimSuffix(base, filepath.Ext(base)) + ".png"
		dst := filepath.Join(h.OutputDir, newURI)
		if err := h.Converter.Convert(ctx, src, dst); err != nil {
			return "", &ConversionError{URI: uri, Err: err}
		}
		h.logger().Debug("converted image", "uri", uri, "output", newURI)
		return newURI, nil
	}

	if filepath.IsAbs(uri) || strings.HasPrefix(filepath.Clean(uri), "..") {
		return uri, nil
	}
	dst := filepath.Join(h.OutputDir, filepath.FromSlash(uri))
	if err := copyFile(src, dst); err != nil {
		h.logger().Warn("image not copied", "uri", uri, "error", err)
	}
	return uri, nil
}

func (h *Handler) logger() *slog.Logger {
	if h.Log == nil {
		return slog.Default()
	}
	return h.Log
}

func isRemote(uri string) bool {
	for _, scheme := range []string{"http:", "https:", "data:"} {
		if strings.HasPrefix(uri, scheme) {
			return true
		}
	}
	return false
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
