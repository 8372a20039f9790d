package images

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dgallion1/docsite/internal/doctree"
	"github.com/stretchr/testify/require"
)

type fakeConverter struct {
	calls [][2]string
	err   error
}

func (f *fakeConverter) Convert(_ context.Context, src, dst string) error {
	f.calls = append(f.calls, [2]string{src, dst})
	return f.err
}

func image(uri string) *doctree.Node {
	n := doctree.New(doctree.KindImage)
	n.Attrs.URI = uri
	return n
}

func TestProcess_RewritesURIs(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(in, "img"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(in, "img", "photo.png"), []byte("png"), 0o600))

	conv := &fakeConverter{}
	h := &Handler{Converter: conv, InputDir: in, OutputDir: out}

	doc := doctree.NewDocument("x")
	doc.Append(image("http://example.com/a.svg"), image("img/diagram.svg"), image("img/photo.png"))
	require.NoError(t, h.Process(context.Background(), doc))

	require.Equal(t, "http://example.com/a.svg", doc.Children[0].Attrs.URI)
	require.Equal(t, "diagram.png", doc.Children[1].Attrs.URI)
	require.Equal(t, "img/photo.png", doc.Children[2].Attrs.URI)

	require.Equal(t, [][2]string{{filepath.Join(in, "img", "diagram.svg"), filepath.Join(out, "diagram.png")}}, conv.calls)

	copied, err := os.ReadFile(filepath.Join(out, "img", "photo.png"))
	require.NoError(t, err)
	require.Equal(t, "png", string(copied))
}

func TestProcess_ConversionFailureIsFatal(t *testing.T) {
	h := &Handler{Converter: &fakeConverter{err: errors.New("boom")}, OutputDir: t.TempDir()}
	doc := doctree.NewDocument("x")
	doc.Append(image("a.svg"))

	err := h.Process(context.Background(), doc)
	var convErr *ConversionError
	require.ErrorAs(t, err, &convErr)
	require.Equal(t, "a.svg", convErr.URI)
	require.Equal(t, "a.svg", doc.Children[0].Attrs.URI)
}

func TestProcess_MissingLocalImageIsNotFatal(t *testing.T) {
	h := &Handler{Converter: &fakeConverter{}, InputDir: t.TempDir(), OutputDir: t.TempDir()}
	doc := doctree.NewDocument("x")
	doc.Append(image("nope.png"))
	require.NoError(t, h.Process(context.Background(), doc))
	require.Equal(t, "nope.png", doc.Children[0].Attrs.URI)
}
