package pipeline

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dgallion1/docsite/internal/config"
	"github.com/dgallion1/docsite/internal/images"
	"github.com/dgallion1/docsite/internal/parser"
	"github.com/dgallion1/docsite/internal/symbols"
	"github.com/stretchr/testify/require"
)

const guideMarkdown = "# Guide\n\n" +
	"Intro, see [the setup](#setup) and `Client.Run`.\n\n" +
	"## Install\n\nRun the installer.\n\n" +
	"### Setup\n\nDetails.\n\n![flow](flow.svg)\n\n" +
	"## Usage\n\nCall `docsite.Run`, then `Client.Run` and `Client.Run` again. See [nothing](#nowhere).\n\n" +
	"```python\n>>> 1 + 1\n2\n```\n"

type fakeConverter struct {
	err   error
	calls int
}

func (f *fakeConverter) Convert(_ context.Context, _, dst string) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	return os.WriteFile(dst, []byte("png"), 0o644)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testWorker(t *testing.T, conv images.Converter) *Worker {
	t.Helper()
	ix := symbols.NewIndex()
	ix.Add("docsite.Client.Run", "docsite.Client.html#Run")
	ix.Add("docsite.Run", "docsite.html#Run")

	cfg := config.Load()
	w := NewWorker(cfg, ix, testLogger())
	w.converter = conv
	return w
}

func writeInput(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func readPage(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	return string(data)
}

func TestWorker_GeneratesLinkedSite(t *testing.T) {
	conv := &fakeConverter{}
	w := testWorker(t, conv)
	out := t.TempDir()

	job, err := NewFileJob(writeInput(t, "guide.md", guideMarkdown), BatchOptions{
		OutputDir:     out,
		Depth:         1,
		AddNavigation: true,
	})
	require.NoError(t, err)
	require.NoError(t, w.Process(context.Background(), job))

	snap := job.Snapshot()
	require.Equal(t, StatusCompleted, snap.Status)
	require.Equal(t, 3, snap.Progress.TotalPages)
	require.Equal(t, 3, snap.Progress.PagesRendered)
	require.Equal(t, 1, snap.Progress.DanglingRefs)
	// One per page: Client.Run on the root page, docsite.Run and the first
	// Client.Run on the usage page.
	require.Equal(t, 3, snap.Progress.LinkedSymbols)

	require.Equal(t, []PageInfo{
		{Filename: "guide.html", Title: "Guide"},
		{Filename: "install.html", Title: "Install", Parent: "guide.html"},
		{Filename: "usage.html", Title: "Usage", Parent: "guide.html"},
	}, job.Pages())

	root := readPage(t, out, "guide.html")
	require.Contains(t, root, `<link rel="stylesheet" href="doc.css"/>`)
	require.Contains(t, root, `href="install.html#setup"`)
	require.Contains(t, root, `href="api/docsite.Client.html#Run"`)
	require.Contains(t, root, "Next: ")
	require.NotContains(t, root, "Previous: ")

	install := readPage(t, out, "install.html")
	require.Contains(t, install, `id="setup"`)
	require.Contains(t, install, `src="flow.png"`)
	require.Contains(t, install, "Guide</a> » Install")
	require.Equal(t, 1, conv.calls)

	usage := readPage(t, out, "usage.html")
	require.Equal(t, 1, strings.Count(usage, `href="api/docsite.Client.html#Run"`))
	require.Contains(t, usage, `href="api/docsite.html#Run"`)
	require.Contains(t, usage, `<span class="py-prompt">&gt;&gt;&gt;</span>`)
	require.Contains(t, usage, "Previous: ")
	require.NotContains(t, usage, "Next: ")

	_, err = os.Stat(filepath.Join(out, "flow.png"))
	require.NoError(t, err)
}

func TestWorker_LogsDanglingReferences(t *testing.T) {
	var logs bytes.Buffer
	w := testWorker(t, &fakeConverter{})
	w.log = slog.New(slog.NewTextHandler(&logs, nil))

	job, err := NewFileJob(writeInput(t, "guide.md", guideMarkdown), BatchOptions{OutputDir: t.TempDir(), Depth: 1})
	require.NoError(t, err)
	require.NoError(t, w.Process(context.Background(), job))

	require.Equal(t, 1, job.Snapshot().Progress.DanglingRefs)
	require.Contains(t, logs.String(), "level=WARN msg=\"dangling reference\"")
	require.Contains(t, logs.String(), "page=usage.html refid=nowhere")
}

func TestOrchestrator_SubmitAfterStop(t *testing.T) {
	cfg := config.Load()
	cfg.DataDir = t.TempDir()
	cfg.WorkerCount = 1

	o := NewOrchestrator(cfg, symbols.NewIndex(), testLogger())
	o.Start(context.Background())
	o.Stop()
	o.Stop()

	job := o.NewJob("guide.md", []byte(guideMarkdown), nil, nil)
	require.ErrorIs(t, o.Submit(job), ErrStopped)
	require.Equal(t, StatusFailed, job.Snapshot().Status)
}

func TestWorker_SinglePageWithoutNavigation(t *testing.T) {
	w := testWorker(t, &fakeConverter{})
	out := t.TempDir()

	job, err := NewFileJob(writeInput(t, "notes.md", "## One\n\n## Two\n"), BatchOptions{OutputDir: out})
	require.NoError(t, err)
	require.NoError(t, w.Process(context.Background(), job))

	require.Len(t, job.Pages(), 1)
	page := readPage(t, out, "notes.html")
	require.Contains(t, page, `id="one"`)
	require.Contains(t, page, `id="two"`)
	require.NotContains(t, page, "navigation")
}

func TestWorker_ConversionFailureIsFatal(t *testing.T) {
	w := testWorker(t, &fakeConverter{err: errors.New("no convert")})

	job, err := NewFileJob(writeInput(t, "guide.md", guideMarkdown), BatchOptions{OutputDir: t.TempDir(), Depth: 1})
	require.NoError(t, err)

	err = w.Process(context.Background(), job)
	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	require.Equal(t, StatusConverting, stageErr.Stage)
	var convErr *images.ConversionError
	require.ErrorAs(t, err, &convErr)
	require.Equal(t, "flow.svg", convErr.URI)

	snap := job.Snapshot()
	require.Equal(t, StatusFailed, snap.Status)
	require.Len(t, snap.Progress.Errors, 1)
}

func TestWorker_UnsupportedInput(t *testing.T) {
	w := testWorker(t, &fakeConverter{})

	job, err := NewFileJob(writeInput(t, "notes.rst", "Title\n=====\n"), BatchOptions{OutputDir: t.TempDir()})
	require.NoError(t, err)

	err = w.Process(context.Background(), job)
	require.ErrorIs(t, err, parser.ErrUnsupported)
	require.Equal(t, StatusFailed, job.Snapshot().Status)
}

func TestWorker_RunBatchContinuesAfterFailure(t *testing.T) {
	w := testWorker(t, &fakeConverter{})
	out := t.TempDir()

	good := writeInput(t, "good.md", "# Good\n\nText.\n")
	missing := filepath.Join(t.TempDir(), "missing.md")
	bad := writeInput(t, "bad.xyz", "data")

	jobs, err := w.RunBatch(context.Background(), []string{missing, bad, good}, BatchOptions{OutputDir: out})
	require.Error(t, err)
	require.ErrorIs(t, err, parser.ErrUnsupported)
	require.ErrorIs(t, err, os.ErrNotExist)

	require.Len(t, jobs, 2)
	require.Equal(t, StatusFailed, jobs[0].Snapshot().Status)
	require.Equal(t, StatusCompleted, jobs[1].Snapshot().Status)
	require.FileExists(t, filepath.Join(out, "good.html"))
}

func TestLoadSymbols(t *testing.T) {
	log := testLogger()

	ix, err := LoadSymbols(config.Config{}, log)
	require.NoError(t, err)
	require.Equal(t, 0, ix.Len())

	ix, err = LoadSymbols(config.Config{ApidocDir: t.TempDir()}, log)
	require.NoError(t, err, "missing index falls back to empty")
	require.Equal(t, 0, ix.Len())

	dir := t.TempDir()
	data := "pkg.Foo\tpkg.html#Foo\n\nbroken line\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, symbols.ObjectsFile), []byte(data), 0o644))
	ix, err = LoadSymbols(config.Config{ApidocDir: dir}, log)
	require.NoError(t, err)
	url, ok := ix.Lookup("Foo")
	require.True(t, ok)
	require.Equal(t, "pkg.html#Foo", url)
}
