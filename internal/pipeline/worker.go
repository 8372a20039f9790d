package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dgallion1/docsite/internal/colorize"
	"github.com/dgallion1/docsite/internal/config"
	"github.com/dgallion1/docsite/internal/images"
	"github.com/dgallion1/docsite/internal/navigation"
	"github.com/dgallion1/docsite/internal/page"
	"github.com/dgallion1/docsite/internal/parser"
	"github.com/dgallion1/docsite/internal/render"
	"github.com/dgallion1/docsite/internal/symbols"
	"github.com/dgallion1/docsite/internal/xref"
)

// StageError reports the stage at which a job failed.
type StageError struct {
	Stage JobStatus
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Worker turns one input document into a forest of HTML pages.
type Worker struct {
	index     *symbols.Index
	converter images.Converter
	colorizer colorize.Colorizer
	renderer  render.Renderer
	log       *slog.Logger

	apiPrefix   string
	pdfFallback bool
}

// NewWorker builds a worker from cfg. index is shared read-only between
// workers and may be nil.
func NewWorker(cfg config.Config, index *symbols.Index, log *slog.Logger) *Worker {
	return &Worker{
		index:       index,
		converter:   images.ExecConverter{Command: cfg.ImageConverter},
		colorizer:   colorize.Doctest{},
		renderer:    render.HTML{Stylesheet: cfg.Stylesheet},
		log:         log,
		apiPrefix:   cfg.APIPrefix,
		pdfFallback: cfg.PDFFallbackPdftotext,
	}
}

// Process runs the full generation pipeline for a job. The returned error
// is also recorded on the job.
func (w *Worker) Process(ctx context.Context, job *Job) error {
	log := w.log.With("job_id", job.ID, "filename", job.Filename)

	fail := func(stage JobStatus, err error) error {
		log.Error("generation failed", "stage", stage, "error", err)
		job.AddError(fmt.Sprintf("%s: %s", stage, err))
		job.SetStatus(StatusFailed, string(stage))
		return &StageError{Stage: stage, Err: err}
	}

	// Phase 1: Parse
	job.SetStatus(StatusParsing, "parsing")
	p, err := parser.ForFile(job.Filename)
	if err != nil {
		return fail(StatusParsing, err)
	}
	if pdf, ok := p.(*parser.PDFParser); ok {
		pdf.FallbackPdftotext = w.pdfFallback
	}
	doc, err := p.Parse(bytes.NewReader(job.FileData()), job.Filename)
	if err != nil {
		return fail(StatusParsing, fmt.Errorf("parse: %w", err))
	}

	if err := os.MkdirAll(job.OutputDir, 0o755); err != nil {
		return fail(StatusParsing, fmt.Errorf("create output dir: %w", err))
	}

	// Phase 2: Images and literal blocks
	job.SetStatus(StatusConverting, "images")
	imgs := &images.Handler{
		Converter: w.converter,
		InputDir:  job.InputDir,
		OutputDir: job.OutputDir,
		Log:       log,
	}
	if err := imgs.Process(ctx, doc); err != nil {
		return fail(StatusConverting, err)
	}
	blocks := colorize.Apply(doc, w.colorizer)
	log.Debug("colorized literal blocks", "count", blocks)

	// Phase 3: Split into pages
	job.SetStatus(StatusSplitting, "splitting")
	root := page.Build(doc, page.RootFilename(job.Filename), job.Depth)
	pages := root.Preorder()
	job.SetTotalPages(len(pages))
	log.Info("split document", "pages", len(pages), "depth", job.Depth)

	// Phase 4: Collect ids over the whole forest, then resolve.
	job.SetStatus(StatusResolving, "resolving")
	ids, dangling := xref.Link(root)
	for _, d := range dangling {
		log.Warn("dangling reference", "page", d.Page, "refid", d.RefID)
	}
	job.AddDangling(len(dangling))
	log.Debug("resolved references", "ids", len(ids), "dangling", len(dangling))

	// Phase 5: Navigation
	if job.AddNavigation {
		job.SetStatus(StatusWeaving, "navigation")
		navigation.Weave(root)
	}

	// Phase 6: Symbol links
	job.SetStatus(StatusLinking, "symbols")
	linker := symbols.NewLinker(w.index, w.apiPrefix)
	linked := 0
	for _, pg := range pages {
		linked += linker.LinkPage(pg.Doc)
	}
	job.AddLinked(linked)

	// Phase 7: Render
	job.SetStatus(StatusRendering, "rendering")
	infos := make([]PageInfo, 0, len(pages))
	for _, pg := range pages {
		if err := ctx.Err(); err != nil {
			return fail(StatusRendering, err)
		}
		if err := w.writePage(job.OutputDir, pg); err != nil {
			return fail(StatusRendering, err)
		}
		job.IncrPagesRendered()
		infos = append(infos, pageInfo(pg))
	}
	job.SetPages(infos)

	log.Info("generation complete", "pages", len(pages), "linked_symbols", linked, "dangling", len(dangling))
	job.SetStatus(StatusCompleted, "done")
	return nil
}

func (w *Worker) writePage(dir string, pg *page.Page) error {
	path := filepath.Join(dir, pg.Filename)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write %s: %w", pg.Filename, err)
	}
	if err := w.renderer.Render(f, pg.Doc, pg.Title); err != nil {
		return errors.Join(fmt.Errorf("render %s: %w", pg.Filename, err), f.Close())
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write %s: %w", pg.Filename, err)
	}
	return nil
}

func pageInfo(pg *page.Page) PageInfo {
	info := PageInfo{Filename: pg.Filename, Title: pg.Title}
	if pg.Parent != nil {
		info.Parent = pg.Parent.Filename
	}
	return info
}

// LoadSymbols loads the symbol index named by cfg. An explicit symbols file
// wins over the apidoc directory. A missing index yields an empty one.
func LoadSymbols(cfg config.Config, log *slog.Logger) (*symbols.Index, error) {
	var (
		ix    *symbols.Index
		stats symbols.Stats
		err   error
	)
	switch {
	case cfg.SymbolsFile != "":
		ix, stats, err = symbols.LoadFile(cfg.SymbolsFile)
	case cfg.ApidocDir != "":
		ix, stats, err = symbols.LoadDir(cfg.ApidocDir)
	default:
		return symbols.NewIndex(), nil
	}
	if errors.Is(err, os.ErrNotExist) {
		log.Warn("symbol index not found, continuing without symbol links", "error", err)
		return symbols.NewIndex(), nil
	}
	if err != nil {
		return nil, err
	}
	log.Info("loaded symbol index",
		"entries", stats.Entries, "skipped", stats.Skipped, "ambiguous", stats.Ambiguous)
	return ix, nil
}
