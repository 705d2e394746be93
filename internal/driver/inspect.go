package driver

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"fortio.org/safecast"
	"golang.org/x/sync/errgroup"

	"rubric/internal/config"
	"rubric/internal/diag"
	"rubric/internal/fix"
	"rubric/internal/lint"
	"rubric/internal/observ"
	"rubric/internal/parser"
	"rubric/internal/source"
	"rubric/internal/trace"
)

// Options configures Inspect.
type Options struct {
	Registry *lint.Registry
	// Config supplies rule settings, excludes and [run] defaults; nil means
	// config.Default().
	Config *config.Config
	// Jobs limits parallel files; zero falls back to [run].jobs, then to
	// GOMAXPROCS.
	Jobs int
	// Timeout bounds one file; zero falls back to [run].timeout.
	Timeout        time.Duration
	MaxDiagnostics int
	// Autocorrect applies corrections in a loop and rewrites files.
	Autocorrect bool
	// Cache is consulted for plain inspections only.
	Cache    *ResultCache
	Progress ProgressSink
	// Timings records per-file phase durations.
	Timings bool
	BaseDir string
}

// FileResult содержит результат проверки одного файла
type FileResult struct {
	Path   string        // путь, как его вернул Collect
	FileID source.FileID // последняя версия файла в FileSet
	// Offenses are sorted by position. After autocorrection they are the
	// offenses left in the final version of the file.
	Offenses []lint.Offense
	// Corrections lists applied scripts; spans point into the file version
	// each script was applied to.
	Corrections []fix.AppliedFix
	// Corrected are the offenses whose corrections were applied.
	Corrected []lint.Offense
	Bag       *diag.Bag
	Timing    *observ.Report
	Cached    bool
}

// Result is the outcome of one run, files in Collect order.
type Result struct {
	FileSet *source.FileSet
	Files   []FileResult
}

// OffenseCount sums offenses over all files.
func (r *Result) OffenseCount() int {
	total := 0
	for i := range r.Files {
		total += len(r.Files[i].Offenses)
	}
	return total
}

// CorrectionCount sums applied corrections over all files.
func (r *Result) CorrectionCount() int {
	total := 0
	for i := range r.Files {
		total += len(r.Files[i].Corrections)
	}
	return total
}

// HasErrors reports an error diagnostic in any file.
func (r *Result) HasErrors() bool {
	for i := range r.Files {
		if r.Files[i].Bag.HasErrors() {
			return true
		}
	}
	return false
}

// Timings merges the per-file reports.
func (r *Result) Timings() observ.Report {
	reports := make([]observ.Report, 0, len(r.Files))
	for i := range r.Files {
		if r.Files[i].Timing != nil {
			reports = append(reports, *r.Files[i].Timing)
		}
	}
	return observ.Merge(reports...)
}

// Inspect runs the configured rules over every file under targets. Files are
// processed in parallel; problems with one file end up in its Bag and never
// fail the run. Only bad configuration, a failed directory walk or a
// cancelled ctx return an error.
func Inspect(ctx context.Context, targets []string, opts Options) (*Result, error) {
	if opts.Registry == nil {
		return nil, errors.New("driver: no rule registry")
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	settings, err := cfg.Settings(opts.Registry)
	if err != nil {
		return nil, err
	}
	// ошибки фабрик правил всплывают до запуска воркеров
	if _, err := opts.Registry.Instantiate(settings); err != nil {
		return nil, err
	}

	ctx, span := trace.Start(ctx, trace.ScopeDriver, "inspect")
	defer span.End("")

	_, discover := trace.Start(ctx, trace.ScopePass, "discover")
	files, err := Collect(targets, cfg)
	discover.Set("files", strconv.Itoa(len(files))).End("")
	if err != nil {
		trace.Fail(ctx, trace.ScopePass, "discover", err.Error())
		return nil, err
	}

	fileSet := source.NewFileSetWithBase(opts.BaseDir)
	res := &Result{FileSet: fileSet, Files: make([]FileResult, len(files))}
	if len(files) == 0 {
		return res, nil
	}
	emitQueued(opts.Progress, files)

	w := &worker{
		opts:        opts,
		settings:    settings,
		fileSet:     fileSet,
		fingerprint: cfg.Fingerprint(),
		timeout:     pickTimeout(opts.Timeout, cfg),
	}

	passCtx, pass := trace.Start(ctx, trace.ScopePass, "files")

	// Результаты (индексы уникальны для каждой горутины, мьютекс не нужен)
	g, gctx := errgroup.WithContext(passCtx)
	g.SetLimit(min(resolveJobs(opts.Jobs, cfg), len(files)))
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res.Files[i] = w.file(gctx, path)
			return gctx.Err()
		})
	}
	err = g.Wait()
	pass.End("")
	if err != nil {
		return nil, err
	}
	return res, nil
}

func pickTimeout(flag time.Duration, cfg *config.Config) time.Duration {
	if flag > 0 {
		return flag
	}
	if cfg.Run.Timeout.Duration > 0 {
		return cfg.Run.Timeout.Duration
	}
	return config.DefaultTimeout
}

// worker holds what every file of a run shares. It is read-only once the
// run starts.
type worker struct {
	opts        Options
	settings    map[string]lint.Settings
	fileSet     *source.FileSet
	fingerprint config.Digest
	timeout     time.Duration
}

func (w *worker) file(ctx context.Context, path string) (out FileResult) {
	start := time.Now()
	out = FileResult{Path: path, Bag: diag.NewBag(w.opts.MaxDiagnostics)}

	ctx, span := trace.Start(trace.WithFile(ctx, path), trace.ScopeFile, "file")
	defer func() {
		span.Set("offenses", strconv.Itoa(len(out.Offenses))).End("")
	}()

	var timer *observ.Timer
	if w.opts.Timings {
		timer = observ.NewTimer()
		defer func() {
			report := timer.Report()
			out.Timing = &report
			addTimings(out.Bag, out.FileID, path, report)
		}()
	}

	id, err := w.fileSet.Load(path)
	if err != nil {
		out.Bag.Add(diag.NewError(diag.IOLoadFile, source.Span{}, "failed to load file: "+err.Error()))
		trace.Fail(ctx, trace.ScopeFile, "load", err.Error())
		w.emit(path, "", StatusError, err, start)
		return out
	}
	out.FileID = id
	file := w.fileSet.Get(id)

	if w.fromCache(file, &out) {
		w.emit(path, "", StatusCached, nil, start)
		return out
	}

	fctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	if w.opts.Autocorrect {
		w.correct(fctx, file, &out, timer)
	} else {
		offenses, ok := w.analyze(fctx, path, file, out.Bag, timer, false)
		out.Offenses = offenses
		if ok && !out.Bag.HasErrors() {
			w.toCache(file, out.Offenses)
		}
	}

	if out.Bag.HasErrors() {
		w.emit(path, "", StatusError, nil, start)
	} else {
		w.emit(path, "", StatusDone, nil, start)
	}
	return out
}

// analyze parses file and runs the rules once; path labels progress events.
// ok is false when the file could not be inspected; the reason is already in
// bag.
func (w *worker) analyze(ctx context.Context, path string, file *source.File, bag *diag.Bag, timer *observ.Timer, autocorrect bool) (offenses []lint.Offense, ok bool) {
	maxErrors, err := safecast.Conv[uint](w.opts.MaxDiagnostics)
	if err != nil {
		maxErrors = 0
	}

	w.emit(path, StageParse, StatusWorking, nil, time.Time{})
	idx := timer.Begin("parse")
	parsed, err := parser.ParseFile(ctx, file, parser.Options{
		MaxErrors: maxErrors,
		Reporter:  diag.BagReporter{Bag: bag},
	})
	timer.End(idx, "")
	if err != nil {
		w.failed(ctx, bag, file, err)
		return nil, false
	}

	set, err := w.opts.Registry.Instantiate(w.settings)
	if err != nil {
		bag.Add(diag.NewError(diag.ConfigInvalid, file.Span(), err.Error()))
		return nil, false
	}

	w.emit(path, StageInspect, StatusWorking, nil, time.Time{})
	idx = timer.Begin("inspect")
	engine := lint.NewEngine(set, lint.Options{
		Autocorrect:    autocorrect,
		MaxDiagnostics: w.opts.MaxDiagnostics,
	})
	run, err := engine.Run(ctx, parsed.Tree)
	if err != nil {
		timer.End(idx, "interrupted")
		w.failed(ctx, bag, file, err)
		return nil, false
	}
	timer.End(idx, fmt.Sprintf("%d nodes", run.Nodes))
	bag.Merge(run.Diagnostics)
	return run.Offenses, true
}

// failed turns a parse or engine error into a diagnostic. A cancelled run
// adds nothing: the whole run is aborted anyway.
func (w *worker) failed(ctx context.Context, bag *diag.Bag, file *source.File, err error) {
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		msg := fmt.Sprintf("inspection timed out after %s", w.timeout)
		bag.Add(diag.NewError(diag.FileTimeout, file.Span(), msg))
		trace.Fail(ctx, trace.ScopeFile, "timeout", msg)
		return
	case ctx.Err() != nil:
		return
	}
	trace.Fail(ctx, trace.ScopeFile, "analyze", err.Error())
	switch {
	case errors.Is(err, parser.ErrFileTooLarge):
		bag.Add(diag.NewError(diag.ParseFileTooLarge, source.Span{File: file.ID}, err.Error()))
	case errors.Is(err, parser.ErrInvalidContent):
		bag.Add(diag.NewError(diag.ParseInvalidText, source.Span{File: file.ID}, err.Error()))
	default:
		bag.Add(diag.NewError(diag.ParseError, file.Span(), err.Error()))
	}
}

func (w *worker) fromCache(file *source.File, out *FileResult) bool {
	if w.opts.Cache == nil || w.opts.Autocorrect {
		return false
	}
	var payload CachePayload
	hit, err := w.opts.Cache.Get(Key(file.Hash, w.fingerprint), &payload)
	if err != nil || !hit {
		return false
	}
	offenses := payloadToOffenses(&payload, file)
	if offenses == nil {
		return false
	}
	out.Offenses = offenses
	out.Cached = true
	return true
}

func (w *worker) toCache(file *source.File, offenses []lint.Offense) {
	if w.opts.Cache == nil {
		return
	}
	// кэш только ускоряет, ошибка записи не портит результат
	_ = w.opts.Cache.Put(Key(file.Hash, w.fingerprint), offensesToPayload(file.Path, offenses))
}

func (w *worker) emit(path string, stage Stage, status Status, err error, start time.Time) {
	evt := Event{File: path, Stage: stage, Status: status, Err: err}
	if !start.IsZero() {
		evt.Elapsed = time.Since(start)
	}
	emit(w.opts.Progress, evt)
}
