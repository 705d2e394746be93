package driver

import (
	"context"
	"runtime"
	"strconv"
	"time"

	"fortio.org/safecast"
	"golang.org/x/sync/errgroup"

	"rubric/internal/config"
	"rubric/internal/diag"
	"rubric/internal/metrics"
	"rubric/internal/parser"
	"rubric/internal/rules"
	"rubric/internal/source"
	"rubric/internal/trace"
)

// MeasureResult содержит ABC-векторы методов одного файла
type MeasureResult struct {
	Path   string        // путь, как его вернул Collect
	FileID source.FileID // ID файла в FileSet
	Units  []metrics.Unit
	Bag    *diag.Bag
}

// MeasureOptions configures Measure.
type MeasureOptions struct {
	Config         *config.Config
	Jobs           int
	Timeout        time.Duration
	MaxDiagnostics int
	// IteratingMethods extends the default iterating set. When nil, the
	// Metrics/AbcSize setting from Config is used.
	IteratingMethods []string
	Progress         ProgressSink
	BaseDir          string
}

// Measure scores every method-like definition under targets, in parallel.
func Measure(ctx context.Context, targets []string, opts MeasureOptions) (*source.FileSet, []MeasureResult, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	iterating := opts.IteratingMethods
	if iterating == nil {
		iterating = cfg.Rules[rules.AbcSizeName].IteratingMethods
	}

	ctx, span := trace.Start(ctx, trace.ScopeDriver, "measure")
	defer span.End("")

	files, err := Collect(targets, cfg)
	if err != nil {
		trace.Fail(ctx, trace.ScopePass, "discover", err.Error())
		return nil, nil, err
	}
	span.Set("files", strconv.Itoa(len(files)))
	fileSet := source.NewFileSetWithBase(opts.BaseDir)
	if len(files) == 0 {
		return fileSet, nil, nil
	}
	emitQueued(opts.Progress, files)

	maxErrors, err := safecast.Conv[uint](opts.MaxDiagnostics)
	if err != nil {
		maxErrors = 0
	}
	timeout := pickTimeout(opts.Timeout, cfg)

	// Результаты (индексы уникальны для каждой горутины, мьютекс не нужен)
	results := make([]MeasureResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(resolveJobs(opts.Jobs, cfg), len(files)))
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			bag := diag.NewBag(opts.MaxDiagnostics)
			results[i] = MeasureResult{Path: path, Bag: bag}
			fctx, fspan := trace.Start(trace.WithFile(gctx, path), trace.ScopeFile, "measure")
			defer func() { fspan.Set("units", strconv.Itoa(len(results[i].Units))).End("") }()

			fileID, err := fileSet.Load(path)
			if err != nil {
				bag.Add(diag.NewError(diag.IOLoadFile, source.Span{}, "failed to load file: "+err.Error()))
				trace.Fail(fctx, trace.ScopeFile, "load", err.Error())
				emit(opts.Progress, Event{File: path, Status: StatusError, Err: err, Elapsed: time.Since(start)})
				return nil
			}
			results[i].FileID = fileID
			file := fileSet.Get(fileID)

			fctx, cancel := context.WithTimeout(fctx, timeout)
			defer cancel()
			emit(opts.Progress, Event{File: path, Stage: StageParse, Status: StatusWorking})
			parsed, err := parser.ParseFile(fctx, file, parser.Options{
				MaxErrors: maxErrors,
				Reporter:  diag.BagReporter{Bag: bag},
			})
			if err != nil {
				w := worker{timeout: timeout}
				w.failed(fctx, bag, file, err)
				emit(opts.Progress, Event{File: path, Status: StatusError, Err: err, Elapsed: time.Since(start)})
				return gctx.Err()
			}

			calc := metrics.NewAbcCalculator(metrics.WithIteratingMethods(iterating...))
			if parsed.Tree.Root != nil {
				results[i].Units = calc.Units(parsed.Tree.Root)
			}
			emit(opts.Progress, Event{File: path, Status: StatusDone, Elapsed: time.Since(start)})
			return gctx.Err()
		})
	}

	if err := g.Wait(); err != nil {
		return fileSet, results, err
	}
	return fileSet, results, nil
}

// resolveJobs: флаг, затем [run].jobs, затем GOMAXPROCS.
func resolveJobs(flag int, cfg *config.Config) int {
	if flag > 0 {
		return flag
	}
	if cfg != nil && cfg.Run.Jobs > 0 {
		return cfg.Run.Jobs
	}
	return runtime.GOMAXPROCS(0)
}
