package driver

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"rubric/internal/diag"
	"rubric/internal/fix"
	"rubric/internal/lint"
	"rubric/internal/observ"
	"rubric/internal/source"
	"rubric/internal/trace"
)

// MaxIterations bounds the inspect-correct loop for one file.
const MaxIterations = 10

// Autocorrect is Inspect with corrections applied and written back.
func Autocorrect(ctx context.Context, targets []string, opts Options) (*Result, error) {
	opts.Autocorrect = true
	return Inspect(ctx, targets, opts)
}

// correct inspects file, applies the corrections and repeats on the new
// content until no script applies. Each round adds a version of the file to
// the FileSet. The file is written once, after the loop.
func (w *worker) correct(ctx context.Context, file *source.File, out *FileResult, timer *observ.Timer) {
	original := file
	// конфликты последнего раунда; следующий раунд их переисправляет
	var conflicts []diag.Diagnostic
	// раунды повторяют одни и те же диагностики
	report := diag.NewDedupReporter(diag.BagReporter{Bag: out.Bag})

	for iteration := 0; ; iteration++ {
		round := diag.NewBag(0)
		offenses, ok := w.analyze(ctx, out.Path, file, round, timer, true)
		diag.ReportAll(report, round)
		if !ok {
			out.Offenses = nil
			break
		}
		out.Offenses = offenses

		scripts := lint.Scripts(offenses)
		if len(scripts) == 0 {
			break
		}
		if iteration == MaxIterations {
			msg := fmt.Sprintf("corrections did not converge after %d iterations", MaxIterations)
			out.Bag.Add(diag.NewWarning(diag.FixNotConverge, file.Span(), msg))
			trace.Note(ctx, trace.ScopeFile, "correct.not_converged", msg)
			for _, d := range conflicts {
				out.Bag.Add(d)
			}
			break
		}

		w.emit(out.Path, StageCorrect, StatusWorking, nil, time.Time{})
		idx := timer.Begin("correct")
		applied, err := fix.Apply(file.Content, scripts)
		timer.End(idx, strconv.Itoa(len(applied.Applied))+" applied")
		conflicts = conflicts[:0]
		for _, s := range applied.Skipped {
			if s.Code == diag.FixConflict {
				conflicts = append(conflicts, s.Diagnostic())
				continue
			}
			report.Report(s.Diagnostic())
		}
		if errors.Is(err, fix.ErrNoFixes) {
			break
		}
		out.Corrections = append(out.Corrections, applied.Applied...)
		out.Corrected = append(out.Corrected, correctedOffenses(offenses, applied.Applied)...)

		id := w.fileSet.Add(file.Path, applied.Content, file.Flags)
		file = w.fileSet.Get(id)
		out.FileID = id
	}

	if file == original {
		return
	}
	if err := fix.WriteFile(out.Path, source.Denormalize(file.Content, file.Flags)); err != nil {
		out.Bag.Add(diag.NewError(diag.IOWriteFile, source.Span{File: file.ID}, err.Error()))
	}
}

type fixKey struct {
	rule string
	span source.Span
}

// correctedOffenses picks the offenses whose scripts were applied. A script
// is known by its rule and the span it covers.
func correctedOffenses(offenses []lint.Offense, applied []fix.AppliedFix) []lint.Offense {
	done := make(map[fixKey]int, len(applied))
	for _, a := range applied {
		done[fixKey{a.Rule, a.Span}]++
	}
	var out []lint.Offense
	for _, o := range offenses {
		if o.Correction == nil {
			continue
		}
		key := fixKey{o.Rule, o.Correction.Span()}
		if done[key] > 0 {
			done[key]--
			out = append(out, o)
		}
	}
	return out
}
