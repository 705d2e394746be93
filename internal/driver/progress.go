package driver

import "time"

// Stage is the per-file phase a worker is in.
type Stage string

const (
	StageParse   Stage = "parse"
	StageInspect Stage = "inspect"
	// StageCorrect covers every autocorrect round, re-inspection included.
	StageCorrect Stage = "correct"
)

// Verb names the stage while it runs, e.g. "parsing".
func (s Stage) Verb() string {
	switch s {
	case StageParse:
		return "parsing"
	case StageInspect:
		return "inspecting"
	case StageCorrect:
		return "correcting"
	}
	return ""
}

// Share estimates the part of a file's work done once the stage starts.
func (s Stage) Share() float64 {
	switch s {
	case StageParse:
		return 0.2
	case StageInspect:
		return 0.5
	case StageCorrect:
		return 0.8
	}
	return 0
}

// Status is where a file stands within its stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	// StatusCached: offenses came from the result cache, nothing was parsed.
	StatusCached Status = "cached"
	StatusError  Status = "error"
)

// Final reports whether the file emits no further events.
func (s Status) Final() bool {
	return s == StatusDone || s == StatusCached || s == StatusError
}

// Event is a progress update for one file. Err and Elapsed are set on final
// events only.
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink receives events from worker goroutines concurrently.
type ProgressSink interface {
	OnEvent(Event)
}

// SinkFunc adapts a function to ProgressSink.
type SinkFunc func(Event)

func (f SinkFunc) OnEvent(ev Event) { f(ev) }

// ChanSink sends every event to ch, blocking while ch is full.
func ChanSink(ch chan<- Event) ProgressSink {
	return SinkFunc(func(ev Event) { ch <- ev })
}

func emit(sink ProgressSink, ev Event) {
	if sink != nil {
		sink.OnEvent(ev)
	}
}

func emitQueued(sink ProgressSink, files []string) {
	for _, f := range files {
		emit(sink, Event{File: f, Status: StatusQueued})
	}
}
