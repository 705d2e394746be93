package diagfmt

import (
	"encoding/json"
	"io"
	"strings"

	"rubric/internal/diag"
	"rubric/internal/source"
)

// LocationJSON представляет местоположение в файле для JSON
type LocationJSON struct {
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	StartLine uint32 `json:"start_line"`
	StartCol  uint32 `json:"start_column"`
	EndLine   uint32 `json:"end_line"`
	EndCol    uint32 `json:"end_column"`
}

// NoteJSON представляет дополнительную заметку для JSON
type NoteJSON struct {
	Message string `json:"message"`
}

// OffenseJSON is one offense of a file.
type OffenseJSON struct {
	Severity    string       `json:"severity"`
	Message     string       `json:"message"`
	RuleName    string       `json:"cop_name"`
	Corrected   bool         `json:"corrected"`
	Correctable bool         `json:"correctable"`
	Location    LocationJSON `json:"location"`
}

// DiagnosticJSON представляет диагностику в JSON формате
type DiagnosticJSON struct {
	Severity string        `json:"severity"`
	Code     string        `json:"code"`
	Message  string        `json:"message"`
	Location *LocationJSON `json:"location,omitempty"`
	Notes    []NoteJSON    `json:"notes,omitempty"`
}

// FileJSON groups the findings of one file.
type FileJSON struct {
	Path        string           `json:"path"`
	Offenses    []OffenseJSON    `json:"offenses"`
	Diagnostics []DiagnosticJSON `json:"diagnostics,omitempty"`
}

// SummaryJSON mirrors Summary.
type SummaryJSON struct {
	OffenseCount       int `json:"offense_count"`
	CorrectedCount     int `json:"corrected_count"`
	CorrectableCount   int `json:"correctable_count"`
	ErrorCount         int `json:"error_count"`
	InspectedFileCount int `json:"inspected_file_count"`
}

// MetadataJSON describes the producing tool.
type MetadataJSON struct {
	Version string `json:"rubric_version,omitempty"`
}

// OutputJSON представляет корневую структуру JSON вывода
type OutputJSON struct {
	Metadata MetadataJSON `json:"metadata"`
	Files    []FileJSON   `json:"files"`
	Summary  SummaryJSON  `json:"summary"`
}

func makeLocation(fs *source.FileSet, span source.Span) LocationJSON {
	if fs == nil {
		return LocationJSON{StartByte: span.Start, EndByte: span.End}
	}
	start, end := fs.Resolve(span)
	return LocationJSON{
		StartByte: span.Start,
		EndByte:   span.End,
		StartLine: start.Line,
		StartCol:  start.Col,
		EndLine:   end.Line,
		EndCol:    end.Col,
	}
}

func severityName(s diag.Severity) string {
	return strings.ToLower(s.String())
}

// BuildOutput формирует структуру JSON-вывода без сериализации.
func BuildOutput(fs *source.FileSet, reports []FileReport, opts JSONOpts) OutputJSON {
	base := ""
	if fs != nil {
		base = fs.BaseDir()
	}
	sum := Summarize(reports)
	out := OutputJSON{
		Metadata: MetadataJSON{Version: opts.Version},
		Files:    make([]FileJSON, 0, len(reports)),
		Summary: SummaryJSON{
			OffenseCount:       sum.Offenses,
			CorrectedCount:     sum.Corrected,
			CorrectableCount:   sum.Correctable,
			ErrorCount:         sum.Errors,
			InspectedFileCount: sum.Files,
		},
	}

	for _, r := range reports {
		file := FileJSON{
			Path:     displayPath(r.Path, opts.PathMode, base),
			Offenses: make([]OffenseJSON, 0, len(r.Entries)),
		}
		entries := r.Entries
		if opts.Max > 0 && opts.Max < len(entries) {
			entries = entries[:opts.Max]
		}
		for _, e := range entries {
			if e.Offense {
				file.Offenses = append(file.Offenses, OffenseJSON{
					Severity:    severityName(e.Severity),
					Message:     e.Message,
					RuleName:    e.Code,
					Corrected:   e.Corrected,
					Correctable: e.Correctable,
					Location:    makeLocation(fs, e.Span),
				})
				continue
			}
			d := DiagnosticJSON{
				Severity: severityName(e.Severity),
				Code:     e.Code,
				Message:  e.Message,
			}
			if e.Located && fs != nil {
				loc := makeLocation(fs, e.Span)
				d.Location = &loc
			}
			includeNotes := opts.IncludeNotes || e.Code == diag.ObsTimings.ID()
			if includeNotes && len(e.Notes) > 0 {
				d.Notes = make([]NoteJSON, len(e.Notes))
				for j, note := range e.Notes {
					d.Notes[j] = NoteJSON{Message: note.Msg}
				}
			}
			file.Diagnostics = append(file.Diagnostics, d)
		}
		out.Files = append(out.Files, file)
	}
	return out
}

// JSON форматирует результат проверки в JSON.
func JSON(w io.Writer, fs *source.FileSet, reports []FileReport, opts JSONOpts) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildOutput(fs, reports, opts))
}
