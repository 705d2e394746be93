package driver

import (
	"encoding/json"
	"fmt"

	"rubric/internal/diag"
	"rubric/internal/observ"
	"rubric/internal/source"
)

// addTimings stores a file's phase report in bag as an OBS6001 info
// diagnostic whose only note is the report in JSON.
func addTimings(bag *diag.Bag, file source.FileID, path string, r observ.Report) {
	if bag == nil || len(r.Phases) == 0 {
		return
	}
	data, err := json.Marshal(struct {
		Path string `json:"path"`
		observ.Report
	}{path, r})
	if err != nil {
		return
	}
	span := source.Span{File: file}
	d := diag.New(diag.SevInfo, diag.ObsTimings, span, fmt.Sprintf("timings: total %.2f ms", r.TotalMS)).
		WithNote(span, string(data))
	// лимит не должен съедать тайминги
	bag.Force(d)
}
