package diag

// Reporter получает диагностики по мере их появления.
type Reporter interface {
	Report(d Diagnostic)
}

// BagReporter adds to Bag; a nil Bag discards.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(d Diagnostic) {
	if r.Bag != nil {
		r.Bag.Add(d)
	}
}

// ReportAll sends every diagnostic of bag to r.
func ReportAll(r Reporter, bag *Bag) {
	for _, d := range bag.Items() {
		r.Report(d)
	}
}
