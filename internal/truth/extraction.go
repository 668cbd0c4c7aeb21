package truth

// Extraction is the outcome of reading one report.
type Extraction struct {
	Records Records

	// TableFound is false when no table title in the report matched; the
	// extraction is then empty and Diagnostics says why.
	TableFound bool

	// Skipped holds per-period failures that were recovered by dropping
	// the period from Records.
	Skipped []error

	Diagnostics []error
}

// Empty reports whether the extraction produced no records.
func (e *Extraction) Empty() bool {
	return e == nil || len(e.Records) == 0
}
