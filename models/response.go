package models

// IngestResponse reports the outcome of ingesting a single file.
type IngestResponse struct {
	Records int    `json:"records"`
	Error   string `json:"error,omitempty"`
}

// FileFailure records one file that could not be ingested during a
// directory walk, together with the reason.
type FileFailure struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// BatchIngestResult aggregates per-file outcomes of a directory
// ingestion. Failures are reported, not swallowed, and never abort the
// remaining files.
type BatchIngestResult struct {
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Records   int           `json:"records"`
	Failures  []FileFailure `json:"failures,omitempty"`
}

// ListRecordsResponse is the structure for the GET /api/v1/records endpoint.
type ListRecordsResponse struct {
	Count   int            `json:"count"`
	Records []StoredRecord `json:"records"`
}
