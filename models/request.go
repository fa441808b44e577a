package models

// IngestRequest asks the server to ingest a single file or a directory.
type IngestRequest struct {
	Path string `json:"path" binding:"required"`
}
