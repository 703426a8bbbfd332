package model

// IngestRequestDTO triggers a pipeline run. Empty Cities falls back to the configured list,
// empty Entities runs every stage.
type IngestRequestDTO struct {
	Cities   []string `json:"cities"`
	Entities []string `json:"entities"`
}

// IngestResponseDTO reports one result per synchronized table.
type IngestResponseDTO struct {
	RequestID string       `json:"requestId"`
	Results   []SyncResult `json:"results"`
}

// SyncEventDTO is published to the events queue after rows were appended.
type SyncEventDTO struct {
	RequestID string     `json:"requestId"`
	Result    SyncResult `json:"result"`
}

// RunFailedEventDTO is published when a stage aborts a run. Results holds what was
// synchronized before the failing stage, the failing stage included.
type RunFailedEventDTO struct {
	RequestID string       `json:"requestId"`
	Stage     string       `json:"stage"`
	Error     string       `json:"error"`
	Results   []SyncResult `json:"results"`
}
