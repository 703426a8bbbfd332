package model

// SyncResult summarizes one reconciliation of a record set against a table.
type SyncResult struct {
	Table      string `json:"table"`
	Received   int    `json:"received"`
	Appended   int    `json:"appended"`
	Present    int    `json:"present"`
	Duplicates int    `json:"duplicates"`
	Collisions int    `json:"collisions"`
	Skipped    int    `json:"skipped"`
}

// Merge folds another result for the same table into r.
func (r *SyncResult) Merge(other SyncResult) {
	if r.Table == "" {
		r.Table = other.Table
	}
	r.Received += other.Received
	r.Appended += other.Appended
	r.Present += other.Present
	r.Duplicates += other.Duplicates
	r.Collisions += other.Collisions
	r.Skipped += other.Skipped
}
