package domain

import "time"

// Report flags a post for community moderation. Write-only from the client.
type Report struct {
	PostID              string    `json:"post_id"`
	Reason              string    `json:"reason,omitempty"`
	ReporterFingerprint string    `json:"reporter_fingerprint"`
	ReporterName        string    `json:"reporter_name,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
}

// ReportStamp is the projection read back for threshold evaluation.
type ReportStamp struct {
	PostID    string    `json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}
