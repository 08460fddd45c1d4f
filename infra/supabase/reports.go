package supabase

import (
	"context"
	"net/http"
	"time"

	"github.com/mathfra-rgb/cancelme-mvp/domain"
)

const reportsTable = "/rest/v1/reports"

type newReportRow struct {
	PostID              string  `json:"post_id"`
	Reason              *string `json:"reason"`
	ReporterFingerprint string  `json:"reporter_fingerprint"`
	ReporterName        *string `json:"reporter_name"`
}

type reportStampRow struct {
	PostID    string    `json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}

// reportService implements app.ReportService. Reports are write-only apart
// from the (post_id, created_at) pairs used for auto-hide.
type reportService struct {
	client *Client
}

// NewReportService creates a ReportService backed by the project.
func NewReportService(client *Client) *reportService {
	return &reportService{client: client}
}

func (s *reportService) InsertReport(ctx context.Context, r domain.Report) error {
	resp, err := s.client.r(ctx).
		SetHeader("Prefer", "return=minimal").
		SetBody([]newReportRow{{
			PostID:              r.PostID,
			Reason:              nullable(r.Reason),
			ReporterFingerprint: r.ReporterFingerprint,
			ReporterName:        nullable(r.ReporterName),
		}}).
		Post(reportsTable)
	return check(resp, err, http.MethodPost, reportsTable)
}

func (s *reportService) QueryReports(ctx context.Context, postIDs []string, since time.Time) ([]domain.ReportStamp, error) {
	if len(postIDs) == 0 {
		return nil, nil
	}
	var rows []reportStampRow
	resp, err := s.client.r(ctx).
		SetQueryParam("select", "post_id,created_at").
		SetQueryParam("created_at", "gte."+timestamp(since)).
		SetQueryParam("post_id", inList(postIDs)).
		SetResult(&rows).
		Get(reportsTable)
	if err := check(resp, err, http.MethodGet, reportsTable); err != nil {
		return nil, err
	}
	stamps := make([]domain.ReportStamp, 0, len(rows))
	for _, r := range rows {
		stamps = append(stamps, domain.ReportStamp{PostID: r.PostID, CreatedAt: r.CreatedAt})
	}
	return stamps, nil
}
