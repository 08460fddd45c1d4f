package supabase

import (
	"github.com/mathfra-rgb/cancelme-mvp/app"
)

// Store bundles every service of a project.
type Store struct {
	*postService
	*commentService
	*reportService
	*counterService
}

var _ app.Store = Store{}

// NewStore wires all services over one client.
func NewStore(client *Client) Store {
	return Store{
		postService:    NewPostService(client),
		commentService: NewCommentService(client),
		reportService:  NewReportService(client),
		counterService: NewCounterService(client),
	}
}
