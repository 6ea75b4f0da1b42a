package revision

import (
	"time"

	"github.com/rpggio/revtrack/internal/domain/project"
	"github.com/rpggio/revtrack/internal/domain/scope"
)

// Revision is one logged client change request.
type Revision struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	Note      string    `json:"note"`
	CreatedAt time.Time `json:"created_at"`
}

// RecordResult is the outcome of a successful revision-recording gate.
type RecordResult struct {
	Revision Revision      `json:"revision"`
	Scope    scope.Summary `json:"scope"`
}

// Timeline is a project with its revisions in creation order.
type Timeline struct {
	Project   project.Project `json:"project"`
	Revisions []Revision      `json:"revisions"`
	Scope     scope.Summary   `json:"scope"`
}
