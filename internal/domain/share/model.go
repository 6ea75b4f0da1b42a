// Package share resolves anonymous read-only project views by share token.
package share

import (
	"time"

	"github.com/rpggio/revtrack/internal/domain/project"
	"github.com/rpggio/revtrack/internal/domain/revision"
	"github.com/rpggio/revtrack/internal/domain/scope"
)

// Snapshot is what the store returns for a token: the project and its revisions
// in creation order.
type Snapshot struct {
	Project   project.Project
	Revisions []revision.Revision
}

// View is the public projection of a shared project. It carries no owner identity.
type View struct {
	Project   SharedProject    `json:"project"`
	Revisions []SharedRevision `json:"revisions"`
	Scope     scope.Summary    `json:"scope"`
}

// SharedProject is the subset of project fields visible to token holders.
type SharedProject struct {
	Name              string    `json:"name"`
	ClientName        string    `json:"client_name"`
	Scope             string    `json:"scope"`
	RevisionLimit     int       `json:"revision_limit"`
	ExtraRevisionCost string    `json:"extra_revision_cost"`
	CreatedAt         time.Time `json:"created_at"`
}

// SharedRevision is a revision as shown on the shared page.
type SharedRevision struct {
	Note      string    `json:"note"`
	CreatedAt time.Time `json:"created_at"`
}
