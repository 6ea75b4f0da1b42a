package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `revtrack tracks client revisions for freelance projects.

Core concepts:
- Project: a client engagement with a revision_limit (included revisions) and an
  informational extra_revision_cost.
- Revision: one logged client change request. A project never holds more revisions than
  its limit; record_revision is refused with scope_exceeded once the limit is reached.
- Scope status: "Within Scope", "Last Free Revision" (one left) or "Out of Scope" (none left).
- Plan: free accounts may own a limited number of projects (quota_exceeded beyond that);
  paid accounts are unlimited. get_entitlement reports the plan.
- Share token: each project has a token that gives anyone a read-only view via
  get_shared_project. The view never includes the owner.

Typical workflow:
1) list_projects to orient.
2) get_project before recording so you know how many revisions remain.
3) record_revision with a short note describing the requested change.
4) When the status is "Out of Scope", tell the user further changes are billable extras.

Docs:
- revtrack://docs/index
- revtrack://docs/errors
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "revtrack://docs/index",
		Name:        "docs_index",
		Title:       "revtrack docs index",
		Description: "Tools, scope statuses and plan limits.",
		Content: `# revtrack

## Tools

- ` + "`create_project`" + ` name, revision_limit (>= 1), optional client_name, scope, extra_revision_cost.
- ` + "`list_projects`" + ` your projects, newest first, with revision_count and status.
- ` + "`get_project`" + ` one project with its revisions, oldest first.
- ` + "`record_revision`" + ` project_id and note. Returns the new revision and the updated scope summary.
- ` + "`get_shared_project`" + ` token. Public view of a project.
- ` + "`get_entitlement`" + ` free or pro.

## Scope status

| used vs limit | status |
|---|---|
| used <= limit - 2 | Within Scope |
| used == limit - 1 | Last Free Revision |
| used >= limit | Out of Scope |
`,
	},
	{
		URI:         "revtrack://docs/errors",
		Name:        "docs_errors",
		Title:       "revtrack error codes",
		Description: "Error codes returned by tools and what to do about them.",
		Content: `# Error codes

Tool errors are returned as ` + "`{\"code\": ..., \"message\": ...}`" + ` with isError set.

- ` + "`unauthenticated`" + ` missing or invalid bearer token.
- ` + "`invalid_input`" + ` a field failed validation; the message names it.
- ` + "`quota_exceeded`" + ` free plan project limit reached. Upgrading removes the limit.
- ` + "`scope_exceeded`" + ` the project's revision limit is reached. Nothing was recorded.
- ` + "`not_found`" + ` unknown project or share token.
- ` + "`store_unavailable`" + ` temporary storage failure. Safe to retry.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		doc := doc

		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
