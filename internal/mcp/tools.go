package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/revtrack/internal/domain/account"
	"github.com/rpggio/revtrack/internal/domain/project"
	"github.com/rpggio/revtrack/internal/domain/revision"
	"github.com/rpggio/revtrack/internal/domain/scope"
	"github.com/rpggio/revtrack/internal/metrics"
	"github.com/rpggio/revtrack/internal/transport"
)

// toolGetSharedProject is callable without a bearer token.
const toolGetSharedProject = "get_shared_project"

// CreateProjectParams is the input of the create_project tool.
type CreateProjectParams struct {
	Name              string  `json:"name" jsonschema:"project display name"`
	ClientName        string  `json:"client_name,omitempty" jsonschema:"client the work is for"`
	Scope             string  `json:"scope,omitempty" jsonschema:"agreed scope of work"`
	RevisionLimit     int     `json:"revision_limit" jsonschema:"number of included revisions, at least 1"`
	ExtraRevisionCost float64 `json:"extra_revision_cost,omitempty" jsonschema:"informational price per revision beyond the limit"`
}

// ListProjectsParams is the input of list_projects, which takes no arguments.
type ListProjectsParams struct{}

// GetProjectParams selects the project whose timeline get_project returns.
type GetProjectParams struct {
	ID string `json:"id" jsonschema:"project ID"`
}

// RecordRevisionParams is the input of the record_revision gate.
type RecordRevisionParams struct {
	ProjectID string `json:"project_id" jsonschema:"project ID"`
	Note      string `json:"note" jsonschema:"what the client asked to change"`
}

// GetSharedProjectParams carries the share token for the anonymous read view.
type GetSharedProjectParams struct {
	Token string `json:"token" jsonschema:"share token from the project's share link"`
}

// GetEntitlementParams is the input of get_entitlement, which takes no arguments.
type GetEntitlementParams struct{}

// ProjectResponse is a project as returned by the tools.
type ProjectResponse struct {
	*project.Project
	ExtraRevisionCost string `json:"extra_revision_cost"`
}

// TimelineResponse is a project with its revisions and scope summary.
type TimelineResponse struct {
	Project   ProjectResponse     `json:"project"`
	Revisions []revision.Revision `json:"revisions"`
	Scope     scope.Summary       `json:"scope"`
}

func registerTools(server *sdkmcp.Server, svc Services) {
	t := &tools{svc: svc}

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_project",
		Description: "Create a project with a fixed number of included revisions. Free accounts are limited in how many projects they may own.",
	}, t.createProject)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_projects",
		Description: "List your projects, newest first, with revision counts and scope status",
	}, t.listProjects)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_project",
		Description: "Get a project with its revisions in the order they were recorded",
	}, t.getProject)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "record_revision",
		Description: "Record a client revision request. Refused once the project's revision limit is reached.",
	}, t.recordRevision)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        toolGetSharedProject,
		Description: "Read the public view of a project by its share token",
	}, t.getSharedProject)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_entitlement",
		Description: "Show whether your account is on the free or paid plan",
	}, t.getEntitlement)
}

type tools struct {
	svc Services
}

func (t *tools) createProject(ctx context.Context, _ *sdkmcp.CallToolRequest, in CreateProjectParams) (*sdkmcp.CallToolResult, any, error) {
	proj, err := t.svc.Projects.Create(ctx, principal(ctx), project.CreateRequest{
		Name:              in.Name,
		ClientName:        in.ClientName,
		Scope:             in.Scope,
		RevisionLimit:     in.RevisionLimit,
		ExtraRevisionCost: in.ExtraRevisionCost,
	})
	metrics.ObserveGate(metrics.GateProject, transport.Outcome(err))
	if err != nil {
		return toolError(err), nil, nil
	}
	res, err := toolResult(ProjectResponse{Project: proj, ExtraRevisionCost: proj.ExtraRevisionCost()})
	return res, nil, err
}

func (t *tools) listProjects(ctx context.Context, _ *sdkmcp.CallToolRequest, _ ListProjectsParams) (*sdkmcp.CallToolResult, any, error) {
	list, err := t.svc.Projects.List(ctx, principal(ctx))
	if err != nil {
		return toolError(err), nil, nil
	}
	if list == nil {
		list = []project.ProjectSummary{}
	}
	res, err := toolResult(map[string]any{"projects": list})
	return res, nil, err
}

func (t *tools) getProject(ctx context.Context, _ *sdkmcp.CallToolRequest, in GetProjectParams) (*sdkmcp.CallToolResult, any, error) {
	tl, err := t.svc.Revisions.Timeline(ctx, principal(ctx), in.ID)
	if err != nil {
		return toolError(err), nil, nil
	}
	res, err := toolResult(TimelineResponse{
		Project:   ProjectResponse{Project: &tl.Project, ExtraRevisionCost: tl.Project.ExtraRevisionCost()},
		Revisions: tl.Revisions,
		Scope:     tl.Scope,
	})
	return res, nil, err
}

func (t *tools) recordRevision(ctx context.Context, _ *sdkmcp.CallToolRequest, in RecordRevisionParams) (*sdkmcp.CallToolResult, any, error) {
	out, err := t.svc.Revisions.Record(ctx, principal(ctx), revision.RecordRequest{
		ProjectID: in.ProjectID,
		Note:      in.Note,
	})
	metrics.ObserveGate(metrics.GateRevision, transport.Outcome(err))
	if err != nil {
		return toolError(err), nil, nil
	}
	res, err := toolResult(out)
	return res, nil, err
}

func (t *tools) getSharedProject(ctx context.Context, _ *sdkmcp.CallToolRequest, in GetSharedProjectParams) (*sdkmcp.CallToolResult, any, error) {
	view, err := t.svc.Share.Resolve(ctx, in.Token)
	metrics.ObserveGate(metrics.GateShare, transport.Outcome(err))
	if err != nil {
		return toolError(err), nil, nil
	}
	res, err := toolResult(view)
	return res, nil, err
}

func (t *tools) getEntitlement(ctx context.Context, _ *sdkmcp.CallToolRequest, _ GetEntitlementParams) (*sdkmcp.CallToolResult, any, error) {
	p := principal(ctx)
	if !p.Authenticated() {
		return toolError(account.ErrUnauthenticated), nil, nil
	}
	status, err := t.svc.Entitlements.Status(ctx, p.AccountID)
	if err != nil {
		return toolError(err), nil, nil
	}
	res, err := toolResult(status)
	return res, nil, err
}
