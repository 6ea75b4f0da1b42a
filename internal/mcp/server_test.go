package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/revtrack/internal/domain/account"
	"github.com/rpggio/revtrack/internal/domain/entitlement"
	"github.com/rpggio/revtrack/internal/domain/project"
	"github.com/rpggio/revtrack/internal/domain/revision"
	"github.com/rpggio/revtrack/internal/domain/scope"
	"github.com/rpggio/revtrack/internal/domain/share"
	"github.com/rpggio/revtrack/internal/repository"
	"github.com/rpggio/revtrack/internal/transport"
	"github.com/stretchr/testify/require"
)

type projectStub struct {
	createFn func(context.Context, account.Principal, project.CreateRequest) (*project.Project, error)
	listFn   func(context.Context, account.Principal) ([]project.ProjectSummary, error)
}

func (p projectStub) Create(ctx context.Context, pr account.Principal, req project.CreateRequest) (*project.Project, error) {
	return p.createFn(ctx, pr, req)
}
func (p projectStub) List(ctx context.Context, pr account.Principal) ([]project.ProjectSummary, error) {
	return p.listFn(ctx, pr)
}

type revisionStub struct {
	recordFn   func(context.Context, account.Principal, revision.RecordRequest) (*revision.RecordResult, error)
	timelineFn func(context.Context, account.Principal, string) (*revision.Timeline, error)
}

func (r revisionStub) Record(ctx context.Context, p account.Principal, req revision.RecordRequest) (*revision.RecordResult, error) {
	return r.recordFn(ctx, p, req)
}
func (r revisionStub) Timeline(ctx context.Context, p account.Principal, id string) (*revision.Timeline, error) {
	return r.timelineFn(ctx, p, id)
}

type entitlementStub struct{}

func (entitlementStub) Status(_ context.Context, accountID string) (entitlement.Status, error) {
	return entitlement.Status{AccountID: accountID, Plan: entitlement.PlanFree}, nil
}

type shareStub struct{}

func (shareStub) Resolve(_ context.Context, token string) (*share.View, error) {
	if token != "tok-live" {
		return nil, share.ErrNotFound
	}
	return &share.View{
		Project:   share.SharedProject{Name: "Logo", RevisionLimit: 3},
		Revisions: []share.SharedRevision{},
		Scope:     scope.Summarize(0, 3),
	}, nil
}

type tokenResolver map[string]string

func (r tokenResolver) Verify(token string) (account.Principal, error) {
	id, ok := r[token]
	if !ok {
		return account.Principal{}, account.ErrUnauthenticated
	}
	return account.Principal{AccountID: id, Email: id + "@example.com"}, nil
}

type bearerTransport struct {
	token string
	base  http.RoundTripper
}

func (t bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	if t.token != "" {
		req.Header.Set("Authorization", "Bearer "+t.token)
	}
	return t.base.RoundTrip(req)
}

func testServices() Services {
	return Services{
		Projects: projectStub{
			createFn: func(_ context.Context, p account.Principal, req project.CreateRequest) (*project.Project, error) {
				if p.AccountID == "acct-full" {
					return nil, project.ErrQuotaExceeded
				}
				return &project.Project{ID: "p1", AccountID: p.AccountID, Name: req.Name, RevisionLimit: req.RevisionLimit, ExtraRevisionCostCents: 2500}, nil
			},
			listFn: func(context.Context, account.Principal) ([]project.ProjectSummary, error) {
				return nil, nil
			},
		},
		Revisions: revisionStub{
			recordFn: func(_ context.Context, _ account.Principal, req revision.RecordRequest) (*revision.RecordResult, error) {
				if req.ProjectID == "full" {
					return nil, revision.ErrScopeExceeded
				}
				return &revision.RecordResult{
					Revision: revision.Revision{ID: "r1", ProjectID: req.ProjectID, Note: req.Note},
					Scope:    scope.Summarize(3, 3),
				}, nil
			},
			timelineFn: func(_ context.Context, _ account.Principal, id string) (*revision.Timeline, error) {
				if id == "down" {
					return nil, fmt.Errorf("listing revisions: %w", repository.ErrUnavailable)
				}
				return &revision.Timeline{
					Project:   project.Project{ID: id, RevisionLimit: 3},
					Revisions: []revision.Revision{},
					Scope:     scope.Summarize(0, 3),
				}, nil
			},
		},
		Entitlements: entitlementStub{},
		Share:        shareStub{},
	}
}

func connect(t *testing.T, token string) *sdkmcp.ClientSession {
	t.Helper()
	server := NewServer(Config{
		Services: testServices(),
		Resolver: tokenResolver{"good": "acct1", "full": "acct-full"},
	})
	httpServer := httptest.NewServer(NewHTTPHandler(server))
	t.Cleanup(httpServer.Close)

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test", Version: "v0"}, nil)
	cs, err := client.Connect(context.Background(), &sdkmcp.StreamableClientTransport{
		Endpoint:   httpServer.URL,
		HTTPClient: &http.Client{Transport: bearerTransport{token: token, base: http.DefaultTransport}},
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cs.Close() })
	return cs
}

func callTool(t *testing.T, cs *sdkmcp.ClientSession, name string, args map[string]any) (*sdkmcp.CallToolResult, map[string]any) {
	t.Helper()
	res, err := cs.CallTool(context.Background(), &sdkmcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(*sdkmcp.TextContent)
	require.True(t, ok)
	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(text.Text), &payload))
	return res, payload
}

func TestServer_ListsTools(t *testing.T) {
	cs := connect(t, "good")

	res, err := cs.ListTools(context.Background(), nil)
	require.NoError(t, err)
	var names []string
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	require.ElementsMatch(t, []string{
		"create_project", "list_projects", "get_project",
		"record_revision", "get_shared_project", "get_entitlement",
	}, names)
}

func TestServer_CreateProject(t *testing.T) {
	cs := connect(t, "good")

	res, payload := callTool(t, cs, "create_project", map[string]any{"name": "Logo", "revision_limit": 3})
	require.False(t, res.IsError)
	require.Equal(t, "p1", payload["id"])
	require.Equal(t, "25.00", payload["extra_revision_cost"])
}

func TestServer_ErrorCodesMatchHTTP(t *testing.T) {
	cs := connect(t, "full")

	res, payload := callTool(t, cs, "create_project", map[string]any{"name": "Logo", "revision_limit": 3})
	require.True(t, res.IsError)
	require.Equal(t, transport.CodeQuotaExceeded, payload["code"])

	res, payload = callTool(t, cs, "record_revision", map[string]any{"project_id": "full", "note": "more"})
	require.True(t, res.IsError)
	require.Equal(t, transport.CodeScopeExceeded, payload["code"])

	res, payload = callTool(t, cs, "get_shared_project", map[string]any{"token": "nope"})
	require.True(t, res.IsError)
	require.Equal(t, transport.CodeNotFound, payload["code"])

	res, payload = callTool(t, cs, "get_project", map[string]any{"id": "down"})
	require.True(t, res.IsError)
	require.Equal(t, transport.CodeStoreUnavailable, payload["code"])
}

func TestServer_RecordRevision(t *testing.T) {
	cs := connect(t, "good")

	res, payload := callTool(t, cs, "record_revision", map[string]any{"project_id": "p1", "note": "bigger logo"})
	require.False(t, res.IsError)
	scopeObj := payload["scope"].(map[string]any)
	require.Equal(t, string(scope.OutOfScope), scopeObj["status"])
}

func TestServer_GetEntitlement(t *testing.T) {
	cs := connect(t, "good")

	res, payload := callTool(t, cs, "get_entitlement", nil)
	require.False(t, res.IsError)
	require.Equal(t, "acct1", payload["account_id"])
	require.Equal(t, entitlement.PlanFree, payload["plan"])
}

func TestServer_RequiresBearerToken(t *testing.T) {
	for _, token := range []string{"", "bogus"} {
		cs := connect(t, token)

		_, err := cs.CallTool(context.Background(), &sdkmcp.CallToolParams{
			Name:      "list_projects",
			Arguments: map[string]any{},
		})
		require.Error(t, err, token)
	}
}

func TestServer_SharedProjectWithoutToken(t *testing.T) {
	cs := connect(t, "")

	res, payload := callTool(t, cs, "get_shared_project", map[string]any{"token": "tok-live"})
	require.False(t, res.IsError)
	require.Equal(t, "Logo", payload["project"].(map[string]any)["name"])

	res, payload = callTool(t, cs, "get_shared_project", map[string]any{"token": "nope"})
	require.True(t, res.IsError)
	require.Equal(t, transport.CodeNotFound, payload["code"])

	// Only the share tool is open; account tools still need a bearer token.
	_, err := cs.CallTool(context.Background(), &sdkmcp.CallToolParams{Name: "get_entitlement"})
	require.Error(t, err)
}

func TestServer_PingWithoutAuth(t *testing.T) {
	server := NewServer(Config{Services: testServices(), Resolver: tokenResolver{}})
	st, ct := sdkmcp.NewInMemoryTransports()

	ss, err := server.Connect(context.Background(), st, nil)
	require.NoError(t, err)
	defer ss.Close()

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test", Version: "v0"}, nil)
	cs, err := client.Connect(context.Background(), ct, nil)
	require.NoError(t, err)
	defer cs.Close()

	require.NoError(t, cs.Ping(context.Background(), nil))

	// In-memory transports carry no headers, so tool calls are refused.
	_, err = cs.CallTool(context.Background(), &sdkmcp.CallToolParams{Name: "get_entitlement"})
	require.Error(t, err)
}

func TestServer_DocResources(t *testing.T) {
	cs := connect(t, "good")

	res, err := cs.ReadResource(context.Background(), &sdkmcp.ReadResourceParams{URI: "revtrack://docs/errors"})
	require.NoError(t, err)
	require.Len(t, res.Contents, 1)
	require.Contains(t, res.Contents[0].Text, "scope_exceeded")
}

func TestMapError(t *testing.T) {
	require.Nil(t, MapError(nil))
	require.Equal(t, transport.CodeInvalidInput, MapError(fmt.Errorf("%w: note is required", revision.ErrInvalidInput)).Code)
	require.Equal(t, transport.CodeUnauthenticated, MapError(account.ErrUnauthenticated).Code)
	require.Equal(t, transport.CodeInternal, MapError(fmt.Errorf("boom")).Code)
}
