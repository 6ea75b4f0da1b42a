package mcp

import (
	"context"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/revtrack/internal/domain/account"
	"github.com/rpggio/revtrack/internal/transport"
)

// principal returns the caller authenticated by authMiddleware.
func principal(ctx context.Context) account.Principal {
	p, _ := transport.PrincipalFromContext(ctx)
	return p
}

// authMiddleware implements bearer token authentication as MCP middleware.
func authMiddleware(resolver transport.PrincipalResolver) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			// Protocol handshake and notifications carry no user data.
			if method == "initialize" || method == "ping" || isNotification(method) {
				return next(ctx, method, req)
			}
			// Share tokens are capabilities; reading them needs no account.
			if isAnonymousTool(method, req) {
				return next(ctx, method, req)
			}
			if resolver == nil {
				return nil, account.ErrUnauthenticated
			}

			extra := req.GetExtra()
			if extra == nil || extra.Header == nil {
				return nil, account.ErrUnauthenticated
			}
			token := transport.BearerToken(extra.Header.Get("Authorization"))
			if token == "" {
				return nil, account.ErrUnauthenticated
			}

			p, err := resolver.Verify(token)
			if err != nil || !p.Authenticated() {
				return nil, account.ErrUnauthenticated
			}

			return next(transport.WithPrincipal(ctx, p), method, req)
		}
	}
}

func isNotification(method string) bool {
	return strings.HasPrefix(method, "notifications/")
}

func isAnonymousTool(method string, req sdkmcp.Request) bool {
	if method != "tools/call" {
		return false
	}
	call, ok := req.(*sdkmcp.CallToolRequest)
	if !ok || call.Params == nil {
		return false
	}
	return call.Params.Name == toolGetSharedProject
}
