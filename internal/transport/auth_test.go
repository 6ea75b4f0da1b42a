package transport

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rpggio/revtrack/internal/domain/account"
	"github.com/stretchr/testify/require"
)

type testResolver struct {
	tokenToAccount map[string]string
	err            error
}

func (r *testResolver) Verify(token string) (account.Principal, error) {
	if r.err != nil {
		return account.Principal{}, r.err
	}
	id, ok := r.tokenToAccount[token]
	if !ok {
		return account.Principal{}, account.ErrUnauthenticated
	}
	return account.Principal{AccountID: id, Email: id + "@example.com"}, nil
}

func TestAuthMiddleware(t *testing.T) {
	resolver := &testResolver{tokenToAccount: map[string]string{"token": "acct1"}}

	handler := AuthMiddleware(resolver)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := PrincipalFromContext(r.Context())
		require.True(t, ok)
		require.Equal(t, "acct1", p.AccountID)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer token")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthMiddleware_Invalid(t *testing.T) {
	resolver := &testResolver{err: errors.New("invalid")}

	handler := AuthMiddleware(resolver)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for _, header := range []string{"", "Bearer", "Basic abc", "Bearer token"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code, header)
		require.Contains(t, rec.Body.String(), CodeUnauthenticated)
	}
}

func TestBearerToken(t *testing.T) {
	require.Equal(t, "abc", BearerToken("Bearer abc"))
	require.Equal(t, "abc", BearerToken("bearer  abc "))
	require.Empty(t, BearerToken("Basic abc"))
	require.Empty(t, BearerToken(""))
}

func TestPrincipalFromContext_EmptyIsUnauthenticated(t *testing.T) {
	ctx := WithPrincipal(httptest.NewRequest(http.MethodGet, "/", nil).Context(), account.Principal{})
	_, ok := PrincipalFromContext(ctx)
	require.False(t, ok)
}
