package linkedin

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(Config{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURL:  "https://app.example.com/api/auth/linkedin/callback",
		TokenURL:     srv.URL + "/oauth/v2/accessToken",
		APIBase:      srv.URL + "/v2",
		HTTPClient:   srv.Client(),
	}), srv
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestAuthCodeURL(t *testing.T) {
	c := NewClient(Config{ClientID: "cid", RedirectURL: "https://app.example.com/cb"})

	u, err := url.Parse(c.AuthCodeURL("abc123"))
	require.NoError(t, err)

	assert.Equal(t, "www.linkedin.com", u.Host)
	assert.Equal(t, "/oauth/v2/authorization", u.Path)
	q := u.Query()
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "cid", q.Get("client_id"))
	assert.Equal(t, "https://app.example.com/cb", q.Get("redirect_uri"))
	assert.Equal(t, "abc123", q.Get("state"))
	assert.Equal(t, "openid profile email w_member_social", q.Get("scope"))
}

func TestExchangeCode_Success(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "authorization_code", r.PostForm.Get("grant_type"))
		assert.Equal(t, "the-code", r.PostForm.Get("code"))
		assert.Equal(t, "client-id", r.PostForm.Get("client_id"))
		assert.Equal(t, "client-secret", r.PostForm.Get("client_secret"))
		assert.Equal(t, "https://app.example.com/api/auth/linkedin/callback", r.PostForm.Get("redirect_uri"))

		writeJSON(w, http.StatusOK, map[string]any{
			"access_token":  "at-1",
			"refresh_token": "rt-1",
			"expires_in":    5184000,
		})
	})

	tokens, err := c.ExchangeCode(t.Context(), "the-code")
	require.NoError(t, err)
	assert.Equal(t, &Tokens{AccessToken: "at-1", RefreshToken: "rt-1", ExpiresIn: 5184000}, tokens)
}

func TestExchangeCode_Defaults(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"access_token": "at-only"})
	})

	tokens, err := c.ExchangeCode(t.Context(), "code")
	require.NoError(t, err)
	assert.Equal(t, "at-only", tokens.AccessToken)
	assert.Empty(t, tokens.RefreshToken)
	assert.Equal(t, int64(DefaultExpiresIn), tokens.ExpiresIn)
}

func TestExchangeCode_UpstreamError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":             "invalid_grant",
			"error_description": "authorization code expired",
		})
	})

	_, err := c.ExchangeCode(t.Context(), "stale")
	var upErr *UpstreamError
	require.ErrorAs(t, err, &upErr)
	assert.Equal(t, http.StatusBadRequest, upErr.Status)
	assert.Contains(t, upErr.Body, "invalid_grant")
}

func TestExchangeCode_MissingAccessToken(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"expires_in": 10})
	})

	_, err := c.ExchangeCode(t.Context(), "code")
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestRefresh(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.PostForm.Get("grant_type"))
		assert.Equal(t, "rt-old", r.PostForm.Get("refresh_token"))

		writeJSON(w, http.StatusOK, map[string]any{
			"access_token":  "at-new",
			"refresh_token": "rt-new",
			"expires_in":    3600,
		})
	})

	tokens, err := c.Refresh(t.Context(), "rt-old")
	require.NoError(t, err)
	assert.Equal(t, "at-new", tokens.AccessToken)
	assert.Equal(t, "rt-new", tokens.RefreshToken)
}

func TestRefresh_EmptyToken(t *testing.T) {
	c := NewClient(Config{})
	_, err := c.Refresh(t.Context(), "")
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestFetchProfile(t *testing.T) {
	tests := []struct {
		name     string
		body     map[string]any
		wantName string
	}{
		{
			name:     "full name present",
			body:     map[string]any{"sub": "li-1", "name": "Ada Lovelace", "given_name": "Ada", "family_name": "L", "email": "ada@example.com", "picture": "https://img/ada"},
			wantName: "Ada Lovelace",
		},
		{
			name:     "given and family fallback",
			body:     map[string]any{"sub": "li-1", "given_name": "Ada", "family_name": "Lovelace"},
			wantName: "Ada Lovelace",
		},
		{
			name:     "given only",
			body:     map[string]any{"sub": "li-1", "given_name": "Ada"},
			wantName: "Ada",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/v2/userinfo", r.URL.Path)
				assert.Equal(t, "Bearer at-1", r.Header.Get("Authorization"))
				writeJSON(w, http.StatusOK, tt.body)
			})

			p, err := c.FetchProfile(t.Context(), "at-1")
			require.NoError(t, err)
			assert.Equal(t, "li-1", p.ExternalID)
			assert.Equal(t, tt.wantName, p.Name)
		})
	}
}

func TestFetchProfile_Errors(t *testing.T) {
	t.Run("non-success status", func(t *testing.T) {
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Invalid access token"}`))
		})

		_, err := c.FetchProfile(t.Context(), "bad")
		var upErr *UpstreamError
		require.ErrorAs(t, err, &upErr)
		assert.Equal(t, http.StatusUnauthorized, upErr.Status)
		assert.Equal(t, "userinfo", upErr.Op)
	})

	t.Run("missing sub", func(t *testing.T) {
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"name": "No Sub"})
		})

		_, err := c.FetchProfile(t.Context(), "at")
		assert.ErrorIs(t, err, ErrInvalidResponse)
	})
}

func TestPublish(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v2/ugcPosts", r.URL.Path)
		assert.Equal(t, "2.0.0", r.Header.Get("X-Restli-Protocol-Version"))
		assert.Equal(t, "Bearer at-1", r.Header.Get("Authorization"))

		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var body map[string]any
		require.NoError(t, json.Unmarshal(raw, &body))

		assert.Equal(t, "urn:li:person:li-1", body["author"])
		assert.Equal(t, "PUBLISHED", body["lifecycleState"])
		share := body["specificContent"].(map[string]any)["com.linkedin.ugc.ShareContent"].(map[string]any)
		assert.Equal(t, "hello world", share["shareCommentary"].(map[string]any)["text"])
		assert.Equal(t, "NONE", share["shareMediaCategory"])

		writeJSON(w, http.StatusCreated, map[string]any{"id": "urn:li:share:42"})
	})

	id, err := c.Publish(t.Context(), "at-1", "li-1", "hello world")
	require.NoError(t, err)
	assert.Equal(t, "urn:li:share:42", id)
}

func TestPublish_IDFromHeader(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-RestLi-Id", "urn:li:share:7")
		w.WriteHeader(http.StatusCreated)
	})

	id, err := c.Publish(t.Context(), "at", "li-1", "x")
	require.NoError(t, err)
	assert.Equal(t, "urn:li:share:7", id)
}

func TestPublish_UndecodableBody(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-RestLi-Id", "urn:li:share:9")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("<html>created</html>"))
	})

	id, err := c.Publish(t.Context(), "at", "li-1", "x")
	require.NoError(t, err)
	assert.Equal(t, "urn:li:share:9", id)

	c, _ = newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("<html>created</html>"))
	})

	_, err = c.Publish(t.Context(), "at", "li-1", "x")
	require.ErrorIs(t, err, ErrInvalidResponse)
	assert.Contains(t, err.Error(), "decode response")
}

func TestDeletePost(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/v2/ugcPosts/urn%3Ali%3Ashare%3A42", r.URL.EscapedPath())
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, c.DeletePost(t.Context(), "at", "urn:li:share:42"))
}

func TestDeletePost_UpstreamError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	err := c.DeletePost(t.Context(), "at", "urn:li:share:42")
	var upErr *UpstreamError
	require.ErrorAs(t, err, &upErr)
	assert.Equal(t, http.StatusForbidden, upErr.Status)
}
