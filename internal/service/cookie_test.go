package service

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCookieJar(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/auth/callback", nil)
	req.AddCookie(&http.Cookie{Name: "li_oauth_state", Value: "abc"})
	rec := httptest.NewRecorder()
	jar := newCookieJar(req, rec, true)

	v, ok := jar.Get("li_oauth_state")
	require.True(t, ok)
	assert.Equal(t, "abc", v)

	_, ok = jar.Get("missing")
	assert.False(t, ok)

	jar.Delete("li_oauth_state")
	_, ok = jar.Get("li_oauth_state")
	assert.False(t, ok, "a deleted cookie must not be readable again in the same request")

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "li_oauth_state", cookies[0].Name)
	assert.Equal(t, -1, cookies[0].MaxAge)
	assert.True(t, cookies[0].Secure)
	assert.True(t, cookies[0].HttpOnly)

	jar.Set(&http.Cookie{Name: "li_oauth_state", Value: "fresh"})
	assert.Len(t, rec.Header().Values("Set-Cookie"), 2)
	// Set 只写响应，不影响请求中已有的值
	v, ok = jar.Get("li_oauth_state")
	assert.True(t, ok)
	assert.Equal(t, "abc", v)
}
