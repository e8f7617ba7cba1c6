package log

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func stars(n int) string { return strings.Repeat("*", n) }

func TestSanitizeField(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		want  string
	}{
		{"plain field untouched", "account_id", "3f2a9c", "3f2a9c"},
		{"empty value", "access_token", "", ""},
		{"access token", "access_token", "AQXdSPabcdefghijklmn", "AQXd" + stars(12) + "klmn"},
		{"mixed case key", "Authorization", "Bearer abcdefgh", "Bear" + stars(7) + "efgh"},
		{"session cookie", "session_cookie", "eyJhbGciOiJIUzI1NiJ9", "eyJh" + stars(12) + "NiJ9"},
		{"short secret", "secret", "abc", "a*c"},
		{"two chars", "token", "ab", "**"},
		{"oauth code exact key", "code", "AQTx1234567890", "AQTx" + stars(6) + "7890"},
		{"status_code is not code", "status_code", "502", "502"},
		{"csrf state", "state", "0123456789abcdef", "0123" + stars(8) + "cdef"},
		{"dsn", "dsn", "user:pass@tcp(db)/app", "user" + stars(13) + "/app"},
		{"email", "email", "ada.lovelace@example.com", "ada***@example.com"},
		{"short email", "user_email", "ab@example.com", "a*@example.com"},
		{"not an email", "email", "nope", "****"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeField(tt.key, tt.value))
		})
	}
}
