package log

import (
	"strings"
)

// 键名包含以下片段时视为敏感字段
var sensitiveKeywords = []string{
	"password", "passwd",
	"api_key", "apikey", "api-key",
	"token", "secret", "authorization",
	"cookie", "session", "credential",
	"private_key", "signature", "dsn",
}

// 精确匹配的敏感键（OAuth 授权码与 CSRF state）
var sensitiveExactKeys = map[string]struct{}{
	"code":  {},
	"state": {},
}

// SanitizeField masks value when key looks sensitive. E-mail keys keep the
// first characters of the local part and the domain.
func SanitizeField(key, value string) string {
	if value == "" {
		return value
	}

	lowerKey := strings.ToLower(key)

	if strings.Contains(lowerKey, "email") {
		return sanitizeEmail(value)
	}

	if _, ok := sensitiveExactKeys[lowerKey]; ok {
		return sanitizeToken(value)
	}

	for _, keyword := range sensitiveKeywords {
		if strings.Contains(lowerKey, keyword) {
			return sanitizeToken(value)
		}
	}

	return value
}

// sanitizeToken 保留前 4 位与后 4 位
func sanitizeToken(value string) string {
	if len(value) <= 8 {
		if len(value) <= 2 {
			return strings.Repeat("*", len(value))
		}
		return value[:1] + strings.Repeat("*", len(value)-2) + value[len(value)-1:]
	}
	return value[:4] + strings.Repeat("*", len(value)-8) + value[len(value)-4:]
}

func sanitizeEmail(value string) string {
	local, domain, ok := strings.Cut(value, "@")
	if !ok || strings.Contains(domain, "@") {
		return strings.Repeat("*", len(value))
	}

	switch {
	case local == "":
		return "@" + domain
	case len(local) <= 3:
		return local[:1] + strings.Repeat("*", len(local)-1) + "@" + domain
	default:
		return local[:3] + "***@" + domain
	}
}
