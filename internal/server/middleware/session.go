// Package middleware provides HTTP middleware for session authentication and request logging.
package middleware

import (
	"context"

	"Authormity/internal/biz"
	pkglog "Authormity/pkg/log"

	"github.com/go-kratos/kratos/v2/middleware"
	"github.com/go-kratos/kratos/v2/transport"
	"github.com/go-kratos/kratos/v2/transport/http"
)

// Session 校验会话 Cookie，并把账户 ID 注入 Context
// 缺失或无效的 Cookie 返回 biz.ErrUnauthenticated（401）
func Session(sessions *biz.SessionIssuer, cookieName string, logger *pkglog.LogHelper) middleware.Middleware {
	return func(handler middleware.Handler) middleware.Handler {
		return func(ctx context.Context, req interface{}) (interface{}, error) {
			var token string
			if tr, ok := transport.FromServerContext(ctx); ok {
				if ht, ok := tr.(http.Transporter); ok {
					if c, err := ht.Request().Cookie(cookieName); err == nil {
						token = c.Value
					}
				}
			}

			accountID, err := sessions.Verify(token)
			if err != nil {
				if token != "" {
					logger.Auth("rejected session cookie", "error", err)
				}
				return nil, biz.ErrUnauthenticated
			}

			pkglog.SetAccountID(ctx, accountID)
			return handler(biz.NewAccountContext(ctx, accountID), req)
		}
	}
}
