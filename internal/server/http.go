package server

import (
	"context"
	"strings"

	"Authormity/internal/biz"
	"Authormity/internal/conf"
	"Authormity/internal/server/middleware"
	"Authormity/internal/service"
	pkglog "Authormity/pkg/log"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/middleware/selector"
	"github.com/go-kratos/kratos/v2/transport/http"
)

// 需要会话的路由：/api/ 下除支付回调以外的全部接口
func requiresSession(_ context.Context, operation string) bool {
	return strings.HasPrefix(operation, "/api/") && !strings.HasPrefix(operation, "/api/webhooks/")
}

// NewHTTPServer new an HTTP server.
func NewHTTPServer(
	c *conf.Server,
	sessions *biz.SessionIssuer,
	oauth *biz.OAuthUsecase,
	auth *service.AuthService,
	generation *service.GenerationService,
	account *service.AccountService,
	billing *service.BillingService,
	cron *service.CronService,
	logger log.Logger,
) *http.Server {
	logHelper := pkglog.NewLogHelper(logger)

	var opts = []http.ServerOption{
		http.Middleware(
			recovery.Recovery(),
			middleware.Logging(logHelper),
			selector.Server(
				middleware.Session(sessions, oauth.SessionCookieName(), logHelper),
			).Match(requiresSession).Build(),
		),
		http.ErrorEncoder(service.ErrorEncoder),
	}
	if c.HTTP != nil {
		if c.HTTP.Network != "" {
			opts = append(opts, http.Network(c.HTTP.Network))
		}
		if c.HTTP.Addr != "" {
			opts = append(opts, http.Address(c.HTTP.Addr))
		}
		if c.HTTP.Timeout > 0 {
			opts = append(opts, http.Timeout(c.HTTP.Timeout))
		}
	}
	srv := http.NewServer(opts...)

	srv.Route("/").GET("/healthz", func(ctx http.Context) error {
		return ctx.JSON(200, map[string]string{"status": "ok"})
	})
	service.RegisterAuthHTTPServer(srv, auth)
	service.RegisterGenerationHTTPServer(srv, generation)
	service.RegisterAccountHTTPServer(srv, account)
	service.RegisterBillingHTTPServer(srv, billing)
	service.RegisterCronHTTPServer(srv, cron)

	return srv
}
