package service

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"Authormity/internal/biz"
	"Authormity/internal/conf"

	"github.com/go-kratos/kratos/v2/log"
	khttp "github.com/go-kratos/kratos/v2/transport/http"
)

// CronService exposes the scheduled publisher to an external scheduler.
type CronService struct {
	task   *biz.PublishTask
	secret string
	logger *log.Helper
}

// NewCronService creates the cron service.
func NewCronService(task *biz.PublishTask, c *conf.Scheduler, logger log.Logger) *CronService {
	s := &CronService{task: task, logger: log.NewHelper(logger)}
	if c != nil {
		s.secret = c.CronSecret
	}
	return s
}

// RegisterCronHTTPServer mounts the internal cron route.
func RegisterCronHTTPServer(s *khttp.Server, srv *CronService) {
	r := s.Route("/")
	r.POST("/internal/cron/publish", srv.publishHandler)
}

func (s *CronService) publishHandler(ctx khttp.Context) error {
	if !s.authorized(ctx.Request().Header.Get("Authorization")) {
		s.logger.Warnw("msg", "cron publish rejected", "remote_addr", ctx.Request().RemoteAddr)
		return biz.ErrUnauthenticated
	}

	h := ctx.Middleware(func(c context.Context, _ interface{}) (interface{}, error) {
		return s.task.PublishDuePosts(c)
	})
	out, err := h(ctx, nil)
	if err != nil {
		return err
	}
	return ctx.Result(http.StatusOK, out)
}

// authorized checks "Bearer <secret>". An unset secret rejects every call.
func (s *CronService) authorized(header string) bool {
	if s.secret == "" {
		return false
	}
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(s.secret)) == 1
}
