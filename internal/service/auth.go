package service

import (
	"context"
	"net/http"

	"Authormity/internal/biz"
	"Authormity/internal/conf"

	"github.com/go-kratos/kratos/v2/log"
	khttp "github.com/go-kratos/kratos/v2/transport/http"
)

// AuthService serves the LinkedIn login endpoints.
type AuthService struct {
	uc     *biz.OAuthUsecase
	secure bool
	logger *log.Helper
}

// NewAuthService creates the auth service.
func NewAuthService(uc *biz.OAuthUsecase, c *conf.Auth, logger log.Logger) *AuthService {
	secure := true
	if c != nil && c.Session != nil {
		secure = c.Session.SecureCookies
	}
	return &AuthService{uc: uc, secure: secure, logger: log.NewHelper(logger)}
}

// RegisterAuthHTTPServer mounts the auth routes.
func RegisterAuthHTTPServer(s *khttp.Server, srv *AuthService) {
	r := s.Route("/")
	r.GET("/auth/linkedin", srv.authorize)
	r.GET("/auth/callback", srv.callback)
	r.POST("/auth/logout", srv.logout)
}

func (s *AuthService) authorize(ctx khttp.Context) error {
	h := ctx.Middleware(func(c context.Context, _ interface{}) (interface{}, error) {
		target, err := s.uc.Authorize(newCookieJar(ctx.Request(), ctx.Response(), s.secure))
		if err != nil {
			s.logger.Errorw("msg", "failed to start linkedin authorization", "error", err)
			return nil, err
		}
		http.Redirect(ctx.Response(), ctx.Request(), target, http.StatusFound)
		return nil, nil
	})
	_, err := h(ctx, nil)
	return err
}

func (s *AuthService) callback(ctx khttp.Context) error {
	q := ctx.Request().URL.Query()
	params := biz.CallbackParams{
		Code:  q.Get("code"),
		State: q.Get("state"),
		Error: q.Get("error"),
	}

	h := ctx.Middleware(func(c context.Context, _ interface{}) (interface{}, error) {
		res := s.uc.Callback(c, newCookieJar(ctx.Request(), ctx.Response(), s.secure), params)
		if res.Status != 0 {
			// 服务端错误不做跳转，返回通用错误体
			return nil, ctx.JSON(res.Status, map[string]string{"error": res.PublicError()})
		}
		http.Redirect(ctx.Response(), ctx.Request(), res.Redirect, http.StatusFound)
		return nil, nil
	})
	_, err := h(ctx, nil)
	return err
}

func (s *AuthService) logout(ctx khttp.Context) error {
	newCookieJar(ctx.Request(), ctx.Response(), s.secure).Delete(s.uc.SessionCookieName())
	return ctx.JSON(http.StatusOK, map[string]bool{"ok": true})
}
