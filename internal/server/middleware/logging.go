package middleware

import (
	"context"
	"strings"
	"time"

	"Authormity/internal/service"
	pkglog "Authormity/pkg/log"

	"github.com/go-kratos/kratos/v2/middleware"
	"github.com/go-kratos/kratos/v2/transport"
	"github.com/go-kratos/kratos/v2/transport/http"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

// Logging 返回一个记录 HTTP 请求日志的中间件
// 复用或生成 Request ID，注入 Request Context，并写回响应头
//
// 日志输出示例:
//
//	🟢 POST /api/generate - 200 (1542ms) | RequestID: mgrn0zfqda
func Logging(logger *pkglog.LogHelper) middleware.Middleware {
	return func(handler middleware.Handler) middleware.Handler {
		return func(ctx context.Context, req interface{}) (interface{}, error) {
			startTime := time.Now()

			var (
				method    string
				path      string
				ip        string
				userAgent string
				requestID string
			)

			if tr, ok := transport.FromServerContext(ctx); ok {
				method = tr.Kind().String()
				path = tr.Operation()

				if ht, ok := tr.(http.Transporter); ok {
					httpReq := ht.Request()
					method = httpReq.Method
					path = httpReq.URL.Path
					ip = extractClientIP(httpReq)
					userAgent = httpReq.Header.Get("User-Agent")
					requestID = httpReq.Header.Get(RequestIDHeader)
				}
				if requestID == "" {
					requestID = pkglog.GenerateRequestID()
				}
				tr.ReplyHeader().Set(RequestIDHeader, requestID)
			}

			ctx = pkglog.WithRequestContext(ctx, requestID)

			reply, err := handler(ctx, req)

			status := 200
			if err != nil {
				status = int(service.FromError(err).Code)
			}

			logger.Request(ctx, method, path, status, time.Since(startTime).Milliseconds(),
				"ip", ip,
				"user_agent", userAgent,
			)

			return reply, err
		}
	}
}

// extractClientIP 从请求中提取客户端真实 IP
// 优先级: X-Real-IP > X-Forwarded-For > RemoteAddr
func extractClientIP(req *http.Request) string {
	if ip := req.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}

	if forwarded := req.Header.Get("X-Forwarded-For"); forwarded != "" {
		ips := strings.Split(forwarded, ",")
		return strings.TrimSpace(ips[0])
	}

	return req.RemoteAddr
}
