package service

import (
	"context"
	"io"
	"net/http"

	"Authormity/internal/biz"

	"github.com/go-kratos/kratos/v2/log"
	khttp "github.com/go-kratos/kratos/v2/transport/http"
)

const maxWebhookBody = 1 << 20

// WebhookReply acknowledges a webhook delivery.
type WebhookReply struct {
	Received bool `json:"received"`
}

type webhookDelivery struct {
	payload   []byte
	signature string
}

// BillingService receives payment provider webhooks.
type BillingService struct {
	uc     *biz.BillingUsecase
	logger *log.Helper
}

// NewBillingService creates the billing service.
func NewBillingService(uc *biz.BillingUsecase, logger log.Logger) *BillingService {
	return &BillingService{uc: uc, logger: log.NewHelper(logger)}
}

// RegisterBillingHTTPServer mounts the webhook route.
func RegisterBillingHTTPServer(s *khttp.Server, srv *BillingService) {
	r := s.Route("/")
	r.POST("/api/webhooks/payment", srv.paymentWebhookHandler)
}

func (s *BillingService) paymentWebhookHandler(ctx khttp.Context) error {
	// 签名基于原始请求体，不能先反序列化
	payload, err := io.ReadAll(io.LimitReader(ctx.Request().Body, maxWebhookBody))
	if err != nil {
		return biz.ErrInvalidPayload
	}
	signature := ctx.Request().Header.Get("webhook-signature")
	if signature == "" {
		signature = ctx.Request().Header.Get("x-webhook-signature")
	}

	h := ctx.Middleware(func(c context.Context, req interface{}) (interface{}, error) {
		d := req.(*webhookDelivery)
		if err := s.uc.HandleWebhook(c, d.payload, d.signature); err != nil {
			return nil, err
		}
		return &WebhookReply{Received: true}, nil
	})
	out, err := h(ctx, &webhookDelivery{payload: payload, signature: signature})
	if err != nil {
		return err
	}
	return ctx.Result(http.StatusOK, out)
}
