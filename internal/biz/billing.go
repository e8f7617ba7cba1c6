package biz

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"Authormity/internal/conf"
	"Authormity/internal/data"

	"github.com/go-kratos/kratos/v2/log"
)

// Billing webhook errors.
var (
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrInvalidPayload   = errors.New("invalid webhook payload")
)

// Payment event types.
const (
	EventPaymentSucceeded      = "payment.succeeded"
	EventSubscriptionActive    = "subscription.active"
	EventSubscriptionCancelled = "subscription.cancelled"
	EventSubscriptionExpired   = "subscription.expired"
)

// billingPlans maps checkout plan keys to tiers.
var billingPlans = map[string]data.Plan{
	"pro_monthly":  data.PlanPro,
	"pro_annual":   data.PlanPro,
	"team_monthly": data.PlanTeam,
}

// PaymentEvent is the payment provider webhook body.
type PaymentEvent struct {
	Type string `json:"type"`
	Data struct {
		CustomerID string `json:"customer_id"`
		Metadata   struct {
			UserID string `json:"user_id"`
			Plan   string `json:"plan"`
		} `json:"metadata"`
		Subscription *struct {
			ID               string `json:"id"`
			Status           string `json:"status"`
			CurrentPeriodEnd string `json:"current_period_end"`
		} `json:"subscription"`
	} `json:"data"`
}

// BillingUsecase applies payment webhooks to account plans.
type BillingUsecase struct {
	profiles ProfileRepo
	secret   []byte
	logger   *log.Helper
}

// NewBillingUsecase creates the billing use case.
func NewBillingUsecase(profiles ProfileRepo, c *conf.Billing, logger log.Logger) *BillingUsecase {
	uc := &BillingUsecase{profiles: profiles, logger: log.NewHelper(logger)}
	if c != nil {
		uc.secret = []byte(c.WebhookSecret)
	}
	return uc
}

// VerifySignature checks a hex HMAC-SHA256 of payload, optionally prefixed
// with "sha256=". An unset secret rejects everything.
func (uc *BillingUsecase) VerifySignature(payload []byte, signature string) bool {
	if len(uc.secret) == 0 || signature == "" {
		return false
	}
	received, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(signature), "sha256="))
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, uc.secret)
	mac.Write(payload)
	return hmac.Equal(mac.Sum(nil), received)
}

// HandleWebhook verifies and applies one webhook delivery. Events without a
// user id or of unknown type are ignored.
func (uc *BillingUsecase) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	if !uc.VerifySignature(payload, signature) {
		uc.logger.Warnw("msg", "payment webhook signature rejected")
		return ErrInvalidSignature
	}

	var event PaymentEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	userID, update, ok := planUpdateFor(&event)
	if !ok {
		uc.logger.Infow("msg", "payment webhook ignored", "type", event.Type)
		return nil
	}

	if err := uc.profiles.UpdatePlan(ctx, userID, update); err != nil {
		uc.logger.Errorw("msg", "failed to apply payment webhook", "type", event.Type, "account_id", userID, "error", err)
		return err
	}

	uc.logger.Infow("msg", "payment webhook applied",
		"type", event.Type,
		"account_id", userID,
		"plan", string(update.Plan),
		"plan_status", string(update.Status))
	return nil
}

func planUpdateFor(event *PaymentEvent) (string, data.PlanUpdate, bool) {
	userID := event.Data.Metadata.UserID
	if userID == "" {
		return "", data.PlanUpdate{}, false
	}

	switch event.Type {
	case EventPaymentSucceeded, EventSubscriptionActive:
		plan, ok := billingPlans[event.Data.Metadata.Plan]
		if !ok {
			plan = data.PlanPro
		}
		u := data.PlanUpdate{Plan: plan, Status: data.PlanStatusActive, CustomerID: event.Data.CustomerID}
		if sub := event.Data.Subscription; sub != nil && sub.CurrentPeriodEnd != "" {
			if t, err := time.Parse(time.RFC3339, sub.CurrentPeriodEnd); err == nil {
				t = t.UTC()
				u.ExpiresAt = &t
			}
		}
		return userID, u, true

	case EventSubscriptionCancelled, EventSubscriptionExpired:
		status := data.PlanStatusCancelled
		if event.Type == EventSubscriptionExpired {
			status = data.PlanStatusExpired
		}
		// 降级到免费版时清零本月用量
		return userID, data.PlanUpdate{Plan: data.PlanFree, Status: status, ResetUsage: true}, true
	}

	return "", data.PlanUpdate{}, false
}
