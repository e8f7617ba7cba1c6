package biz

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"Authormity/internal/conf"
	"Authormity/pkg/linkedin"

	"github.com/go-kratos/kratos/v2/log"
)

// Cookie names.
const (
	StateCookieName          = "li_oauth_state"
	DefaultSessionCookieName = "authormity_session"
	defaultStateTTL          = 10 * time.Minute
)

// Post-auth redirect targets.
const (
	RedirectOnboarding = "/onboarding"
	RedirectDashboard  = "/dashboard"
	loginPath          = "/login"
)

// CallbackState is a node of the OAuth callback state machine.
type CallbackState string

// Callback states.
const (
	CallbackStart           CallbackState = "START"
	CallbackStateValidated  CallbackState = "STATE_VALIDATED"
	CallbackCodeExchanged   CallbackState = "CODE_EXCHANGED"
	CallbackProfileFetched  CallbackState = "PROFILE_FETCHED"
	CallbackAccountResolved CallbackState = "ACCOUNT_RESOLVED"
	CallbackSessionIssued   CallbackState = "SESSION_ISSUED"
	CallbackError           CallbackState = "ERROR"
)

// Callback failure reasons. Only the first three are shown to the client.
const (
	FailureProviderError   = "provider_error"
	FailureMissingParams   = "missing_params"
	FailureStateMismatch   = "state_mismatch"
	FailureUpstream        = "upstream_failure"
	FailureAccount         = "account_failure"
	FailureSession         = "session_failure"
	genericAuthFailureBody = "authentication_failed"
)

// CookieJar reads and writes cookies of one request/response pair.
type CookieJar interface {
	Get(name string) (string, bool)
	Set(c *http.Cookie)
	Delete(name string)
}

// CallbackParams are the query parameters LinkedIn sends back.
type CallbackParams struct {
	Code  string
	State string
	Error string
}

// CallbackResult is the terminal outcome of one callback invocation.
// Exactly one of Redirect or Status is set.
type CallbackResult struct {
	State    CallbackState
	Reason   string
	Redirect string
	// Status 非零时返回通用错误体，不做跳转
	Status    int
	AccountID string
	Trace     []CallbackState
}

// PublicError is the body to return with Status.
func (r *CallbackResult) PublicError() string {
	return genericAuthFailureBody
}

// OAuthUsecase drives LinkedIn authorization and the callback state machine.
type OAuthUsecase struct {
	idp        IdentityProvider
	resolver   *AccountResolver
	sessions   *SessionIssuer
	cookieName string
	stateTTL   time.Duration
	secure     bool
	logger     *log.Helper
}

// NewOAuthUsecase creates the OAuth use case.
func NewOAuthUsecase(idp IdentityProvider, resolver *AccountResolver, sessions *SessionIssuer, c *conf.Auth, logger log.Logger) *OAuthUsecase {
	uc := &OAuthUsecase{
		idp:        idp,
		resolver:   resolver,
		sessions:   sessions,
		cookieName: DefaultSessionCookieName,
		stateTTL:   defaultStateTTL,
		secure:     true,
		logger:     log.NewHelper(logger),
	}
	if c != nil && c.Session != nil {
		if c.Session.CookieName != "" {
			uc.cookieName = c.Session.CookieName
		}
		if c.Session.StateTTL > 0 {
			uc.stateTTL = c.Session.StateTTL
		}
		uc.secure = c.Session.SecureCookies
	}
	return uc
}

// SessionCookieName returns the configured session cookie name.
func (uc *OAuthUsecase) SessionCookieName() string {
	return uc.cookieName
}

// GenerateState returns 16 random bytes as hex.
func GenerateState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate oauth state: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// Authorize stores a fresh CSRF state cookie and returns the provider URL to
// redirect to.
func (uc *OAuthUsecase) Authorize(jar CookieJar) (string, error) {
	state, err := GenerateState()
	if err != nil {
		return "", err
	}

	jar.Set(&http.Cookie{
		Name:     StateCookieName,
		Value:    state,
		Path:     "/",
		MaxAge:   int(uc.stateTTL / time.Second),
		HttpOnly: true,
		Secure:   uc.secure,
		SameSite: http.SameSiteLaxMode,
	})

	return uc.idp.AuthCodeURL(state), nil
}

// Callback runs the state machine. It never returns an error: every failure
// is a terminal ERROR result. CSRF validation precedes the code exchange,
// which precedes any account mutation.
func (uc *OAuthUsecase) Callback(ctx context.Context, jar CookieJar, params CallbackParams) *CallbackResult {
	res := &CallbackResult{State: CallbackStart, Trace: []CallbackState{CallbackStart}}

	if params.Error != "" {
		uc.logger.Warnw("msg", "linkedin returned an authorization error", "provider_error", params.Error)
		return uc.fail(res, FailureProviderError, nil)
	}
	if params.Code == "" || params.State == "" {
		return uc.fail(res, FailureMissingParams, nil)
	}

	stored, ok := jar.Get(StateCookieName)
	// 无论校验结果如何都删除，防止重放
	jar.Delete(StateCookieName)
	if !ok || stored == "" || subtle.ConstantTimeCompare([]byte(stored), []byte(params.State)) != 1 {
		return uc.fail(res, FailureStateMismatch, nil)
	}
	uc.advance(res, CallbackStateValidated)

	tokens, err := uc.idp.ExchangeCode(ctx, params.Code)
	if err != nil {
		return uc.fail(res, FailureUpstream, err)
	}
	uc.advance(res, CallbackCodeExchanged)

	profile, err := uc.idp.FetchProfile(ctx, tokens.AccessToken)
	if err != nil {
		return uc.fail(res, FailureUpstream, err)
	}
	uc.advance(res, CallbackProfileFetched)

	resolution, err := uc.resolver.Resolve(ctx, profile, tokens)
	if err != nil {
		return uc.fail(res, FailureAccount, err)
	}
	res.AccountID = resolution.AccountID
	uc.advance(res, CallbackAccountResolved)

	session, err := uc.sessions.Issue(resolution.AccountID)
	if err != nil {
		return uc.fail(res, FailureSession, err)
	}
	jar.Set(&http.Cookie{
		Name:     uc.cookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		MaxAge:   int(uc.sessions.TTL() / time.Second),
		HttpOnly: true,
		Secure:   uc.secure,
		SameSite: http.SameSiteLaxMode,
	})
	uc.advance(res, CallbackSessionIssued)

	res.Redirect = RedirectDashboard
	if resolution.IsNewAccount || !resolution.OnboardingDone {
		res.Redirect = RedirectOnboarding
	}

	uc.logger.Infow("msg", "linkedin login completed",
		"account_id", resolution.AccountID,
		"is_new_account", resolution.IsNewAccount,
		"redirect", res.Redirect)
	return res
}

func (uc *OAuthUsecase) advance(res *CallbackResult, next CallbackState) {
	res.State = next
	res.Trace = append(res.Trace, next)
}

func (uc *OAuthUsecase) fail(res *CallbackResult, reason string, cause error) *CallbackResult {
	from := res.State
	uc.advance(res, CallbackError)
	res.Reason = reason

	switch reason {
	case FailureProviderError, FailureMissingParams, FailureStateMismatch:
		res.Redirect = loginPath + "?error=" + url.QueryEscape(reason)
		uc.logger.Warnw("msg", "oauth callback rejected", "reason", reason, "from_state", string(from))
		return res
	case FailureUpstream:
		res.Status = http.StatusBadGateway
	default:
		res.Status = http.StatusInternalServerError
	}

	kvs := []interface{}{"msg", "oauth callback failed", "reason", reason, "from_state", string(from), "error", cause}
	var upstream *linkedin.UpstreamError
	if errors.As(cause, &upstream) {
		kvs = append(kvs, "upstream_status", upstream.Status, "upstream_body", upstream.Body)
	}
	uc.logger.Errorw(kvs...)
	return res
}
