package service

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"

	"Authormity/internal/biz"
	"Authormity/internal/data"

	"github.com/go-kratos/kratos/v2/errors"
)

const (
	metaPostsUsed  = "postsUsed"
	metaLimit      = "limit"
	metaRetryAfter = "retryAfter"

	reasonNotFound = "NOT_FOUND"
)

// FromError maps a use-case error to a Kratos error with a stable reason.
// Unknown errors become a generic 500 so internal detail never reaches
// the client.
func FromError(err error) *errors.Error {
	if err == nil {
		return nil
	}

	var se *errors.Error
	if stderrors.As(err, &se) {
		return se
	}

	var (
		limitErr *biz.PlanLimitError
		valErr   *biz.ValidationError
		aiErr    *biz.AIServiceError
		rateErr  *biz.RateLimitExceededError
	)
	switch {
	case stderrors.Is(err, biz.ErrUnauthenticated):
		return errors.Unauthorized(biz.ReasonUnauthorized, "Unauthorized")
	case stderrors.As(err, &limitErr):
		return errors.Forbidden(biz.ReasonPlanLimit, limitErr.Reason).WithMetadata(map[string]string{
			metaPostsUsed: strconv.Itoa(limitErr.PostsUsed),
			metaLimit:     strconv.Itoa(limitErr.Limit),
		})
	case stderrors.As(err, &valErr):
		return errors.BadRequest(biz.ReasonValidation, valErr.Message)
	case stderrors.As(err, &aiErr):
		return errors.New(http.StatusBadGateway, biz.ReasonAIService, aiErr.Message)
	case stderrors.As(err, &rateErr):
		return errors.New(http.StatusTooManyRequests, biz.ReasonRateLimited, "Too many requests. Please slow down.").
			WithMetadata(map[string]string{metaRetryAfter: strconv.FormatInt(rateErr.RetryAfter, 10)})
	case stderrors.Is(err, biz.ErrInvalidSignature):
		return errors.Unauthorized(biz.ReasonUnauthorized, "Invalid signature")
	case stderrors.Is(err, biz.ErrInvalidPayload):
		return errors.BadRequest(biz.ReasonValidation, "Invalid payload")
	case stderrors.Is(err, data.ErrNotFound):
		return errors.NotFound(reasonNotFound, "Not found")
	}

	return errors.InternalServer(biz.ReasonInternal, "Internal server error")
}

// errorBody is the JSON error shape of every /api endpoint.
type errorBody struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	PostsUsed *int   `json:"postsUsed,omitempty"`
	Limit     *int   `json:"limit,omitempty"`
}

// ErrorEncoder writes {error, code} and, on quota denial, postsUsed and limit.
func ErrorEncoder(w http.ResponseWriter, r *http.Request, err error) {
	se := FromError(err)

	body := errorBody{Error: se.Message, Code: se.Reason}
	if v, ok := se.Metadata[metaPostsUsed]; ok {
		if n, convErr := strconv.Atoi(v); convErr == nil {
			body.PostsUsed = &n
		}
	}
	if v, ok := se.Metadata[metaLimit]; ok {
		if n, convErr := strconv.Atoi(v); convErr == nil {
			body.Limit = &n
		}
	}
	if v, ok := se.Metadata[metaRetryAfter]; ok {
		w.Header().Set("Retry-After", v)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(int(se.Code))
	_ = json.NewEncoder(w).Encode(body)
}
