package biz

import (
	"context"
	"net/http"
	"testing"
	"time"

	"Authormity/internal/data"
	"Authormity/pkg/crypto"
	"Authormity/pkg/linkedin"
	"Authormity/pkg/openrouter"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testEncryptionKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

var testLogger = log.DefaultLogger

func newTestCipher(t *testing.T) *crypto.TokenCipher {
	t.Helper()
	c, err := crypto.NewTokenCipher(testEncryptionKey)
	require.NoError(t, err)
	return c
}

// MockProfileRepo is a mock implementation of ProfileRepo.
type MockProfileRepo struct {
	mock.Mock
}

func (m *MockProfileRepo) FindByID(ctx context.Context, id string) (*data.Profile, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*data.Profile)
	return p, args.Error(1)
}

func (m *MockProfileRepo) FindByLinkedInID(ctx context.Context, linkedinID string) (*data.Profile, error) {
	args := m.Called(ctx, linkedinID)
	p, _ := args.Get(0).(*data.Profile)
	return p, args.Error(1)
}

func (m *MockProfileRepo) FindByEmail(ctx context.Context, email string) (*data.Profile, error) {
	args := m.Called(ctx, email)
	p, _ := args.Get(0).(*data.Profile)
	return p, args.Error(1)
}

func (m *MockProfileRepo) Create(ctx context.Context, p *data.Profile) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockProfileRepo) UpsertIdentity(ctx context.Context, p *data.Profile) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockProfileRepo) ResetQuotaIfDue(ctx context.Context, id string, now, next time.Time) (bool, error) {
	args := m.Called(ctx, id, now, next)
	return args.Bool(0), args.Error(1)
}

func (m *MockProfileRepo) IncrementPostsUsed(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockProfileRepo) UpdateTokens(ctx context.Context, id, accessToken, refreshToken string, expiresAt time.Time) error {
	return m.Called(ctx, id, accessToken, refreshToken, expiresAt).Error(0)
}

func (m *MockProfileRepo) CompleteOnboarding(ctx context.Context, id, niche string, targetAudience *string) error {
	return m.Called(ctx, id, niche, targetAudience).Error(0)
}

func (m *MockProfileRepo) UpdatePlan(ctx context.Context, id string, u data.PlanUpdate) error {
	return m.Called(ctx, id, u).Error(0)
}

// MockVoiceProfileRepo is a mock implementation of VoiceProfileRepo.
type MockVoiceProfileRepo struct {
	mock.Mock
}

func (m *MockVoiceProfileRepo) GetOwn(ctx context.Context, userID string) (*data.VoiceProfile, error) {
	args := m.Called(ctx, userID)
	vp, _ := args.Get(0).(*data.VoiceProfile)
	return vp, args.Error(1)
}

func (m *MockVoiceProfileRepo) GetByID(ctx context.Context, id string) (*data.VoiceProfile, error) {
	args := m.Called(ctx, id)
	vp, _ := args.Get(0).(*data.VoiceProfile)
	return vp, args.Error(1)
}

func (m *MockVoiceProfileRepo) UpsertOwn(ctx context.Context, vp *data.VoiceProfile) error {
	return m.Called(ctx, vp).Error(0)
}

// MockClientRepo is a mock implementation of ClientRepo.
type MockClientRepo struct {
	mock.Mock
}

func (m *MockClientRepo) GetForUser(ctx context.Context, clientID, userID string) (*data.Client, error) {
	args := m.Called(ctx, clientID, userID)
	c, _ := args.Get(0).(*data.Client)
	return c, args.Error(1)
}

// MockPostRepo is a mock implementation of PostRepo.
type MockPostRepo struct {
	mock.Mock
}

func (m *MockPostRepo) ListDue(ctx context.Context, from, to time.Time) ([]*data.Post, error) {
	args := m.Called(ctx, from, to)
	posts, _ := args.Get(0).([]*data.Post)
	return posts, args.Error(1)
}

func (m *MockPostRepo) MarkPublished(ctx context.Context, id, linkedinPostID string, publishedAt time.Time) error {
	return m.Called(ctx, id, linkedinPostID, publishedAt).Error(0)
}

func (m *MockPostRepo) MarkFailed(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// MockUsageLogRepo is a mock implementation of UsageLogRepo.
type MockUsageLogRepo struct {
	mock.Mock
}

func (m *MockUsageLogRepo) Append(ctx context.Context, entry *data.UsageLog) error {
	return m.Called(ctx, entry).Error(0)
}

// MockRateLimitRepo is a mock implementation of RateLimitRepo.
type MockRateLimitRepo struct {
	mock.Mock
}

func (m *MockRateLimitRepo) Available() bool {
	return m.Called().Bool(0)
}

func (m *MockRateLimitRepo) IncrementRPM(ctx context.Context, accountID string) (int64, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(int64), args.Error(1)
}

// MockIdentityProvider is a mock implementation of IdentityProvider.
type MockIdentityProvider struct {
	mock.Mock
}

func (m *MockIdentityProvider) AuthCodeURL(state string) string {
	return m.Called(state).String(0)
}

func (m *MockIdentityProvider) ExchangeCode(ctx context.Context, code string) (*linkedin.Tokens, error) {
	args := m.Called(ctx, code)
	tok, _ := args.Get(0).(*linkedin.Tokens)
	return tok, args.Error(1)
}

func (m *MockIdentityProvider) FetchProfile(ctx context.Context, accessToken string) (*linkedin.Profile, error) {
	args := m.Called(ctx, accessToken)
	p, _ := args.Get(0).(*linkedin.Profile)
	return p, args.Error(1)
}

func (m *MockIdentityProvider) Refresh(ctx context.Context, refreshToken string) (*linkedin.Tokens, error) {
	args := m.Called(ctx, refreshToken)
	tok, _ := args.Get(0).(*linkedin.Tokens)
	return tok, args.Error(1)
}

func (m *MockIdentityProvider) Publish(ctx context.Context, accessToken, externalID, content string) (string, error) {
	args := m.Called(ctx, accessToken, externalID, content)
	return args.String(0), args.Error(1)
}

// MockLLMGateway is a mock implementation of LLMGateway.
type MockLLMGateway struct {
	mock.Mock
}

func (m *MockLLMGateway) Complete(ctx context.Context, in openrouter.Request) (*openrouter.Completion, error) {
	args := m.Called(ctx, in)
	c, _ := args.Get(0).(*openrouter.Completion)
	return c, args.Error(1)
}

func (m *MockLLMGateway) Model() string {
	return "test-model"
}

// memoryJar is an in-memory CookieJar.
type memoryJar struct {
	values  map[string]string
	set     []*http.Cookie
	deleted []string
}

func newMemoryJar(values map[string]string) *memoryJar {
	if values == nil {
		values = map[string]string{}
	}
	return &memoryJar{values: values}
}

func (j *memoryJar) Get(name string) (string, bool) {
	v, ok := j.values[name]
	return v, ok
}

func (j *memoryJar) Set(c *http.Cookie) {
	j.values[c.Name] = c.Value
	j.set = append(j.set, c)
}

func (j *memoryJar) Delete(name string) {
	delete(j.values, name)
	j.deleted = append(j.deleted, name)
}

func (j *memoryJar) cookie(name string) *http.Cookie {
	for i := len(j.set) - 1; i >= 0; i-- {
		if j.set[i].Name == name {
			return j.set[i]
		}
	}
	return nil
}
