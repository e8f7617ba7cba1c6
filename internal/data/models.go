package data

import (
	"errors"
	"time"
)

// ErrNotFound is returned by repositories when a row does not exist.
var ErrNotFound = errors.New("record not found")

// Plan is a subscription tier.
type Plan string

// Plan tiers.
const (
	PlanFree Plan = "free"
	PlanPro  Plan = "pro"
	PlanTeam Plan = "team"
)

// PlanStatus is the billing state of a plan.
type PlanStatus string

// Plan statuses.
const (
	PlanStatusActive    PlanStatus = "active"
	PlanStatusCancelled PlanStatus = "cancelled"
	PlanStatusExpired   PlanStatus = "expired"
)

// PostStatus is the lifecycle state of a post.
type PostStatus string

// Post statuses.
const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusScheduled PostStatus = "scheduled"
	PostStatusPublished PostStatus = "published"
	PostStatusFailed    PostStatus = "failed"
)

// Profile is the first-party account (profiles table).
// LinkedIn tokens are stored encrypted by pkg/crypto.
type Profile struct {
	ID                     string     `gorm:"column:id;type:varchar(36);primaryKey"`
	Email                  *string    `gorm:"column:email;type:varchar(255);uniqueIndex"`
	FullName               string     `gorm:"column:full_name;size:255"`
	AvatarURL              string     `gorm:"column:avatar_url;size:1024"`
	Headline               string     `gorm:"column:headline;size:255"`
	Plan                   Plan       `gorm:"column:plan;type:varchar(16);default:free;not null"`
	PlanStatus             PlanStatus `gorm:"column:plan_status;type:varchar(16);default:active;not null"`
	PlanExpiresAt          *time.Time `gorm:"column:plan_expires_at"`
	BillingCustomerID      string     `gorm:"column:billing_customer_id;size:128"`
	PostsUsedThisMonth     int        `gorm:"column:posts_used_this_month;default:0;not null"`
	PostsResetAt           time.Time  `gorm:"column:posts_reset_at;not null"`
	LinkedInID             *string    `gorm:"column:linkedin_id;type:varchar(64);uniqueIndex"`
	LinkedInAccessToken    string     `gorm:"column:linkedin_access_token;type:text"`
	LinkedInRefreshToken   string     `gorm:"column:linkedin_refresh_token;type:text"`
	LinkedInTokenExpiresAt *time.Time `gorm:"column:linkedin_token_expires_at"`
	Niche                  string     `gorm:"column:niche;size:255"`
	TargetAudience         *string    `gorm:"column:target_audience;size:512"`
	OnboardingCompleted    bool       `gorm:"column:onboarding_completed;default:false;not null"`
	CreatedAt              time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt              time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for GORM.
func (Profile) TableName() string {
	return "profiles"
}

// VoiceProfile is a writing-style profile. ClientID is nil for the owner's own voice.
type VoiceProfile struct {
	ID                string    `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	UserID            string    `gorm:"column:user_id;type:varchar(36);index;not null" json:"user_id"`
	ClientID          *string   `gorm:"column:client_id;type:varchar(36);index" json:"client_id,omitempty"`
	SamplePosts       []string  `gorm:"column:sample_posts;type:text;serializer:json" json:"sample_posts"`
	Tone              string    `gorm:"column:tone;size:32" json:"tone"`
	SentenceLength    string    `gorm:"column:sentence_length;size:32" json:"sentence_length"`
	EmojiUsage        string    `gorm:"column:emoji_usage;size:32" json:"emoji_usage"`
	HookStyle         string    `gorm:"column:hook_style;size:32" json:"hook_style"`
	Vocabulary        []string  `gorm:"column:vocabulary;type:text;serializer:json" json:"vocabulary"`
	Avoids            []string  `gorm:"column:avoids;type:text;serializer:json" json:"avoids"`
	PersonalityTraits []string  `gorm:"column:personality_traits;type:text;serializer:json" json:"personality_traits"`
	Signature         string    `gorm:"column:signature;type:text" json:"signature"`
	RawAnalysis       string    `gorm:"column:raw_analysis;type:text" json:"raw_analysis,omitempty"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (VoiceProfile) TableName() string {
	return "voice_profiles"
}

// Client is a ghostwriting client owned by a user.
type Client struct {
	ID             string    `gorm:"column:id;type:varchar(36);primaryKey"`
	UserID         string    `gorm:"column:user_id;type:varchar(36);index;not null"`
	Name           string    `gorm:"column:name;size:255;not null"`
	Niche          string    `gorm:"column:niche;size:255"`
	VoiceProfileID *string   `gorm:"column:voice_profile_id;type:varchar(36)"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for GORM.
func (Client) TableName() string {
	return "clients"
}

// Post is a LinkedIn post draft or scheduled publication.
type Post struct {
	ID             string     `gorm:"column:id;type:varchar(36);primaryKey"`
	UserID         string     `gorm:"column:user_id;type:varchar(36);index;not null"`
	ClientID       *string    `gorm:"column:client_id;type:varchar(36)"`
	Content        string     `gorm:"column:content;type:text;not null"`
	Status         PostStatus `gorm:"column:status;type:varchar(16);default:draft;not null;index:idx_posts_status_scheduled,priority:1"`
	ScheduledAt    *time.Time `gorm:"column:scheduled_at;index:idx_posts_status_scheduled,priority:2"`
	PublishedAt    *time.Time `gorm:"column:published_at"`
	LinkedInPostID string     `gorm:"column:linkedin_post_id;size:128"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for GORM.
func (Post) TableName() string {
	return "posts"
}

// UsageLog is an append-only audit row per generation.
type UsageLog struct {
	ID         string    `gorm:"column:id;type:varchar(36);primaryKey"`
	UserID     string    `gorm:"column:user_id;type:varchar(36);index;not null"`
	Action     string    `gorm:"column:action;size:64;not null"`
	ModelUsed  string    `gorm:"column:model_used;size:128"`
	TokensUsed *int      `gorm:"column:tokens_used"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName specifies the table name for GORM.
func (UsageLog) TableName() string {
	return "usage_logs"
}

// AllModels lists every table for AutoMigrate.
func AllModels() []interface{} {
	return []interface{}{&Profile{}, &VoiceProfile{}, &Client{}, &Post{}, &UsageLog{}}
}
