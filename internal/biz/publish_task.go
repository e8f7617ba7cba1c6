package biz

import (
	"context"
	"errors"
	"fmt"
	"time"

	"Authormity/internal/conf"
	"Authormity/internal/data"

	"github.com/go-kratos/kratos/v2/log"
)

const (
	defaultPublishWindow = 10 * time.Minute
	defaultRefreshBefore = 5 * 24 * time.Hour
)

var errNoLinkedIdentity = errors.New("account has no linked LinkedIn identity")

// PublishReport summarizes one publisher run.
type PublishReport struct {
	Processed int `json:"processed"`
	Failed    int `json:"failed"`
	Total     int `json:"total"`
}

// PublishTask 定时发布任务：发布到期的排期帖子，必要时先刷新 Token
type PublishTask struct {
	posts         PostRepo
	profiles      ProfileRepo
	idp           IdentityProvider
	cipher        TokenCipher
	window        time.Duration
	refreshBefore time.Duration
	now           func() time.Time
	logger        *log.Helper
}

// NewPublishTask 创建定时发布任务
func NewPublishTask(
	posts PostRepo,
	profiles ProfileRepo,
	idp IdentityProvider,
	cipher TokenCipher,
	c *conf.Scheduler,
	logger log.Logger,
) *PublishTask {
	t := &PublishTask{
		posts:         posts,
		profiles:      profiles,
		idp:           idp,
		cipher:        cipher,
		window:        defaultPublishWindow,
		refreshBefore: defaultRefreshBefore,
		now:           time.Now,
		logger:        log.NewHelper(logger),
	}
	if c != nil {
		if c.Window > 0 {
			t.window = c.Window
		}
		if c.RefreshBefore > 0 {
			t.refreshBefore = c.RefreshBefore
		}
	}
	return t
}

// PublishDuePosts publishes posts scheduled within the last window. A failure
// marks only that post failed.
func (t *PublishTask) PublishDuePosts(ctx context.Context) (*PublishReport, error) {
	now := t.now().UTC()
	posts, err := t.posts.ListDue(ctx, now.Add(-t.window), now)
	if err != nil {
		return nil, fmt.Errorf("failed to list due posts: %w", err)
	}

	report := &PublishReport{Total: len(posts)}
	if len(posts) == 0 {
		t.logger.Debug("No scheduled posts due")
		return report, nil
	}

	for _, post := range posts {
		if err := t.publish(ctx, post, now); err != nil {
			t.logger.Errorw("msg", "failed to publish scheduled post",
				"post_id", post.ID,
				"account_id", post.UserID,
				"error", err)
			if markErr := t.posts.MarkFailed(ctx, post.ID); markErr != nil {
				t.logger.Errorw("msg", "failed to mark post failed", "post_id", post.ID, "error", markErr)
			}
			report.Failed++
			continue
		}
		report.Processed++
	}

	t.logger.Infow("msg", "publish task completed",
		"total", report.Total,
		"processed", report.Processed,
		"failed", report.Failed)
	return report, nil
}

func (t *PublishTask) publish(ctx context.Context, post *data.Post, now time.Time) error {
	profile, err := t.profiles.FindByID(ctx, post.UserID)
	if err != nil {
		return fmt.Errorf("load account: %w", err)
	}
	if profile.LinkedInID == nil || *profile.LinkedInID == "" {
		return errNoLinkedIdentity
	}

	accessToken, err := t.cipher.Decrypt(profile.LinkedInAccessToken)
	if err != nil {
		return fmt.Errorf("decrypt access token: %w", err)
	}

	if t.needsRefresh(profile, now) {
		accessToken, err = t.refresh(ctx, profile, now)
		if err != nil {
			return err
		}
	}

	postID, err := t.idp.Publish(ctx, accessToken, *profile.LinkedInID, post.Content)
	if err != nil {
		return fmt.Errorf("publish: %w", err)
	}

	if err := t.posts.MarkPublished(ctx, post.ID, postID, now); err != nil {
		return fmt.Errorf("mark published: %w", err)
	}

	t.logger.Infow("msg", "scheduled post published", "post_id", post.ID, "account_id", post.UserID, "linkedin_post_id", postID)
	return nil
}

func (t *PublishTask) needsRefresh(p *data.Profile, now time.Time) bool {
	if p.LinkedInTokenExpiresAt == nil {
		return true
	}
	return !now.Before(p.LinkedInTokenExpiresAt.Add(-t.refreshBefore))
}

// refresh rotates the account's tokens and returns the new access token.
func (t *PublishTask) refresh(ctx context.Context, p *data.Profile, now time.Time) (string, error) {
	refreshToken, err := t.cipher.Decrypt(p.LinkedInRefreshToken)
	if err != nil {
		return "", fmt.Errorf("decrypt refresh token: %w", err)
	}

	tokens, err := t.idp.Refresh(ctx, refreshToken)
	if err != nil {
		return "", fmt.Errorf("refresh token: %w", err)
	}
	// LinkedIn 不一定轮换 refresh token
	if tokens.RefreshToken == "" {
		tokens.RefreshToken = refreshToken
	}

	encAccess, err := t.cipher.Encrypt(tokens.AccessToken)
	if err != nil {
		return "", fmt.Errorf("encrypt access token: %w", err)
	}
	encRefresh, err := t.cipher.Encrypt(tokens.RefreshToken)
	if err != nil {
		return "", fmt.Errorf("encrypt refresh token: %w", err)
	}

	expiresAt := now.Add(time.Duration(tokens.ExpiresIn) * time.Second)
	if err := t.profiles.UpdateTokens(ctx, p.ID, encAccess, encRefresh, expiresAt); err != nil {
		return "", fmt.Errorf("store refreshed tokens: %w", err)
	}

	t.logger.Infow("msg", "linkedin token refreshed", "account_id", p.ID, "expires_at", expiresAt)
	return tokens.AccessToken, nil
}
