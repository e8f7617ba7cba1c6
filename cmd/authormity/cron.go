package main

import (
	"context"
	"time"

	"Authormity/internal/biz"
	"Authormity/internal/conf"
	pkglog "Authormity/pkg/log"

	"github.com/go-kratos/kratos/v2"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/robfig/cron/v3"
)

const (
	defaultPublishSpec = "0 */5 * * * *"
	publishRunTimeout  = 4 * time.Minute
)

// NewPublishCron 注册定时发布任务，未启用时返回 nil
// Cron 表达式带秒字段（秒 分 时 日 月 周），默认每 5 分钟执行一次
func NewPublishCron(task *biz.PublishTask, c *conf.Scheduler, logger log.Logger) (*cron.Cron, error) {
	helper := pkglog.NewLogHelper(logger)
	if c == nil || !c.Enabled {
		helper.Scheduler("in-process publisher disabled, relying on /internal/cron/publish")
		return nil, nil
	}

	spec := c.PublishSpec
	if spec == "" {
		spec = defaultPublishSpec
	}

	// 上一轮未结束时跳过本轮，避免同一帖子被重复发布
	sched := cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	_, err := sched.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishRunTimeout)
		defer cancel()

		report, err := task.PublishDuePosts(ctx)
		if err != nil {
			helper.Errorw("msg", "scheduled publish run failed", "type", "scheduler", "error", err)
			return
		}
		if report.Total > 0 {
			helper.Scheduler("scheduled publish run finished",
				"total", report.Total,
				"processed", report.Processed,
				"failed", report.Failed)
		}
	})
	if err != nil {
		return nil, err
	}

	helper.Scheduler("publish cron registered", "spec", spec)
	return sched, nil
}

// withCron ties the scheduler to the application lifecycle.
func withCron(c *cron.Cron) []kratos.Option {
	return []kratos.Option{
		kratos.AfterStart(func(context.Context) error {
			c.Start()
			return nil
		}),
		kratos.BeforeStop(func(ctx context.Context) error {
			select {
			case <-c.Stop().Done():
			case <-ctx.Done():
			}
			return nil
		}),
	}
}
