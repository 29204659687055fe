package task

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"searchier/internal/model"
	"searchier/pkg/utils"
)

// ==================== TokenRefreshTask Token 保活 ====================

// AccountRefresher 查询并刷新即将过期的授权
type AccountRefresher interface {
	ListExpiringAccounts(ctx context.Context, within time.Duration) ([]model.OAuthAccount, error)
	RefreshAccount(ctx context.Context, account model.OAuthAccount) error
}

// TokenRefreshTask 提前刷新一小时内过期的 Lightfunnels token，顺带清理过期的 OAuth state
type TokenRefreshTask struct {
	auth     AccountRefresher
	cron     *cron.Cron
	schedule string
	log      *zap.Logger

	window      time.Duration
	concurrency int
}

func NewTokenRefreshTask(auth AccountRefresher, schedule string, log *zap.Logger) *TokenRefreshTask {
	return &TokenRefreshTask{
		auth:        auth,
		cron:        cron.New(cron.WithSeconds()),
		schedule:    schedule,
		log:         log.Named("token_refresh"),
		window:      time.Hour,
		concurrency: 10,
	}
}

// Start 启动时先跑一轮，再按 cron 执行
func (t *TokenRefreshTask) Start() error {
	_, err := t.cron.AddFunc(t.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		t.RunOnce(ctx)
	})
	if err != nil {
		return err
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		t.RunOnce(ctx)
	}()

	t.cron.Start()
	t.log.Info("[TokenRefreshTask] 已启动", zap.String("cron", t.schedule))
	return nil
}

// Stop 停止调度
func (t *TokenRefreshTask) Stop() {
	<-t.cron.Stop().Done()
	t.log.Info("[TokenRefreshTask] 已停止")
}

// RunOnce 返回刷新成功的数量
func (t *TokenRefreshTask) RunOnce(ctx context.Context) int {
	if purged := utils.PurgeExpired(); purged > 0 {
		t.log.Debug("[TokenRefreshTask] 清理过期缓存", zap.Int("count", purged))
	}

	accounts, err := t.auth.ListExpiringAccounts(ctx, t.window)
	if err != nil {
		t.log.Error("[TokenRefreshTask] 查询过期授权失败", zap.Error(err))
		return 0
	}

	var refreshed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(t.concurrency)

	for _, account := range accounts {
		if account.RefreshToken == "" {
			continue
		}
		g.Go(func() error {
			if err := t.auth.RefreshAccount(gctx, account); err != nil {
				t.log.Warn("[TokenRefreshTask] 刷新失败",
					zap.Int64("user_id", account.UserID),
					zap.String("account_id", account.AccountID),
					zap.Error(err))
				return nil
			}
			refreshed.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	if len(accounts) > 0 {
		t.log.Info("[TokenRefreshTask] 本轮刷新完成",
			zap.Int("expiring", len(accounts)),
			zap.Int64("refreshed", refreshed.Load()))
	}
	return int(refreshed.Load())
}
