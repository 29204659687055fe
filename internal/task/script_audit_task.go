package task

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"searchier/internal/model"
)

// ==================== ScriptAuditTask 脚本巡检任务 ====================

// InstalledLister 列出已安装的店铺配置
type InstalledLister interface {
	ListInstalled(ctx context.Context) ([]model.StoreConfig, error)
}

// ScriptReconciler 标签缺失时重新注入
type ScriptReconciler interface {
	Reconcile(ctx context.Context, cfg model.StoreConfig) (bool, error)
}

// AuditResult 一轮巡检的统计
type AuditResult struct {
	Checked  int
	Restored int
	Failed   int
}

// ScriptAuditTask 定时检查已安装店铺的 header_scripts，商家手动删掉标签后补回
type ScriptAuditTask struct {
	configs    InstalledLister
	reconciler ScriptReconciler
	cron       *cron.Cron
	schedule   string
	log        *zap.Logger

	concurrency int
	timeout     time.Duration
}

func NewScriptAuditTask(configs InstalledLister, reconciler ScriptReconciler, schedule string, log *zap.Logger) *ScriptAuditTask {
	return &ScriptAuditTask{
		configs:     configs,
		reconciler:  reconciler,
		cron:        cron.New(cron.WithSeconds()),
		schedule:    schedule,
		log:         log.Named("script_audit"),
		concurrency: 5,
		timeout:     10 * time.Minute,
	}
}

// SetConcurrency 设置并发上限
func (t *ScriptAuditTask) SetConcurrency(limit int) {
	if limit > 0 {
		t.concurrency = limit
	}
}

// Start 注册 cron 并启动
func (t *ScriptAuditTask) Start() error {
	_, err := t.cron.AddFunc(t.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
		defer cancel()
		t.RunOnce(ctx)
	})
	if err != nil {
		return err
	}
	t.cron.Start()
	t.log.Info("[ScriptAuditTask] 已启动", zap.String("cron", t.schedule))
	return nil
}

// Stop 等待正在执行的一轮结束
func (t *ScriptAuditTask) Stop() {
	<-t.cron.Stop().Done()
	t.log.Info("[ScriptAuditTask] 已停止")
}

// RunOnce 执行一轮巡检，单个店铺失败不影响其他店铺
func (t *ScriptAuditTask) RunOnce(ctx context.Context) AuditResult {
	configs, err := t.configs.ListInstalled(ctx)
	if err != nil {
		t.log.Error("[ScriptAuditTask] 查询已安装店铺失败", zap.Error(err))
		return AuditResult{}
	}
	if len(configs) == 0 {
		return AuditResult{}
	}

	var restored, failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(t.concurrency)

	for _, cfg := range configs {
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			changed, err := t.reconciler.Reconcile(gctx, cfg)
			switch {
			case err != nil:
				failed.Add(1)
				t.log.Warn("[ScriptAuditTask] 店铺巡检失败",
					zap.String("store_id", cfg.StoreID), zap.Error(err))
			case changed:
				restored.Add(1)
				t.log.Info("[ScriptAuditTask] 已补回脚本标签", zap.String("store_id", cfg.StoreID))
			}
			return nil
		})
	}
	_ = g.Wait()

	result := AuditResult{
		Checked:  len(configs),
		Restored: int(restored.Load()),
		Failed:   int(failed.Load()),
	}
	t.log.Info("[ScriptAuditTask] 本轮巡检完成",
		zap.Int("checked", result.Checked),
		zap.Int("restored", result.Restored),
		zap.Int("failed", result.Failed))
	return result
}
