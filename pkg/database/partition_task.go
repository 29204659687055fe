package database

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// PartitionTask 每天补建未来分区并删除过期分区
type PartitionTask struct {
	manager      *PartitionManager
	futureMonths int
	schedule     string
	cron         *cron.Cron
	log          *zap.Logger
}

// PartitionTaskOption 任务选项
type PartitionTaskOption func(*PartitionTask)

// WithFutureMonths 提前创建的月数
func WithFutureMonths(months int) PartitionTaskOption {
	return func(t *PartitionTask) {
		if months > 0 {
			t.futureMonths = months
		}
	}
}

// WithSchedule cron 表达式（秒级）
func WithSchedule(schedule string) PartitionTaskOption {
	return func(t *PartitionTask) {
		if schedule != "" {
			t.schedule = schedule
		}
	}
}

func NewPartitionTask(manager *PartitionManager, opts ...PartitionTaskOption) *PartitionTask {
	t := &PartitionTask{
		manager:      manager,
		futureMonths: 3,
		schedule:     "0 30 3 * * *",
		cron:         cron.New(cron.WithSeconds()),
		log:          manager.log,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Start 立即执行一次后按计划执行
func (t *PartitionTask) Start() error {
	if _, err := t.cron.AddFunc(t.schedule, t.RunOnce); err != nil {
		return err
	}
	go t.RunOnce()
	t.cron.Start()
	t.log.Info("[PartitionTask] 已启动", zap.String("cron", t.schedule), zap.Int("future_months", t.futureMonths))
	return nil
}

// Stop 等待执行中的一轮结束
func (t *PartitionTask) Stop() {
	<-t.cron.Stop().Done()
	t.log.Info("[PartitionTask] 已停止")
}

// RunOnce 补建、清理、检查
func (t *PartitionTask) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	start := time.Now()

	if err := t.manager.EnsureFuturePartitions(ctx, t.futureMonths); err != nil {
		t.log.Error("[PartitionTask] 创建分区失败", zap.Error(err))
	}

	dropped, err := t.manager.DropExpired(ctx)
	if err != nil {
		t.log.Error("[PartitionTask] 清理过期分区失败", zap.Error(err))
	}

	missing, err := t.manager.MissingPartitions(ctx)
	switch {
	case err != nil:
		t.log.Warn("[PartitionTask] 健康检查失败", zap.Error(err))
	case len(missing) > 0:
		t.log.Warn("[PartitionTask] 缺失分区", zap.Strings("partitions", missing))
	}

	t.log.Info("[PartitionTask] 执行完成", zap.Int("dropped", dropped), zap.Duration("elapsed", time.Since(start)))
}
