package task

import (
	"context"

	"go.uber.org/zap"
)

// ==================== TaskManager 定时任务管理器 ====================

// TaskManager 统一管理业务定时任务
// 管理范围：脚本巡检、Token 保活
// 不包含：事件分区维护（由 database.PartitionTask 独立管理）
type TaskManager struct {
	auditTask   *ScriptAuditTask
	refreshTask *TokenRefreshTask
	log         *zap.Logger
}

// TaskManagerDeps 任务管理器依赖
type TaskManagerDeps struct {
	Configs    InstalledLister
	Reconciler ScriptReconciler
	Accounts   AccountRefresher
}

// TaskManagerConfig 任务管理器配置
type TaskManagerConfig struct {
	AuditEnabled     bool
	AuditCron        string
	AuditConcurrency int

	RefreshEnabled bool
	RefreshCron    string
}

// DefaultConfig 默认配置
func DefaultConfig() *TaskManagerConfig {
	return &TaskManagerConfig{
		AuditEnabled:     true,
		AuditCron:        "0 0 * * * *",
		AuditConcurrency: 5,

		RefreshEnabled: true,
		RefreshCron:    "0 0/40 * * * *",
	}
}

// NewTaskManager 依赖缺失的任务不创建
func NewTaskManager(deps *TaskManagerDeps, cfg *TaskManagerConfig, log *zap.Logger) *TaskManager {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	tm := &TaskManager{log: log}

	if cfg.AuditEnabled && deps.Configs != nil && deps.Reconciler != nil {
		tm.auditTask = NewScriptAuditTask(deps.Configs, deps.Reconciler, cfg.AuditCron, log)
		tm.auditTask.SetConcurrency(cfg.AuditConcurrency)
	}

	if cfg.RefreshEnabled && deps.Accounts != nil {
		tm.refreshTask = NewTokenRefreshTask(deps.Accounts, cfg.RefreshCron, log)
	}

	return tm
}

// ==================== 生命周期管理 ====================

// Start cron 表达式非法时返回错误
func (tm *TaskManager) Start() error {
	tm.log.Info("[TaskManager] 正在启动定时任务...")

	if tm.auditTask != nil {
		if err := tm.auditTask.Start(); err != nil {
			return err
		}
	}
	if tm.refreshTask != nil {
		if err := tm.refreshTask.Start(); err != nil {
			return err
		}
	}

	tm.log.Info("[TaskManager] 定时任务已全部启动", zap.Any("status", tm.Status()))
	return nil
}

// Stop 停止所有任务
func (tm *TaskManager) Stop() {
	if tm.auditTask != nil {
		tm.auditTask.Stop()
	}
	if tm.refreshTask != nil {
		tm.refreshTask.Stop()
	}
	tm.log.Info("[TaskManager] 定时任务已全部停止")
}

// ==================== 手动触发接口 ====================

// TriggerAudit 立即执行一轮脚本巡检
func (tm *TaskManager) TriggerAudit(ctx context.Context) (AuditResult, error) {
	if tm.auditTask == nil {
		return AuditResult{}, ErrTaskDisabled
	}
	return tm.auditTask.RunOnce(ctx), nil
}

// TriggerTokenRefresh 立即执行一轮 Token 刷新
func (tm *TaskManager) TriggerTokenRefresh(ctx context.Context) (int, error) {
	if tm.refreshTask == nil {
		return 0, ErrTaskDisabled
	}
	return tm.refreshTask.RunOnce(ctx), nil
}

// ==================== 状态查询 ====================

// Status 获取任务状态
func (tm *TaskManager) Status() map[string]bool {
	return map[string]bool{
		"script_audit":  tm.auditTask != nil,
		"token_refresh": tm.refreshTask != nil,
	}
}

// ==================== 错误定义 ====================

type TaskError string

func (e TaskError) Error() string { return string(e) }

const (
	ErrTaskDisabled TaskError = "task is disabled"
)
