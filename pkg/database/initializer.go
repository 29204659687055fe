package database

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MigrateOptions 迁移参数
type MigrateOptions struct {
	Models []interface{}

	// RetentionOverrides 表名 -> 保留月数，覆盖 partition_tables.conf
	RetentionOverrides map[string]int

	// FutureMonths 提前创建的分区月数，默认 3
	FutureMonths int
}

// Migrator 建表与分区初始化
// Postgres 下分区表走 DDL，其余模型 AutoMigrate；其他方言（测试用 sqlite）全部 AutoMigrate
type Migrator struct {
	db      *gorm.DB
	config  *PartitionConfig
	manager *PartitionManager
	opts    MigrateOptions
	log     *zap.Logger
}

func NewMigrator(db *gorm.DB, opts MigrateOptions, log *zap.Logger) (*Migrator, error) {
	if log == nil {
		log = zap.NewNop()
	}
	cfg, err := LoadPartitionConfig(PartitionFS, partitionRoot)
	if err != nil {
		return nil, err
	}
	for table, months := range opts.RetentionOverrides {
		cfg.OverrideRetention(table, months)
	}
	if opts.FutureMonths <= 0 {
		opts.FutureMonths = 3
	}

	return &Migrator{
		db:      db,
		config:  cfg,
		manager: NewPartitionManager(db, cfg, log),
		opts:    opts,
		log:     log,
	}, nil
}

// Partitioned 当前连接是否支持原生分区
func (m *Migrator) Partitioned() bool {
	return m.db.Dialector.Name() == "postgres"
}

// Migrate 执行迁移
func (m *Migrator) Migrate(ctx context.Context) error {
	start := time.Now()

	models := m.opts.Models
	if m.Partitioned() {
		if err := m.manager.CreateTables(ctx); err != nil {
			return err
		}
		if err := m.manager.EnsureFuturePartitions(ctx, m.opts.FutureMonths); err != nil {
			return err
		}
		var err error
		if models, err = m.plainModels(); err != nil {
			return err
		}
	}

	if len(models) > 0 {
		if err := m.db.WithContext(ctx).AutoMigrate(models...); err != nil {
			return fmt.Errorf("AutoMigrate 失败: %w", err)
		}
	}

	m.log.Info("[DB] 迁移完成",
		zap.String("dialect", m.db.Dialector.Name()),
		zap.Int("models", len(models)),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}

// plainModels 去掉由分区 DDL 管理的模型
func (m *Migrator) plainModels() ([]interface{}, error) {
	out := make([]interface{}, 0, len(m.opts.Models))
	for _, model := range m.opts.Models {
		stmt := &gorm.Statement{DB: m.db}
		if err := stmt.Parse(model); err != nil {
			return nil, fmt.Errorf("解析模型失败: %w", err)
		}
		if m.config.IsPartitioned(stmt.Schema.Table) {
			continue
		}
		out = append(out, model)
	}
	return out, nil
}

// Manager 分区管理器，供 PartitionTask 使用
func (m *Migrator) Manager() *PartitionManager {
	return m.manager
}

// Config 生效的分区配置
func (m *Migrator) Config() *PartitionConfig {
	return m.config
}
