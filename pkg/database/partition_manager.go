package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PartitionManager 按月维护 RANGE 分区
type PartitionManager struct {
	db     *gorm.DB
	config *PartitionConfig
	log    *zap.Logger
	now    func() time.Time
}

func NewPartitionManager(db *gorm.DB, config *PartitionConfig, log *zap.Logger) *PartitionManager {
	if log == nil {
		log = zap.NewNop()
	}
	return &PartitionManager{db: db, config: config, log: log.Named("partition"), now: time.Now}
}

// ==================== 命名 ====================

// monthStart 当月 1 日 00:00 UTC
func monthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// PartitionName 形如 search_events_y2026m03
func PartitionName(table string, month time.Time) string {
	m := monthStart(month)
	return fmt.Sprintf("%s_y%dm%02d", table, m.Year(), m.Month())
}

// ParsePartitionMonth PartitionName 的逆操作
func ParsePartitionMonth(partition, table string) (time.Time, error) {
	suffix, ok := strings.CutPrefix(partition, table+"_y")
	if !ok {
		return time.Time{}, fmt.Errorf("%s 不是 %s 的分区", partition, table)
	}
	var year, month int
	if _, err := fmt.Sscanf(suffix, "%dm%d", &year, &month); err != nil {
		return time.Time{}, fmt.Errorf("无效分区名 %s: %w", partition, err)
	}
	if month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("无效分区名 %s", partition)
	}
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC), nil
}

// RetentionCutoff 早于该月的分区可删除；保留 0 个月时返回零值
func RetentionCutoff(now time.Time, months int) time.Time {
	if months <= 0 {
		return time.Time{}
	}
	return monthStart(now).AddDate(0, -months, 0)
}

// ==================== 建表与建分区 ====================

// CreateTables 主表不存在时执行 DDL
func (m *PartitionManager) CreateTables(ctx context.Context) error {
	for _, table := range m.config.Tables {
		exists, err := m.relationExists(ctx, table.TableName)
		if err != nil {
			return fmt.Errorf("检查表 %s 失败: %w", table.TableName, err)
		}
		if exists {
			continue
		}
		if err := m.db.WithContext(ctx).Exec(table.DDL).Error; err != nil {
			return fmt.Errorf("创建表 %s 失败: %w", table.TableName, err)
		}
		m.log.Info("[Partition] 创建分区主表", zap.String("table", table.TableName))
	}
	return nil
}

// EnsureFuturePartitions 当月及之后 monthsAhead 个月的分区
func (m *PartitionManager) EnsureFuturePartitions(ctx context.Context, monthsAhead int) error {
	base := monthStart(m.now())
	var failed int
	for i := 0; i <= monthsAhead; i++ {
		month := base.AddDate(0, i, 0)
		for _, table := range m.config.Tables {
			if err := m.createPartition(ctx, table.TableName, month); err != nil {
				failed++
				m.log.Error("[Partition] 创建分区失败", zap.String("table", table.TableName), zap.Error(err))
			}
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d 个分区创建失败", failed)
	}
	return nil
}

func (m *PartitionManager) createPartition(ctx context.Context, table string, month time.Time) error {
	name := PartitionName(table, month)
	exists, err := m.relationExists(ctx, name)
	if err != nil || exists {
		return err
	}

	start := monthStart(month)
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s PARTITION OF %s FOR VALUES FROM ('%s') TO ('%s')`,
		name, table, start.Format("2006-01-02"), start.AddDate(0, 1, 0).Format("2006-01-02"))
	if err := m.db.WithContext(ctx).Exec(ddl).Error; err != nil {
		return err
	}
	m.log.Info("[Partition] 创建分区", zap.String("partition", name))
	return nil
}

func (m *PartitionManager) relationExists(ctx context.Context, name string) (bool, error) {
	var count int64
	err := m.db.WithContext(ctx).
		Raw(`SELECT COUNT(*) FROM pg_tables WHERE schemaname = current_schema() AND tablename = ?`, name).
		Scan(&count).Error
	return count > 0, err
}

// ==================== 过期清理 ====================

// DropExpired 删除超出保留期的分区，返回删除数量
func (m *PartitionManager) DropExpired(ctx context.Context) (int, error) {
	dropped := 0
	for _, table := range m.config.Tables {
		cutoff := RetentionCutoff(m.now(), table.RetentionMonths)
		if cutoff.IsZero() {
			continue
		}

		partitions, err := m.ListPartitions(ctx, table.TableName)
		if err != nil {
			return dropped, fmt.Errorf("列出 %s 分区失败: %w", table.TableName, err)
		}
		for _, p := range partitions {
			month, err := ParsePartitionMonth(p.Name, table.TableName)
			if err != nil || !month.Before(cutoff) {
				continue
			}
			if err := m.db.WithContext(ctx).Exec("DROP TABLE IF EXISTS " + p.Name).Error; err != nil {
				m.log.Error("[Partition] 删除分区失败", zap.String("partition", p.Name), zap.Error(err))
				continue
			}
			dropped++
			m.log.Info("[Partition] 删除过期分区", zap.String("partition", p.Name))
		}
	}
	return dropped, nil
}

// ==================== 查询 ====================

// PartitionInfo 分区信息
type PartitionInfo struct {
	Name      string `gorm:"column:partition_name"`
	Range     string `gorm:"column:partition_range"`
	SizeBytes int64  `gorm:"column:size_bytes"`
}

// ListPartitions 列出表的所有分区
func (m *PartitionManager) ListPartitions(ctx context.Context, table string) ([]PartitionInfo, error) {
	var partitions []PartitionInfo
	err := m.db.WithContext(ctx).Raw(`
		SELECT
			child.relname AS partition_name,
			pg_get_expr(child.relpartbound, child.oid) AS partition_range,
			pg_total_relation_size(child.oid) AS size_bytes
		FROM pg_inherits
		JOIN pg_class parent ON pg_inherits.inhparent = parent.oid
		JOIN pg_class child ON pg_inherits.inhrelid = child.oid
		WHERE parent.relname = ?
		ORDER BY child.relname
	`, table).Scan(&partitions).Error
	return partitions, err
}

// MissingPartitions 当月和下月中缺失的分区
func (m *PartitionManager) MissingPartitions(ctx context.Context) ([]string, error) {
	current := monthStart(m.now())
	var missing []string
	for _, table := range m.config.Tables {
		for _, month := range []time.Time{current, current.AddDate(0, 1, 0)} {
			name := PartitionName(table.TableName, month)
			exists, err := m.relationExists(ctx, name)
			if err != nil {
				return nil, err
			}
			if !exists {
				missing = append(missing, name)
			}
		}
	}
	return missing, nil
}
