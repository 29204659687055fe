package database

import (
	"context"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestParsePartitionConfig(t *testing.T) {
	cfg, err := ParsePartitionConfig("# comment\n\nsearch_events, 13\naudit_logs,0\n")
	require.NoError(t, err)
	assert.Equal(t, []string{"search_events", "audit_logs"}, cfg.TableNames())
	assert.Equal(t, 13, cfg.Table("search_events").RetentionMonths)
	assert.True(t, cfg.IsPartitioned("audit_logs"))
	assert.False(t, cfg.IsPartitioned("users"))

	for _, bad := range []string{"search_events", "search_events,abc", ",3", "a,1,2", "a,-1"} {
		_, err := ParsePartitionConfig(bad)
		assert.Error(t, err, bad)
	}
}

func TestLoadPartitionConfig(t *testing.T) {
	fsys := fstest.MapFS{
		"p/partition_tables.conf": {Data: []byte("search_events,13\n")},
		"p/search_events.sql":     {Data: []byte("CREATE TABLE search_events ();")},
	}
	cfg, err := LoadPartitionConfig(fsys, "p")
	require.NoError(t, err)
	assert.Equal(t, "CREATE TABLE search_events ();", cfg.Tables[0].DDL)

	delete(fsys, "p/search_events.sql")
	_, err = LoadPartitionConfig(fsys, "p")
	assert.Error(t, err)
}

func TestEmbeddedPartitionConfig(t *testing.T) {
	cfg, err := LoadPartitionConfig(PartitionFS, partitionRoot)
	require.NoError(t, err)
	table := cfg.Table("search_events")
	require.NotNil(t, table)
	assert.Equal(t, 0, table.RetentionMonths, "事件默认永久保留")
	assert.Contains(t, table.DDL, "PARTITION BY RANGE (created_at)")
	assert.Contains(t, table.DDL, "query         TEXT")

	assert.True(t, cfg.OverrideRetention("search_events", 13))
	assert.Equal(t, 13, table.RetentionMonths)
	assert.False(t, cfg.OverrideRetention("search_events", -1))
	assert.False(t, cfg.OverrideRetention("unknown", 3))
}

func TestPartitionNaming(t *testing.T) {
	month := time.Date(2026, time.March, 17, 23, 0, 0, 0, time.UTC)
	name := PartitionName("search_events", month)
	assert.Equal(t, "search_events_y2026m03", name)

	parsed, err := ParsePartitionMonth(name, "search_events")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC), parsed)

	for _, bad := range []string{"other_y2026m03", "search_events_y2026m13", "search_events_default"} {
		_, err := ParsePartitionMonth(bad, "search_events")
		assert.Error(t, err, bad)
	}
}

func TestRetentionCutoff(t *testing.T) {
	now := time.Date(2026, time.October, 16, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC), RetentionCutoff(now, 13))
	assert.True(t, RetentionCutoff(now, 0).IsZero())
}

func TestDropExpired_KeepForeverSkipsTable(t *testing.T) {
	// sqlite 没有 pg_inherits，一旦去列分区就会报错
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	cfg, err := LoadPartitionConfig(PartitionFS, partitionRoot)
	require.NoError(t, err)
	m := NewPartitionManager(db, cfg, nil)
	m.now = func() time.Time { return time.Date(2026, time.October, 16, 0, 0, 0, 0, time.UTC) }

	dropped, err := m.DropExpired(context.Background())
	require.NoError(t, err)
	assert.Zero(t, dropped)

	cfg.OverrideRetention("search_events", 13)
	_, err = m.DropExpired(context.Background())
	assert.Error(t, err, "配置了保留期才会去查分区")
}

func TestLogLevel(t *testing.T) {
	assert.Equal(t, logger.Warn, LogLevel("production"))
	assert.Equal(t, logger.Info, LogLevel("development"))
}

type testEvent struct {
	ID        int64 `gorm:"primaryKey"`
	CreatedAt time.Time
}

func (testEvent) TableName() string { return "search_events" }

type testUser struct {
	ID    int64 `gorm:"primaryKey"`
	Email string
}

func TestMigrator_NonPostgresMigratesAll(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	m, err := NewMigrator(db, MigrateOptions{
		Models:             []interface{}{&testUser{}, &testEvent{}},
		RetentionOverrides: map[string]int{"search_events": 24},
	}, nil)
	require.NoError(t, err)
	assert.False(t, m.Partitioned())
	assert.Equal(t, 24, m.Config().Table("search_events").RetentionMonths)

	require.NoError(t, m.Migrate(context.Background()))
	assert.True(t, db.Migrator().HasTable("search_events"))
	assert.True(t, db.Migrator().HasTable(&testUser{}))

	plain, err := m.plainModels()
	require.NoError(t, err)
	assert.Len(t, plain, 1, "分区表不参与 AutoMigrate")
}
