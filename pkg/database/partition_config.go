package database

import (
	"bufio"
	"fmt"
	"io/fs"
	"path"
	"strconv"
	"strings"
)

// PartitionTableConfig 单张分区表
type PartitionTableConfig struct {
	TableName       string
	RetentionMonths int // 0 表示永久保留
	DDL             string
}

// PartitionConfig 分区表集合
type PartitionConfig struct {
	Tables []PartitionTableConfig
}

// LoadPartitionConfig 读取 root/partition_tables.conf 及每张表同名的 .sql
// 嵌入文件与 os.DirFS 都可以传入
func LoadPartitionConfig(fsys fs.FS, root string) (*PartitionConfig, error) {
	conf, err := fs.ReadFile(fsys, path.Join(root, "partition_tables.conf"))
	if err != nil {
		return nil, fmt.Errorf("读取分区配置失败: %w", err)
	}

	cfg, err := ParsePartitionConfig(string(conf))
	if err != nil {
		return nil, err
	}

	for i := range cfg.Tables {
		name := cfg.Tables[i].TableName + ".sql"
		ddl, err := fs.ReadFile(fsys, path.Join(root, name))
		if err != nil {
			return nil, fmt.Errorf("读取 %s 失败: %w", name, err)
		}
		cfg.Tables[i].DDL = string(ddl)
	}
	return cfg, nil
}

// ParsePartitionConfig 每行 "表名,保留月数"，# 开头为注释
func ParsePartitionConfig(content string) (*PartitionConfig, error) {
	cfg := &PartitionConfig{}
	scanner := bufio.NewScanner(strings.NewReader(content))
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		name, months, ok := strings.Cut(line, ",")
		name = strings.TrimSpace(name)
		if !ok || name == "" || strings.Contains(months, ",") {
			return nil, fmt.Errorf("分区配置第 %d 行格式错误: %q", lineNum, line)
		}

		retention, err := strconv.Atoi(strings.TrimSpace(months))
		if err != nil || retention < 0 {
			return nil, fmt.Errorf("分区配置第 %d 行保留月数无效: %q", lineNum, months)
		}

		cfg.Tables = append(cfg.Tables, PartitionTableConfig{
			TableName:       name,
			RetentionMonths: retention,
		})
	}
	return cfg, scanner.Err()
}

// TableNames 所有分区表名
func (c *PartitionConfig) TableNames() []string {
	names := make([]string, len(c.Tables))
	for i, t := range c.Tables {
		names[i] = t.TableName
	}
	return names
}

// Table 按表名查找
func (c *PartitionConfig) Table(name string) *PartitionTableConfig {
	for i := range c.Tables {
		if c.Tables[i].TableName == name {
			return &c.Tables[i]
		}
	}
	return nil
}

// IsPartitioned 该表是否由分区 DDL 管理，AutoMigrate 需跳过
func (c *PartitionConfig) IsPartitioned(name string) bool {
	return c.Table(name) != nil
}

// OverrideRetention 用环境配置覆盖保留月数；负数忽略
func (c *PartitionConfig) OverrideRetention(name string, months int) bool {
	t := c.Table(name)
	if t == nil || months < 0 {
		return false
	}
	t.RetentionMonths = months
	return true
}
