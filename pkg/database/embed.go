package database

import "embed"

// PartitionFS 分区表 DDL 与保留配置
//
//go:embed partitions/*.sql partitions/*.conf
var PartitionFS embed.FS

// partitionRoot PartitionFS 内的目录
const partitionRoot = "partitions"
