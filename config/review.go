package config

// ReviewConfig 评审流程相关的可调参数
type ReviewConfig struct {
	// PendingStuckMinutes 评审在 pending 状态停留超过该分钟数后，
	// 巡检任务会输出告警日志（只观测，不修改数据）。
	PendingStuckMinutes int `mapstructure:"pendingStuckMinutes" json:"pendingStuckMinutes" yaml:"pendingStuckMinutes"`

	// HistoryPageSize 评审历史查询的默认分页大小
	HistoryPageSize int `mapstructure:"historyPageSize" json:"historyPageSize" yaml:"historyPageSize"`
}
