// Package config 提供引擎的 YAML 配置加载。
// 所有字段都有可用的默认值，空配置文件也能启动。
package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// EngineConfig 引擎配置。
type EngineConfig struct {
	// MaxFeatures TF-IDF 词汇表上限
	MaxFeatures int `yaml:"max_features"`
	// MaxRank 矩阵分解隐向量维度上限
	MaxRank int `yaml:"max_rank"`

	// DefaultTopN 查询默认返回条数
	DefaultTopN int `yaml:"default_top_n"`
	// ContentWeight / CollabWeight 混合打分权重
	ContentWeight float64 `yaml:"content_weight"`
	CollabWeight  float64 `yaml:"collab_weight"`

	// TrendingWindowDays 趋势榜统计窗口（天）
	TrendingWindowDays int `yaml:"trending_window_days"`

	// Snapshot 快照持久化配置
	Snapshot SnapshotConfig `yaml:"snapshot"`

	// Redis 非空时快照与热门榜走 Redis 而不是本地文件
	Redis RedisConfig `yaml:"redis"`

	// FilterRules CEL 过滤规则表达式，对每个候选逐条求值，命中即剔除
	FilterRules []string `yaml:"filter_rules"`
}

// SnapshotConfig 快照落盘配置。
type SnapshotConfig struct {
	// Dir 文件存储目录（使用 FileStore 时生效）
	Dir string `yaml:"dir"`
	// KeyPrefix 存储 key 前缀
	KeyPrefix string `yaml:"key_prefix"`
}

// RedisConfig Redis 连接配置。Addr 为空表示不启用。
type RedisConfig struct {
	Addr string `yaml:"addr"`
	DB   int    `yaml:"db"`
}

// Default 返回全默认值配置。
func Default() *EngineConfig {
	return &EngineConfig{
		MaxFeatures:        1000,
		MaxRank:            50,
		DefaultTopN:        10,
		ContentWeight:      0.5,
		CollabWeight:       0.5,
		TrendingWindowDays: 7,
		Snapshot: SnapshotConfig{
			Dir:       "data/snapshot",
			KeyPrefix: "recokit:snapshot",
		},
	}
}

// Load 从 YAML 文件加载配置，未出现的字段保持默认值。
func Load(path string) (*EngineConfig, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	cfg.normalize()
	return cfg, nil
}

// normalize 把非法值拉回默认，配置错误不应让引擎带病启动。
func (c *EngineConfig) normalize() {
	d := Default()
	if c.MaxFeatures <= 0 {
		c.MaxFeatures = d.MaxFeatures
	}
	if c.MaxRank <= 0 {
		c.MaxRank = d.MaxRank
	}
	if c.DefaultTopN <= 0 {
		c.DefaultTopN = d.DefaultTopN
	}
	if c.ContentWeight < 0 {
		c.ContentWeight = d.ContentWeight
	}
	if c.CollabWeight < 0 {
		c.CollabWeight = d.CollabWeight
	}
	if c.TrendingWindowDays <= 0 {
		c.TrendingWindowDays = d.TrendingWindowDays
	}
	if c.Snapshot.Dir == "" {
		c.Snapshot.Dir = d.Snapshot.Dir
	}
	if c.Snapshot.KeyPrefix == "" {
		c.Snapshot.KeyPrefix = d.Snapshot.KeyPrefix
	}
}

// TrendingWindow 趋势榜窗口时长。
func (c *EngineConfig) TrendingWindow() time.Duration {
	return time.Duration(c.TrendingWindowDays) * 24 * time.Hour
}
