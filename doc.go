// Package recokit 是面向博客平台的混合文章推荐引擎（Recommendation Kit）。
//
// 设计要点：
//   - 双信号混合：TF-IDF 内容相似 + 截断 SVD 协同过滤，加权合并
//   - Pipeline-first：查询逻辑通过 Node 串联（Recall → Filter → Rank → ReRank）
//   - 快照式运行：重建产出不可变快照并原子替换，查询路径无锁
//   - 优雅降级：协同缺席走纯内容，个性化缺席走热门兜底，永不抛错
package recokit

import "github.com/inkstream/recokit/pipeline"

// 轻量 facade：便于用户直接 import "recokit" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindRecall = pipeline.KindRecall
	KindFilter = pipeline.KindFilter
	KindRank   = pipeline.KindRank
	KindReRank = pipeline.KindReRank
)
