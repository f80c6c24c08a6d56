// Package vectorize 实现文章文本的 TF-IDF 向量化。
//
// 拟合阶段在语料上统计文档频率，截取前 MaxFeatures 个词项构成有界词汇表；
// 变换阶段复用已拟合的词汇表与 idf 权重（不重新学习），
// 输出 L2 归一化的稀疏词向量。
package vectorize

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/inkstream/recokit/core"
)

// DefaultMaxFeatures 是词汇表上限的默认值。
const DefaultMaxFeatures = 1000

var tokenPattern = regexp.MustCompile(`[a-z0-9_]+`)

// Model 是拟合产物：词项 -> 维度下标，以及逐维 idf 权重。
// 拟合完成后不可变；词向量的维度在模型生命周期内保持稳定。
type Model struct {
	Vocab    map[string]int `json:"vocab"`
	IDF      []float64      `json:"idf"`
	DocCount int            `json:"doc_count"`
}

// Vectorizer 配置 TF-IDF 拟合参数。
type Vectorizer struct {
	// MaxFeatures 词汇表上限，<= 0 时取 DefaultMaxFeatures
	MaxFeatures int
}

// Fit 在语料上拟合词汇表与 idf。
//
// 词项候选为去停用词后的 unigram 与相邻 bigram；
// 按语料文档频率取 TopN，频率相同按字典序，保证对同一语料
// （与语料顺序无关）拟合结果字节级一致。
func (v *Vectorizer) Fit(docs []core.Document) *Model {
	maxFeatures := v.MaxFeatures
	if maxFeatures <= 0 {
		maxFeatures = DefaultMaxFeatures
	}

	// 文档频率统计：每篇文档内的词项只计一次
	df := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]struct{})
		for _, term := range extractTerms(DocumentText(doc)) {
			if _, ok := seen[term]; ok {
				continue
			}
			seen[term] = struct{}{}
			df[term]++
		}
	}

	// 按 df 降序、词项字典序升序截取 TopN
	candidates := make([]string, 0, len(df))
	for term := range df {
		candidates = append(candidates, term)
	}
	sort.Slice(candidates, func(i, j int) bool {
		if df[candidates[i]] != df[candidates[j]] {
			return df[candidates[i]] > df[candidates[j]]
		}
		return candidates[i] < candidates[j]
	})
	if len(candidates) > maxFeatures {
		candidates = candidates[:maxFeatures]
	}

	// 维度下标按词项字典序分配（与语料顺序无关）
	sort.Strings(candidates)

	model := &Model{
		Vocab:    make(map[string]int, len(candidates)),
		IDF:      make([]float64, len(candidates)),
		DocCount: len(docs),
	}
	n := float64(len(docs))
	for idx, term := range candidates {
		model.Vocab[term] = idx
		// 平滑 idf：ln((1+n)/(1+df)) + 1
		model.IDF[idx] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}
	return model
}

// Transform 将单篇文档变换为 L2 归一化的 TF-IDF 稀疏向量。
// 文档中没有任何已知词项时返回零向量（合法值）。
func (m *Model) Transform(doc core.Document) core.Vector {
	if m == nil || len(m.Vocab) == 0 {
		return core.Vector{}
	}

	counts := make(map[int]float64)
	for _, term := range extractTerms(DocumentText(doc)) {
		if idx, ok := m.Vocab[term]; ok {
			counts[idx]++
		}
	}

	vec := make(core.Vector, len(counts))
	for idx, tf := range counts {
		vec[idx] = tf * m.IDF[idx]
	}
	return vec.Normalize()
}

// Dimension 返回词向量维度（词汇表大小）。
func (m *Model) Dimension() int {
	if m == nil {
		return 0
	}
	return len(m.Vocab)
}

// DocumentText 拼接参与向量化的文本。
// 标题重复两遍是刻意的相关性加权，保持这个顺序：标题 标题 分类 标签 正文。
func DocumentText(doc core.Document) string {
	parts := make([]string, 0, 4+len(doc.Tags))
	parts = append(parts, doc.Title, doc.Title, doc.Category)
	parts = append(parts, doc.Tags...)
	parts = append(parts, doc.Body)
	return strings.Join(parts, " ")
}

// extractTerms 返回去停用词后的 unigram 与相邻 bigram 序列。
func extractTerms(text string) []string {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return nil
	}
	terms := make([]string, 0, len(tokens)*2-1)
	terms = append(terms, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		terms = append(terms, tokens[i]+" "+tokens[i+1])
	}
	return terms
}

// tokenize 小写化后按字母数字切词，去掉单字符词与停用词。
func tokenize(text string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(text), -1)
	out := make([]string, 0, len(raw))
	for _, tok := range raw {
		if len(tok) < 2 {
			continue
		}
		if _, ok := stopWords[tok]; ok {
			continue
		}
		out = append(out, tok)
	}
	return out
}
