package core

import "errors"

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 引擎内部的可失败步骤都返回显式错误，由上层按"内容 → 协同 → 热门"的
//     优先级降级，绝不向最终调用方抛异常
//   - 提供错误代码（Code）和模块（Module），便于分类检查
type DomainError struct {
	Code    string // 错误代码（如 "NOT_FOUND", "INSUFFICIENT_DATA"）
	Message string // 错误消息
	Module  string // 模块名称（如 "store", "mf", "index"）
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError 创建新的领域错误。
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// GetDomainError 获取错误链中的 DomainError，如果没有则返回 nil。
// 支持 %w 包装过的错误：各层用 fmt.Errorf 补充上下文不影响分类检查。
func GetDomainError(err error) *DomainError {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

// 错误代码常量
const (
	ErrorCodeNotFound         = "NOT_FOUND"          // 资源不存在
	ErrorCodeInsufficientData = "INSUFFICIENT_DATA"  // 数据不足以建模（正常结局，非故障）
	ErrorCodeInvalidInput     = "INVALID_INPUT"      // 输入无效
	ErrorCodeCorrupted        = "CORRUPTED"          // 持久化数据损坏
	ErrorCodeNotSupported     = "NOT_SUPPORTED"      // 操作不支持
)

// 模块名称常量
const (
	ModuleStore     = "store"
	ModuleIndex     = "index"
	ModuleMF        = "mf"
	ModuleVectorize = "vectorize"
	ModuleSnapshot  = "snapshot"
	ModuleProvider  = "provider"
	ModuleEngine    = "engine"
)

// IsNotFound 检查错误是否为 NOT_FOUND。
func IsNotFound(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeNotFound
	}
	return false
}

// IsInsufficientData 检查错误是否为数据不足。
// 小数据集上协同索引缺席是预期行为，调用方据此跳过而不是报障。
func IsInsufficientData(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeInsufficientData
	}
	return false
}

// IsCorrupted 检查错误是否为持久化数据损坏。
func IsCorrupted(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeCorrupted
	}
	return false
}
