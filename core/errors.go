package core

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）和消息（Message）
//   - 支持错误检查函数（IsXXX）
//
// 使用场景：
//   - Store 错误：NOT_FOUND, NOT_SUPPORTED
//   - 训练错误：INVALID_INPUT
//   - 推荐错误：NO_SIGNAL（历史为空，需走冷启动）
type DomainError struct {
	Code    string // 错误代码（如 "NOT_FOUND", "NO_SIGNAL"）
	Message string // 错误消息
	Module  string // 模块名称（如 "store", "model", "recommender"）
}

func (e *DomainError) Error() string {
	return e.Message
}

// GetDomainError 获取 DomainError，如果不是则返回 nil
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	if domainErr, ok := err.(*DomainError); ok {
		return domainErr
	}
	return nil
}

// NewDomainError 创建新的领域错误
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// 错误代码常量
const (
	ErrorCodeNotFound      = "NOT_FOUND"      // 资源不存在
	ErrorCodeNotSupported  = "NOT_SUPPORTED"  // 操作不支持
	ErrorCodeInvalidInput  = "INVALID_INPUT"  // 输入无效
	ErrorCodeNoSignal      = "NO_SIGNAL"      // 无可用信号（冷启动）
	ErrorCodeInternalError = "INTERNAL_ERROR" // 内部错误
)

// 模块名称常量
const (
	ModuleStore       = "store"       // 存储模块
	ModuleCatalog     = "catalog"     // 电影目录模块
	ModuleModel       = "model"       // 评分预测模型模块
	ModuleRecommender = "recommender" // 推荐编排模块
)

// ErrNoSignal 表示用户没有任何历史评分，推荐无从下手。
// 调用方捕获后应改走冷启动路径（TopPopular）。
var ErrNoSignal = NewDomainError(ModuleRecommender, ErrorCodeNoSignal, "recommender: no rating history for user")

// IsNoSignal 检查错误是否为 NO_SIGNAL
func IsNoSignal(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeNoSignal
	}
	return false
}

// IsNotFound 检查错误是否为 NOT_FOUND
func IsNotFound(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeNotFound
	}
	return false
}

// IsInvalidInput 检查错误是否为 INVALID_INPUT
func IsInvalidInput(err error) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == ErrorCodeInvalidInput
	}
	return false
}
