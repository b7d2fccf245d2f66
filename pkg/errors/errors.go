// Package errors 提供统一的错误处理框架
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Code 错误码
type Code string

const (
	// 通用错误码
	CodeUnknown      Code = "UNKNOWN"
	CodeInternal     Code = "INTERNAL_ERROR"
	CodeInvalidInput Code = "INVALID_INPUT"
	CodeNotFound     Code = "NOT_FOUND"
	CodeTimeout      Code = "TIMEOUT"
	CodeRateLimited  Code = "RATE_LIMITED"

	// 文件摄取相关
	CodeParseFailed         Code = "PARSE_FAILED"          // 所有编码/分隔符组合均解析失败
	CodeFormatInvalid       Code = "FORMAT_INVALID"        // 文件可解析但缺少必需列/结构
	CodeUnsupportedFileType Code = "UNSUPPORTED_FILE_TYPE" // 不支持的文件类型
	CodeSnapshotFailed      Code = "SNAPSHOT_FAILED"       // 快照写入失败

	// 数据相关
	CodeValidationFail Code = "VALIDATION_FAILED"
)

// AppError 应用错误
type AppError struct {
	Code       Code                   `json:"code"`
	Message    string                 `json:"message"`
	Details    string                 `json:"details,omitempty"`
	HTTPStatus int                    `json:"-"`
	Cause      error                  `json:"-"`
	Fields     map[string]interface{} `json:"fields,omitempty"`
}

// Error 实现 error 接口
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap 返回底层错误
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetails 添加详细信息
func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// WithCause 添加原因
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithField 添加字段
func (e *AppError) WithField(key string, value interface{}) *AppError {
	if e.Fields == nil {
		e.Fields = make(map[string]interface{})
	}
	e.Fields[key] = value
	return e
}

// New 创建新错误
func New(code Code, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

// Wrap 包装错误
func Wrap(err error, code Code, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Cause:      err,
	}
}

// codeToHTTPStatus 错误码转HTTP状态码
func codeToHTTPStatus(code Code) int {
	switch code {
	case CodeInvalidInput, CodeValidationFail, CodeUnsupportedFileType:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeRateLimited:
		return http.StatusTooManyRequests
	case CodeTimeout:
		return http.StatusGatewayTimeout
	case CodeParseFailed, CodeFormatInvalid:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// Is 检查错误是否为特定类型
func Is(err error, code Code) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// GetCode 获取错误码
func GetCode(err error) Code {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknown
}

// GetHTTPStatus 获取HTTP状态码
func GetHTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

// 预定义错误
var (
	ErrNotFound     = New(CodeNotFound, "资源不存在")
	ErrInvalidInput = New(CodeInvalidInput, "输入参数无效")
	ErrInternal     = New(CodeInternal, "内部错误")
	ErrTimeout      = New(CodeTimeout, "操作超时")
)

// InvalidInput 创建输入无效错误
func InvalidInput(field, reason string) *AppError {
	return New(CodeInvalidInput, fmt.Sprintf("字段 '%s' 无效: %s", field, reason))
}

// ParseFailed 创建解析失败错误，记录尝试过的编码/分隔符组合
func ParseFailed(path string, attempts []string) *AppError {
	return New(CodeParseFailed,
		fmt.Sprintf("文件 '%s' 解析失败，已尝试: %s", path, strings.Join(attempts, ", ")))
}

// FormatInvalid 创建格式无效错误
// 缺失的列名直接写入消息，调用方无需解包 Fields 即可看到具体缺了什么
func FormatInvalid(reason string, missing []string) *AppError {
	message := reason
	if len(missing) > 0 {
		message = fmt.Sprintf("%s: %s", reason, strings.Join(missing, ", "))
	}
	err := New(CodeFormatInvalid, message)
	if len(missing) > 0 {
		err.WithField("missing_columns", missing)
	}
	return err
}

// UnsupportedFileType 创建不支持文件类型错误
func UnsupportedFileType(path string) *AppError {
	return New(CodeUnsupportedFileType, fmt.Sprintf("不支持的文件类型: %s", path))
}

// SnapshotFailed 创建快照写入失败错误
func SnapshotFailed(path string, cause error) *AppError {
	return Wrap(cause, CodeSnapshotFailed, fmt.Sprintf("快照写入失败: %s", path))
}
