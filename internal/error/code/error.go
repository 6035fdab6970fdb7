package code

import "errors"

// Error 携带错误码的业务错误，服务层返回它而不是裸error，
// 控制器按码映射HTTP响应，避免对错误消息做字符串匹配
type Error struct {
	Code    int
	Message string
}

// Error 实现error接口
func (e *Error) Error() string {
	return e.Message
}

// New 按错误码创建业务错误，使用错误码的默认消息
func New(code int) *Error {
	return &Error{Code: code, Message: GetMessage(code)}
}

// NewWithMessage 按错误码创建业务错误并覆盖消息
func NewWithMessage(code int, message string) *Error {
	return &Error{Code: code, Message: message}
}

// FromError 从error中提取业务错误，非业务错误归为ErrUnknown
func FromError(err error) *Error {
	var coded *Error
	if errors.As(err, &coded) {
		return coded
	}
	return &Error{Code: ErrUnknown, Message: err.Error()}
}

// Is 判断error是否携带指定错误码
func Is(err error, code int) bool {
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Code == code
	}
	return false
}
