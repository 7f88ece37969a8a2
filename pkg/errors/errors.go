package errors

import (
	"errors"
	"fmt"
)

// ErrNotFound 引用的记录不存在
var ErrNotFound = errors.New("记录不存在")

// ValidationError 输入校验失败，在写入存储之前返回
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidation 创建字段校验错误
func NewValidation(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation 判断错误链中是否包含校验错误
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
