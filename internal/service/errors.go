package service

import (
	"errors"
	"fmt"
)

// ErrValidation 请求参数不合法（handler 映射为 400）
var ErrValidation = errors.New("validation failed")

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
