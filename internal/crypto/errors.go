package crypto

import (
	"errors"
	"fmt"
)

// ErrorKind identifies why a generation request was rejected.
type ErrorKind int

const (
	KindMutuallyExclusiveOptions ErrorKind = iota + 1
	KindLengthTooSmall
	KindLengthTooLarge
	KindEmptyRequiredClass
	KindEmptyPool
)

func (k ErrorKind) String() string {
	switch k {
	case KindMutuallyExclusiveOptions:
		return "mutually_exclusive_options"
	case KindLengthTooSmall:
		return "length_too_small"
	case KindLengthTooLarge:
		return "length_too_large"
	case KindEmptyRequiredClass:
		return "empty_required_class"
	case KindEmptyPool:
		return "empty_pool"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

var (
	ErrMutuallyExclusiveOptions = errors.New("ignored_chars and allowed_chars cannot be set at the same time")
	ErrLengthTooSmall           = errors.New("password length too small")
	ErrLengthTooLarge           = errors.New("password length too large")
	ErrEmptyRequiredClass       = errors.New("required character class is empty")
	ErrEmptyPool                = errors.New("no characters left to sample from")
)

var kindErrors = map[ErrorKind]error{
	KindMutuallyExclusiveOptions: ErrMutuallyExclusiveOptions,
	KindLengthTooSmall:           ErrLengthTooSmall,
	KindLengthTooLarge:           ErrLengthTooLarge,
	KindEmptyRequiredClass:       ErrEmptyRequiredClass,
	KindEmptyPool:                ErrEmptyPool,
}

// ConfigError reports an invalid combination of generator options. It
// unwraps to the sentinel error for its Kind.
type ConfigError struct {
	Kind   ErrorKind
	Detail string
}

func newConfigError(kind ErrorKind, format string, args ...any) *ConfigError {
	return &ConfigError{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

func (e *ConfigError) Error() string {
	if e.Detail == "" {
		return e.Unwrap().Error()
	}
	return e.Detail
}

func (e *ConfigError) Unwrap() error {
	return kindErrors[e.Kind]
}

// IsConfigError reports whether err is caused by invalid generator options.
func IsConfigError(err error) bool {
	var cfgErr *ConfigError
	return errors.As(err, &cfgErr)
}
