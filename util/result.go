package util

import "errors"

// ErrIO is matched by every *IOError.
var ErrIO = errors.New("io error")

// IOError is the uniform error shape produced by ToIOResult. It keeps only
// the message of the error it replaced, so errors from unrelated sources
// can be propagated and compared the same way.
type IOError struct {
	Msg string
}

func (e *IOError) Error() string {
	return e.Msg
}

func (e *IOError) Is(target error) bool {
	return target == ErrIO
}

// ToIOResult passes v through on success and flattens err into an *IOError
// otherwise.
func ToIOResult[T any](v T, err error) (T, error) {
	if err != nil {
		var zero T
		return zero, &IOError{Msg: err.Error()}
	}
	return v, nil
}

// OptionToIOResult returns the value behind v, or an *IOError reading
// None when v is nil.
func OptionToIOResult[T any](v *T) (T, error) {
	if v == nil {
		var zero T
		return zero, &IOError{Msg: ErrNone.Error()}
	}
	return *v, nil
}
