package common

import (
	"errors"
	"fmt"
)

var (
	// ErrConfig marks missing or invalid configuration, including credentials.
	ErrConfig = errors.New("configuration error")

	// ErrDataQuality marks a required value that could not be parsed.
	ErrDataQuality = errors.New("data quality error")
)

// DataQualityError reports an unusable required field on one holding.
type DataQualityError struct {
	Ticker string
	Field  string
	Value  string
	Err    error
}

func (e *DataQualityError) Error() string {
	msg := fmt.Sprintf("%s: field %s has unusable value %q", e.Ticker, e.Field, e.Value)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is lets errors.Is match ErrDataQuality.
func (e *DataQualityError) Is(target error) bool {
	return target == ErrDataQuality
}

func (e *DataQualityError) Unwrap() error {
	return e.Err
}
