package domain

import "errors"

// Stage failures. Errors returned by the pipeline wrap exactly one of these.
var (
	ErrDecode            = errors.New("decode error")
	ErrParse             = errors.New("parse error")
	ErrFetch             = errors.New("fetch error")
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrRecognition       = errors.New("recognition error")
	ErrConnection        = errors.New("connection error")
	ErrTableNotFound     = errors.New("table not found")
	ErrIndexBuild        = errors.New("index build error")
	ErrGeneration        = errors.New("generation error")
)

// Validation failures. No external call has been attempted when one of these is returned.
var (
	ErrNotConfigured  = errors.New("no source configured")
	ErrMissingParam   = errors.New("missing source parameter")
	ErrUnknownSource  = errors.New("unknown source kind")
	ErrEmptyFeedback  = errors.New("feedback is empty")
	ErrInvalidRequest = errors.New("invalid request")
)

var validationErrors = []error{ErrNotConfigured, ErrMissingParam, ErrUnknownSource, ErrEmptyFeedback, ErrInvalidRequest}

// IsValidation reports whether err is a user input problem rather than a failure.
func IsValidation(err error) bool {
	for _, v := range validationErrors {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}
