package utils

import (
	"errors"
)

var (
	ErrInvalidURL           = errors.New("invalid URL provided")
	ErrUnsupportedURL       = errors.New("unsupported URL")
	ErrDownloadFailed       = errors.New("download failed")
	ErrDownloadTimeout      = errors.New("download timed out")
	ErrDownloadInProgress   = errors.New("download already in progress")
	ErrBotDetected          = errors.New("bot verification requested")
	ErrLoginRequired        = errors.New("login required")
	ErrNoMediaFound         = errors.New("no media found")
	ErrFileTooLarge         = errors.New("file too large")
	ErrInsufficientSpace    = errors.New("insufficient disk space")
	ErrUnauthorized         = errors.New("unauthorized access")
	ErrNotFound             = errors.New("not found")
	ErrDatabaseError        = errors.New("database operation failed")
	ErrExternalServiceError = errors.New("external service error")
	ErrConfigurationError   = errors.New("configuration error")
)

type WrappedError struct {
	Err     error
	Message string
	Context map[string]any
}

func (w *WrappedError) Error() string {
	if w.Message != "" {
		return w.Message + ": " + w.Err.Error()
	}
	return w.Err.Error()
}

func (w *WrappedError) Unwrap() error {
	return w.Err
}

func WrapError(err error, message string, ctx map[string]any) error {
	return &WrappedError{
		Err:     err,
		Message: message,
		Context: ctx,
	}
}

// RootError returns the innermost error in the chain (for user-facing messages without wrapper text).
func RootError(err error) error {
	for e := err; e != nil; e = errors.Unwrap(e) {
		err = e
	}
	return err
}

// DownloadErrorMessage returns a human-readable message for download errors (root cause, friendly text for known failures).
// Use from both API and Telegram so the same message shape is shown.
func DownloadErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrBotDetected):
		return "The source asked for human verification. Update the cookies file and try again."
	case errors.Is(err, ErrLoginRequired):
		return "This content requires a logged-in account. Update the cookies file and try again."
	case errors.Is(err, ErrDownloadTimeout):
		return "The download took too long and was cancelled."
	case errors.Is(err, ErrNoMediaFound):
		return "No downloadable media was found at this link."
	case errors.Is(err, ErrUnsupportedURL):
		return "This link is not supported."
	}
	return RootError(err).Error()
}
