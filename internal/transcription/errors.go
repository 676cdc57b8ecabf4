package transcription

import (
	"errors"
	"fmt"
)

// Sentinel errors for transcription failures.
var (
	ErrAudioNotFound  = errors.New("transcription: audio file not found")
	ErrModelNotLoaded = errors.New("transcription: model not loaded")
	ErrRateLimited    = errors.New("transcription: rate limited by server")
	ErrBadRequest     = errors.New("transcription: bad request")
	ErrServer         = errors.New("transcription: server error")
)

// Error wraps an underlying error with operation context.
type Error struct {
	Op   string // "transcribe" or "health"
	Path string // audio path, if applicable
	Err  error
}

func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("transcription %s [%s]: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("transcription %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func wrapError(op, path string, err error) error {
	return &Error{Op: op, Path: path, Err: err}
}
