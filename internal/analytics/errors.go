package analytics

import "errors"

var (
	ErrPlayerNotFound  = errors.New("player not found")
	ErrAmbiguousPlayer = errors.New("player name is ambiguous")
)
