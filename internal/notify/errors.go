package notify

import "errors"

var (
	ErrUnknownChannel = errors.New("unknown notification channel")
	ErrNotConfigured  = errors.New("notification channel not configured")
	ErrCancelled      = errors.New("notification cancelled")
	ErrNoRecipients   = errors.New("no recipients configured")
)
