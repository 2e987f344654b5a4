package bot

import "errors"

var ErrNoChatID = errors.New("chat ID not set")
