package sleeper

import "errors"

var ErrInvalidLeg = errors.New("invalid leg id")
