package models

import "errors"

var ErrUnknownSchema = errors.New("unknown result schema version")
