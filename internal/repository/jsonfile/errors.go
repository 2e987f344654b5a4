package jsonfile

import (
	"errors"
	"fmt"
)

var ErrCorrupt = errors.New("results file is not a JSON array of week results")

type Op string

const (
	OpAppend      Op = "append"
	OpLoad        Op = "load"
	OpDeduplicate Op = "deduplicate"
	OpBackup      Op = "backup"
)

// StorageError is returned by every Store operation that touches the disk.
type StorageError struct {
	Op   Op
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("error during %s of %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
