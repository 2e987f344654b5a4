package export

import "errors"

var ErrNothingToExport = errors.New("no tiered results to export")
