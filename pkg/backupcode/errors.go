package backupcode

import "errors"

var (
	ErrInvalidCount       = errors.New("backup code count must be greater than 0")
	ErrEntropyUnavailable = errors.New("system random source unavailable")
)
