package jobs

import "errors"

// ErrSkip is returned by a handler when a message should be dropped
// without retrying, e.g. non-financial text or a duplicate.
var ErrSkip = errors.New("job skipped")
