package history

import "errors"

// ErrRecordNotPinned is returned by move operations when the target
// record is not currently in the pinned set.
var ErrRecordNotPinned = errors.New("history: record is not pinned")
