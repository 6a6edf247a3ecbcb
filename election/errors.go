// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateItem    = errors.New("ballot lists an item more than once")
	ErrUnknownItem      = errors.New("ballot names an unknown item")
	ErrStoreUnavailable = errors.New("ballot store unavailable")
)

// ValidationError rejects a ballot because of its content. Err is
// ErrDuplicateItem or ErrUnknownItem; either way no vote was changed.
type ValidationError struct {
	VoterID int64
	ItemID  int64
	Err     error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("voter %d: item %d: %v", e.VoterID, e.ItemID, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
