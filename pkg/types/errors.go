package types

import "errors"

// Store lifecycle errors.
var (
	ErrStoreDetached   = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
)

// Entity lookup and validation errors.
var (
	ErrItemNotFound    = errors.New("content item not found")
	ErrRecordNotFound  = errors.New("engagement record not found")
	ErrTestNotFound    = errors.New("ab test not found")
	ErrInvalidID       = errors.New("invalid entity ID")
	ErrInvalidTitle    = errors.New("title must not be empty")
	ErrInvalidStatus   = errors.New("invalid status value")
	ErrInvalidRating   = errors.New("invalid performance rating")
	ErrInvalidTestType = errors.New("invalid ab test type")
)

// Scheduling errors.
var (
	// ErrNoOptimalTime indicates no optimal-time data exists; the caller
	// must supply a manual time to proceed.
	ErrNoOptimalTime = errors.New("no optimal time available")

	// ErrInvalidTimeSlot indicates a manual time in the past or malformed.
	ErrInvalidTimeSlot = errors.New("invalid time slot")

	ErrInvalidTransition = errors.New("invalid status transition")
	ErrNotPublished      = errors.New("content item is not published")
	ErrTestCompleted     = errors.New("ab test is already completed")
)
