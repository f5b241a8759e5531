package colors

import "context"

// IColorAllocatorService assigns display-color indexes to users.
type IColorAllocatorService interface {
	// Allocate assigns the user the smallest non-negative color index
	// not held by any other user. A user that already has a color keeps
	// it; indexes are never reassigned or freed.
	Allocate(ctx context.Context, userID string) error
}
