package ports

import "context"

// AccountPort updates player profiles on the backing account store.
type AccountPort interface {
	// UpdateProfile sets username and display name for userID.
	UpdateProfile(ctx context.Context, userID, username, displayName string) error
}
