package settings

import "context"

// Repository stores the singleton settings blob.
type Repository interface {
	// Load returns the stored blob, or nil when nothing was ever saved.
	Load(ctx context.Context) (*TestParameters, error)
	// Save replaces the blob wholesale. The incoming Version must match the
	// stored one; on success the stored version is incremented. A mismatch
	// returns ErrVersionConflict.
	Save(ctx context.Context, params *TestParameters) (*TestParameters, error)
}
