package baseline

import "context"

// Repository describes storage of document baselines keyed by document id.
type Repository interface {
	// Get returns the stored baseline, or (nil, nil) if there is none.
	Get(ctx context.Context, id string) ([]byte, error)

	// Set stores body as the baseline of id, replacing any previous one.
	Set(ctx context.Context, id string, body []byte) error

	// SetIfAbsent stores body only when id has no baseline yet and reports
	// whether it did.
	SetIfAbsent(ctx context.Context, id string, body []byte) (bool, error)

	// Delete removes the baseline of id. Deleting a missing id is not an error.
	Delete(ctx context.Context, id string) error

	// Clear removes every baseline.
	Clear(ctx context.Context) error
}
