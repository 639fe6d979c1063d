package migrations

import (
	"context"

	"DoctorsPortal/db"
)

// Run applies every start-up migration in order and reports how many
// services were seeded.
func Run(ctx context.Context, store db.Store, seed bool) (int, error) {
	if err := EnsureBookingIndex(ctx, store); err != nil {
		return 0, err
	}
	if err := EnsurePaymentIndex(ctx, store); err != nil {
		return 0, err
	}
	if !seed {
		return 0, nil
	}
	return SeedServices(ctx, store)
}
