package ports

import "context"

// Repositories groups the repositories bound to one unit of work.
type Repositories interface {
	Users() UserRepository
	Registrations() RegistrationRepository
	Nutrition() NutritionRepository
}

// Store exposes the repositories and runs transactional units of work.
type Store interface {
	Repositories
	// WithinTx runs fn against repositories sharing a single transaction.
	// The transaction commits when fn returns nil and rolls back otherwise.
	WithinTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}
