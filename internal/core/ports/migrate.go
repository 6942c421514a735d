package ports

import (
	"context"

	"github.com/soladipe/saas-provision/internal/core/domain"
)

// MigrationRunner applies the declared schema model to the target database
// and grants runtime roles to each compute identity.
type MigrationRunner interface {
	Apply(ctx context.Context, identities []string) (domain.MigrationOutcome, error)
}
