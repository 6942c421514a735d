package ports

import (
	"context"

	"github.com/soladipe/saas-provision/internal/core/domain"
)

// SecretStore persists generated values into the managed secret store. The
// orchestrator only ever writes; consuming applications read through their
// own access policy. Implementations must never log the value.
type SecretStore interface {
	Store(ctx context.Context, name, value string) (domain.SecretRecord, error)
}
