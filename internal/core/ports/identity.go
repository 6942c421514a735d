package ports

import (
	"context"

	"github.com/soladipe/saas-provision/internal/core/domain"
)

// IdentityProvisioner manages directory app registrations. CreateOrReuse
// honors caller-supplied identities: when cfg.ExistingAppID is set the
// implementation must not issue a create call.
type IdentityProvisioner interface {
	CreateOrReuse(ctx context.Context, cfg domain.AppRegConfig) (domain.AppRegistration, error)
}
