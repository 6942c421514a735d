package ports

import (
	"context"

	"github.com/soladipe/saas-provision/internal/core/domain"
)

// ResourceHandler knows how to check for and create resources of one kind.
// Handlers never reconcile drift on existing resources: Check returning
// found=true means the resource is reused as-is.
type ResourceHandler interface {
	Kind() domain.ResourceKind

	// Check performs the existence read. A missing resource is reported via
	// found=false with a nil error; errors are reserved for auth failures,
	// conflicts and transport faults.
	Check(ctx context.Context, spec domain.ResourceSpec) (result domain.ProvisioningResult, found bool, err error)

	// Create issues the create call and blocks until the control plane
	// reports the operation finished (long-running operations are polled to
	// completion, not slept over).
	Create(ctx context.Context, spec domain.ResourceSpec) (domain.ProvisioningResult, error)
}

// ProvisioningEngine sequences Ensure calls over a dependency-ordered plan.
type ProvisioningEngine interface {
	Ensure(ctx context.Context, spec domain.ResourceSpec) (domain.ProvisioningResult, error)
	Run(ctx context.Context, plan []domain.ResourceSpec) ([]domain.ProvisioningResult, error)
}
