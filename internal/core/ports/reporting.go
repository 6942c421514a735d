package ports

import (
	"context"

	"github.com/soladipe/saas-provision/internal/core/domain"
)

type Reporter interface {
	Report(ctx context.Context, results []domain.ProvisioningResult) error
}
