package service

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/soladipe/saas-provision/internal/core/domain"
	"github.com/soladipe/saas-provision/internal/core/ports"
	"github.com/soladipe/saas-provision/internal/errors"
)

// RetryConfig bounds the propagation workarounds: how often to re-check a
// freshly created resource that is not yet visible to reads, and how long to
// wait between checks. The interval is fixed, not exponential; control-plane
// propagation is a convergence wait, not a congestion signal.
type RetryConfig struct {
	PropagationRetries  int
	PropagationInterval time.Duration
}

func (c RetryConfig) withDefaults() RetryConfig {
	if c.PropagationRetries <= 0 {
		c.PropagationRetries = 3
	}
	if c.PropagationInterval <= 0 {
		c.PropagationInterval = 10 * time.Second
	}
	return c
}

// ProvisioningEngine walks a dependency-ordered plan strictly sequentially:
// existence check, conditional create, readiness. No local state is kept
// between steps; the control plane is the state.
type ProvisioningEngine struct {
	registry *HandlerRegistry
	logger   ports.Logger
	retry    RetryConfig
}

func NewProvisioningEngine(registry *HandlerRegistry, logger ports.Logger, retry RetryConfig) (*ProvisioningEngine, error) {
	if registry == nil {
		return nil, errors.New(errors.CodeConfigValidation, "handler registry cannot be nil")
	}
	if logger == nil {
		return nil, errors.New(errors.CodeConfigValidation, "logger cannot be nil")
	}
	return &ProvisioningEngine{
		registry: registry,
		logger:   logger,
		retry:    retry.withDefaults(),
	}, nil
}

// Run ensures every spec in plan, in dependency order. The first unrecoverable
// failure aborts the run; results for the steps that completed are returned
// alongside the error so the caller can report partial progress.
func (e *ProvisioningEngine) Run(ctx context.Context, plan []domain.ResourceSpec) ([]domain.ProvisioningResult, error) {
	ordered, err := OrderPlan(plan)
	if err != nil {
		return nil, err
	}

	results := make([]domain.ProvisioningResult, 0, len(ordered))
	for _, spec := range ordered {
		if ctx.Err() != nil {
			return results, errors.Wrap(ctx.Err(), errors.CodeTimeout, "provisioning run cancelled")
		}
		result, err := e.Ensure(ctx, spec)
		if err != nil {
			return results, err
		}
		results = append(results, result)
	}
	return results, nil
}

// Ensure converges a single spec: a found resource is reused as-is
// (Created=false), a missing one is created and then re-checked until the
// control plane reports it, bounded by the retry config.
func (e *ProvisioningEngine) Ensure(ctx context.Context, spec domain.ResourceSpec) (domain.ProvisioningResult, error) {
	handler, err := e.registry.Get(spec.Kind)
	if err != nil {
		return domain.ProvisioningResult{}, err
	}

	logger := e.logger.WithFields(map[string]any{"kind": spec.Kind.String(), "name": spec.Name})

	existing, found, err := handler.Check(ctx, spec)
	if err != nil {
		return domain.ProvisioningResult{}, errors.Wrapf(err, errors.CodePlatformAPIError,
			"existence check failed for %s %s", spec.Kind, spec.Name)
	}
	if found {
		logger.Infof(ctx, "Resource already exists, reusing (id: %s)", existing.ResourceID)
		existing.Created = false
		return existing, nil
	}

	logger.Infof(ctx, "Resource not found, creating")
	if err := e.createWithRetry(ctx, handler, spec, logger); err != nil {
		return domain.ProvisioningResult{}, err
	}

	result, err := e.awaitVisible(ctx, handler, spec, logger)
	if err != nil {
		return domain.ProvisioningResult{}, err
	}
	result.Created = true
	logger.Infof(ctx, "Resource created (id: %s)", result.ResourceID)
	return result, nil
}

// createWithRetry retries the create call only for propagation-classified
// failures, e.g. a subnet create racing the parent VNet's visibility. Every
// other failure is permanent and aborts the run.
func (e *ProvisioningEngine) createWithRetry(ctx context.Context, handler ports.ResourceHandler, spec domain.ResourceSpec, logger ports.Logger) error {
	attempt := 0
	op := func() error {
		attempt++
		_, err := handler.Create(ctx, spec)
		if err == nil {
			return nil
		}
		if errors.Is(err, errors.CodePropagationError) {
			logger.Warnf(ctx, "Create attempt %d hit a propagation delay, retrying: %v", attempt, err)
			return err
		}
		return backoff.Permanent(err)
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(e.retry.PropagationInterval), uint64(e.retry.PropagationRetries)),
		ctx,
	)
	if err := backoff.Retry(op, policy); err != nil {
		return errors.Wrapf(err, errors.CodePlatformAPIError,
			"create failed for %s %s", spec.Kind, spec.Name)
	}
	return nil
}

// awaitVisible re-runs the existence check after a create until the resource
// shows up, replacing the fixed post-create sleeps the workflow historically
// relied on. Exhausting the retries is a propagation error naming the
// resource and operation.
func (e *ProvisioningEngine) awaitVisible(ctx context.Context, handler ports.ResourceHandler, spec domain.ResourceSpec, logger ports.Logger) (domain.ProvisioningResult, error) {
	var result domain.ProvisioningResult
	checks := 0
	op := func() error {
		checks++
		res, found, err := handler.Check(ctx, spec)
		if err != nil {
			return backoff.Permanent(err)
		}
		if !found {
			logger.Debugf(ctx, "Resource not yet visible after create (check %d)", checks)
			return errors.Newf(errors.CodePropagationError,
				"resource %s %s not visible after create", spec.Kind, spec.Name)
		}
		result = res
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(e.retry.PropagationInterval), uint64(e.retry.PropagationRetries)),
		ctx,
	)
	if err := backoff.Retry(op, policy); err != nil {
		return domain.ProvisioningResult{}, errors.WrapUserFacing(err, errors.CodePropagationError,
			fmt.Sprintf("operation 'create %s %s' did not become visible after %d retries",
				spec.Kind, spec.Name, e.retry.PropagationRetries),
			"The control plane may be slow to converge; re-run with the same parameters to resume.")
	}
	return result, nil
}
