package service

import (
	"fmt"
	"sync"

	"github.com/soladipe/saas-provision/internal/core/domain"
	"github.com/soladipe/saas-provision/internal/core/ports"
	"github.com/soladipe/saas-provision/internal/errors"
)

// HandlerRegistry maps resource kinds to their platform handlers.
type HandlerRegistry struct {
	mu       sync.RWMutex
	handlers map[domain.ResourceKind]ports.ResourceHandler
}

func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{
		handlers: make(map[domain.ResourceKind]ports.ResourceHandler),
	}
}

func (r *HandlerRegistry) Register(handler ports.ResourceHandler) error {
	if handler == nil {
		return errors.New(errors.CodeInternal, "attempted to register nil resource handler")
	}
	kind := handler.Kind()
	if kind == "" {
		return errors.New(errors.CodeInternal, "resource handler kind cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.handlers[kind]; exists {
		return errors.New(errors.CodeInternal, fmt.Sprintf("resource handler for kind '%s' already registered", kind))
	}
	r.handlers[kind] = handler
	return nil
}

func (r *HandlerRegistry) Get(kind domain.ResourceKind) (ports.ResourceHandler, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	handler, exists := r.handlers[kind]
	if !exists {
		return nil, errors.New(errors.CodeNotImplemented, fmt.Sprintf("no resource handler registered for kind '%s'", kind))
	}
	return handler, nil
}

func (r *HandlerRegistry) Kinds() []domain.ResourceKind {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]domain.ResourceKind, 0, len(r.handlers))
	for k := range r.handlers {
		kinds = append(kinds, k)
	}
	return kinds
}
