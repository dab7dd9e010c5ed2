// Package argtypes holds the registry of named argument types and the
// builtin type handlers a command declaration can refer to by id.
package argtypes

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/aerisDoesCodes/Komugari/internal/arguments"
)

// Registry maps type ids to handlers. It satisfies arguments.Resolver.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]arguments.TypeHandler
}

func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]arguments.TypeHandler)}
}

// Builtin returns a registry pre-populated with the builtin types:
// string, integer, number, boolean, url.
func Builtin() *Registry {
	r := NewRegistry()
	for id, h := range map[string]arguments.TypeHandler{
		"string":  stringType{},
		"integer": integerType{},
		"number":  numberType{},
		"boolean": booleanType{},
		"url":     urlType{},
	} {
		if err := r.Register(id, h); err != nil {
			panic(err)
		}
	}
	return r
}

func (r *Registry) Register(id string, h arguments.TypeHandler) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return errors.New("argtypes: type id is required")
	}
	if h == nil {
		return errors.New("argtypes: type handler is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.handlers[id]; exists {
		return fmt.Errorf("argtypes: type already registered: %s", id)
	}
	r.handlers[id] = h
	return nil
}

func (r *Registry) Lookup(id string) (arguments.TypeHandler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[id]
	return h, ok
}

// IDs lists the registered type ids in no particular order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.handlers))
	for id := range r.handlers {
		out = append(out, id)
	}
	return out
}
