package connector

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrUnknownDialect is returned when no registered provider serves a
// connection string.
var ErrUnknownDialect = errors.New("unknown database dialect")

var globalManager = &Manager{
	providers: make(map[string]Provider),
}

// Manager is a registry of providers keyed by dialect name.
type Manager struct {
	providers map[string]Provider
	mu        sync.RWMutex
}

// Register makes a provider available under name, replacing any previous
// registration.
func Register(name string, provider Provider) {
	globalManager.mu.Lock()
	defer globalManager.mu.Unlock()
	globalManager.providers[name] = provider
}

// Lookup returns the provider registered under name.
func Lookup(name string) (Provider, bool) {
	globalManager.mu.RLock()
	defer globalManager.mu.RUnlock()
	p, ok := globalManager.providers[name]
	return p, ok
}

// Providers lists the registered dialect names.
func Providers() []string {
	globalManager.mu.RLock()
	defer globalManager.mu.RUnlock()
	names := make([]string, 0, len(globalManager.providers))
	for name := range globalManager.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve infers the dialect of connStr and returns its provider.
func Resolve(connStr string) (string, Provider, error) {
	name, err := DialectOf(connStr)
	if err != nil {
		return "", nil, err
	}
	p, ok := Lookup(name)
	if !ok {
		return "", nil, fmt.Errorf("%w: provider %s not registered", ErrUnknownDialect, name)
	}
	return name, p, nil
}

// Shutdown closes every registered provider's driver handles.
func Shutdown() error {
	globalManager.mu.RLock()
	defer globalManager.mu.RUnlock()
	var errs []error
	for name, p := range globalManager.providers {
		if err := p.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}
