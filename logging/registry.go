package logging

import (
	"io"
	"log/slog"
	"strings"
	"sync"
)

// Registry holds the loggers built from a declarative config, keyed by their
// qualified name. Lookup follows the dotted hierarchy: a request for
// "reconciliation_ledger.services" falls back to "reconciliation_ledger" and
// finally to the root logger.
type Registry struct {
	mu      sync.RWMutex
	root    Logger
	loggers map[string]Logger
	closers []io.Closer
}

// NewRegistry creates a Registry with the given root logger. A nil root is
// replaced by a NoOpLogger.
func NewRegistry(root Logger) *Registry {
	if root == nil {
		root = NoOpLogger{}
	}
	return &Registry{root: root, loggers: map[string]Logger{}}
}

// Register associates a qualified name with a logger.
func (r *Registry) Register(qualname string, logger Logger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if qualname == "" || qualname == "root" {
		r.root = logger
		return
	}
	r.loggers[qualname] = logger
}

// Get returns the logger for the qualified name, walking up the dotted
// hierarchy and falling back to the root logger.
func (r *Registry) Get(qualname string) Logger {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for name := qualname; name != ""; {
		if l, ok := r.loggers[name]; ok {
			return l
		}
		idx := strings.LastIndex(name, ".")
		if idx < 0 {
			break
		}
		name = name[:idx]
	}
	return r.root
}

// Root returns the root logger.
func (r *Registry) Root() Logger {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.root
}

// Names returns the registered qualified names (root excluded).
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.loggers))
	for name := range r.loggers {
		names = append(names, name)
	}
	return names
}

// AddCloser records a resource (typically an append mode log file) that
// Close releases.
func (r *Registry) AddCloser(c io.Closer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closers = append(r.closers, c)
}

// Close releases all resources owned by the registry.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var firstErr error
	for _, c := range r.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	r.closers = nil
	return firstErr
}

// NewLineLogger builds a Logger fanning out to the given handlers, gated at
// the given level. It is the construction primitive the config builder uses.
func NewLineLogger(level Level, handlers ...slog.Handler) Logger {
	return NewSlogAdapter(slog.New(newMultiHandler(level, handlers...)))
}
