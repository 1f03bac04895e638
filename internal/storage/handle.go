package storage

import (
	"fmt"
	"sync"
)

// Handle is the process-wide store handle: it opens the underlying
// repository lazily on first use and reuses it across stage invocations.
// Stages take a *Handle instead of a global so they stay independently
// testable; callers own the final Close.
type Handle struct {
	open func() (Repository, error)

	once sync.Once
	repo Repository
	err  error
}

// NewHandle wraps an opener. The opener runs at most once.
func NewHandle(open func() (Repository, error)) *Handle {
	return &Handle{open: open}
}

// Get returns the repository, opening and migrating it on first call.
func (h *Handle) Get() (Repository, error) {
	h.once.Do(func() {
		h.repo, h.err = h.open()
		if h.err != nil {
			h.err = fmt.Errorf("failed to open store: %w", h.err)
			return
		}
		if err := h.repo.Migrate(); err != nil {
			h.err = fmt.Errorf("failed to run migrations: %w", err)
		}
	})
	return h.repo, h.err
}

// Close tears down the underlying repository if it was ever opened.
func (h *Handle) Close() error {
	if h.repo == nil {
		return nil
	}
	return h.repo.Close()
}
