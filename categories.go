package expenses_bot

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// DefaultCategories is used when the configuration sheet is
// unreachable or empty.
var DefaultCategories = []string{"Food", "Transport", "Home", "Health", "Fun", "Other"}

// Categories is the process-wide category list. Readers get an
// immutable snapshot; Reload replaces the whole list atomically, so no
// reader synchronization is needed.
type Categories struct {
	storage  Storage
	sheet    string
	fallback []string
	logger   *logrus.Logger
	current  atomic.Value // []string
}

func NewCategories(storage Storage, sheet string, fallback []string, logger *logrus.Logger) *Categories {
	c := &Categories{
		storage:  storage,
		sheet:    sheet,
		fallback: fallback,
		logger:   logger,
	}
	c.current.Store(append([]string(nil), fallback...))
	return c
}

// List returns the current snapshot. The returned slice must not be
// mutated by callers.
func (c *Categories) List() []string {
	return c.current.Load().([]string)
}

// Reload re-reads column A of the configuration sheet, skipping the
// header row, stripping blanks and keeping the first occurrence of
// duplicates. On failure or an empty source the fallback set is
// installed instead of an error.
func (c *Categories) Reload(ctx context.Context) []string {
	values, err := c.storage.FetchColumn(ctx, c.sheet, 1)
	if err != nil {
		c.logger.WithError(err).Warn("failed to load categories, using fallback")
		c.current.Store(append([]string(nil), c.fallback...))
		return c.List()
	}
	loaded := dedupStrings(values)
	if len(loaded) == 0 {
		c.logger.Warn("category sheet is empty, using fallback")
		loaded = append([]string(nil), c.fallback...)
	}
	c.current.Store(loaded)
	return loaded
}

func dedupStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}
	return result
}
