package metrics

import (
	"strings"

	"github.com/gear6io/floe/pkg/errors"
	"github.com/gear6io/floe/schema"
)

// Table property keys the policy recognizes. Every other key is ignored.
const (
	DefaultModeKey      = "write.metadata.metrics.default"
	ColumnModeKeyPrefix = "write.metadata.metrics.column."
)

// MetricsConfig is the resolved per-column statistics policy for one write
// context. It is built once from a snapshot of table properties and the
// live schema, and never updated in place; later property changes require
// a new policy.
//
// A malformed default property degrades to the engine default. A malformed
// override, or an override naming a column the schema does not have, fails
// construction: an explicit per-column setting that cannot take effect is
// a configuration bug, not something to paper over at write time.
type MetricsConfig struct {
	defaultMode MetricsMode
	columnModes map[int]MetricsMode
	pathIDs     map[string]int
}

// NewMetricsConfig resolves table properties against a schema
func NewMetricsConfig(sch *schema.Schema, props map[string]string) (*MetricsConfig, error) {
	defaultMode := DefaultMode()
	if raw, ok := props[DefaultModeKey]; ok {
		if mode, err := ParseMode(raw); err == nil {
			defaultMode = mode
		}
	}

	columnModes := make(map[int]MetricsMode)
	for key, raw := range props {
		if !strings.HasPrefix(key, ColumnModeKeyPrefix) {
			continue
		}
		path := strings.TrimPrefix(key, ColumnModeKeyPrefix)

		leaf, ok := sch.FieldByPath(path)
		if !ok {
			return nil, errors.Newf(ErrUnknownColumn,
				"Invalid metrics config, could not find column %s from table prop %s in schema table", path, key)
		}

		mode, err := ParseMode(raw)
		if err != nil {
			return nil, errors.New(ErrInvalidMode, "invalid metrics mode in table property", err).
				AddContext("key", key).
				AddContext("value", raw)
		}
		columnModes[leaf.ID] = mode
	}

	pathIDs := make(map[string]int)
	for _, path := range sch.Paths() {
		if leaf, ok := sch.FieldByPath(path); ok {
			pathIDs[path] = leaf.ID
		}
	}

	return &MetricsConfig{
		defaultMode: defaultMode,
		columnModes: columnModes,
		pathIDs:     pathIDs,
	}, nil
}

// DefaultMode returns the mode applying to columns without an override
func (c *MetricsConfig) DefaultMode() MetricsMode {
	return c.defaultMode
}

// ModeForField returns the resolved mode for a field ID. Fields without an
// explicit override get the default mode.
func (c *MetricsConfig) ModeForField(id int) MetricsMode {
	if mode, ok := c.columnModes[id]; ok {
		return mode
	}
	return c.defaultMode
}

// ModeForColumn returns the resolved mode for a dotted column path. Paths
// the policy's schema snapshot does not know resolve to the default mode.
func (c *MetricsConfig) ModeForColumn(path string) MetricsMode {
	if id, ok := c.pathIDs[path]; ok {
		return c.ModeForField(id)
	}
	return c.defaultMode
}

// Overrides returns a copy of the explicit per-field overrides
func (c *MetricsConfig) Overrides() map[int]MetricsMode {
	out := make(map[int]MetricsMode, len(c.columnModes))
	for id, mode := range c.columnModes {
		out[id] = mode
	}
	return out
}
