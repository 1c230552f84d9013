package protoweave

import (
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/protoweave/protoweave/resolver"
	"github.com/protoweave/protoweave/wire"
)

// Option configures a Protoweave instance.
type Option func(*config)

type config struct {
	searchPaths    []string
	searchPathsSet bool
	provider       resolver.Provider
	providerSet    bool
	logger         zerolog.Logger
	wire           wire.Config
}

func defaultConfig() config {
	return config{logger: zerolog.Nop()}
}

// validate collects every configuration problem instead of stopping at the
// first, so a caller fixing options sees all of them at once.
func (c *config) validate() error {
	var result *multierror.Error
	invalidCases := []struct {
		name string
		cond bool
	}{
		{"WithProvider requires a non-nil provider", c.providerSet && c.provider == nil},
		{"WithSearchPaths requires at least one root", c.searchPathsSet && len(c.searchPaths) == 0},
		{"WithSearchPaths and WithProvider cannot be combined", c.searchPathsSet && c.providerSet},
	}
	for _, ic := range invalidCases {
		if ic.cond {
			result = multierror.Append(result, errors.New(ic.name))
		}
	}
	return result.ErrorOrNil()
}

// WithSearchPaths sets the directories imports are resolved against, probed
// in order. The default is the current directory.
func WithSearchPaths(roots ...string) Option {
	return func(c *config) {
		c.searchPaths = append([]string(nil), roots...)
		c.searchPathsSet = true
	}
}

// WithProvider sets a custom source for imported files, replacing the
// search-path lookup.
func WithProvider(p resolver.Provider) Option {
	return func(c *config) {
		c.provider = p
		c.providerSet = true
	}
}

// WithLogger sets the logger for load-step debug events. The default
// discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithConfig sets the decode behavior used by Unmarshal. The zero Config is
// canonical proto3: unknown fields skipped, wire-type mismatches skipped,
// last occurrence of a singular field wins.
func WithConfig(cfg wire.Config) Option {
	return func(c *config) {
		c.wire = cfg
	}
}
