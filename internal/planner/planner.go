// Package planner turns a resolved dependency graph into per-crate build
// plans for Bazel.
package planner

import (
	"github.com/spf13/afero"

	"github.com/opmodel/crateplan/internal/catalog"
	"github.com/opmodel/crateplan/internal/metadata"
	"github.com/opmodel/crateplan/internal/platform"
	"github.com/opmodel/crateplan/internal/settings"
)

// Planner plans crates from a catalog. It holds no mutable state, so
// PlanCrate may be called concurrently.
type Planner struct {
	catalog   *catalog.Catalog
	settings  *settings.Settings
	store     settings.Store
	matcher   *platform.Matcher
	fs        afero.Fs
	checksums metadata.ChecksumProvider
}

// Option configures a Planner.
type Option func(*Planner)

// WithFs sets the filesystem used to locate git repository roots and
// additional build files. Defaults to the OS filesystem.
func WithFs(fs afero.Fs) Option {
	return func(p *Planner) { p.fs = fs }
}

// WithStore replaces the source of per-crate overrides. Defaults to the
// overrides in the planner settings.
func WithStore(store settings.Store) Option {
	return func(p *Planner) { p.store = store }
}

// WithChecksums sets the checksum source.
func WithChecksums(checksums metadata.ChecksumProvider) Option {
	return func(p *Planner) { p.checksums = checksums }
}

// New creates a Planner.
func New(cat *catalog.Catalog, s *settings.Settings, opts ...Option) *Planner {
	p := &Planner{
		catalog:  cat,
		settings: s,
		store:    s,
		matcher:  platform.NewMatcher(platform.WithRulesWorkspace(s.RustRulesWorkspaceName)),
		fs:       afero.NewOsFs(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}
