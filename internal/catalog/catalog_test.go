package catalog_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opmodel/crateplan/internal/catalog"
	oerrors "github.com/opmodel/crateplan/internal/errors"
	"github.com/opmodel/crateplan/internal/metadata"
	"github.com/opmodel/crateplan/internal/settings"
	"github.com/opmodel/crateplan/internal/testutil"
)

func TestBuild(t *testing.T) {
	g := testutil.NewGraph("app")
	helper := g.Member(metadata.Package{Name: "helper", Version: "0.2.0"})
	log := g.Crate(metadata.Package{Name: "log", Version: "0.4.14"})
	cfgIf := g.Crate(metadata.Package{Name: "cfg-if", Version: "1.0.0"})
	g.Link(g.Root(), log, helper)
	g.Link(helper, log)
	g.Link(log, cfgIf)

	c, err := catalog.Build(g.Metadata())
	require.NoError(t, err)
	assert.Equal(t, g.Root(), c.Root())
	assert.Len(t, c.Entries(), 4)

	root, ok := c.Entry(g.Root())
	require.True(t, ok)
	assert.True(t, root.IsRoot)
	assert.True(t, root.IsWorkspaceMember)
	assert.False(t, root.IsRootDep)

	logEntry, ok := c.Entry(log)
	require.True(t, ok)
	assert.Equal(t, "log-0.4.14", logEntry.PackageIdent)
	assert.Equal(t, "log", logEntry.SanitizedName)
	assert.Equal(t, "0_4_14", logEntry.SanitizedVersion)
	assert.True(t, logEntry.IsRootDep)
	assert.False(t, logEntry.IsWorkspaceMember)
	assert.True(t, logEntry.IsWorkspaceMemberDependency())
	assert.Equal(t, []string{testutil.MemberID("app", "0.1.0"), helper}, logEntry.WorkspaceMemberDependents)

	cfgEntry, ok := c.Entry(cfgIf)
	require.True(t, ok)
	assert.Equal(t, "cfg_if", cfgEntry.SanitizedName)
	assert.False(t, cfgEntry.IsRootDep)
	assert.False(t, cfgEntry.IsWorkspaceMemberDependency())

	_, ok = c.Entry("nope 1.0.0")
	assert.False(t, ok)

	assert.Equal(t, map[string][]string{
		"app": {"0.1.0"}, "helper": {"0.2.0"}, "log": {"0.4.14"}, "cfg-if": {"1.0.0"},
	}, c.Versions())
}

func TestBuild_SortedNodes(t *testing.T) {
	g := testutil.NewGraph("app")
	g.Crate(metadata.Package{Name: "zeta", Version: "1.0.0"})
	g.Crate(metadata.Package{Name: "alpha", Version: "1.0.0"})

	c, err := catalog.Build(g.Metadata())
	require.NoError(t, err)

	var ids []string
	for _, node := range c.SortedNodes() {
		ids = append(ids, node.ID)
	}
	assert.Equal(t, []string{
		testutil.RegistryID("alpha", "1.0.0"),
		testutil.MemberID("app", "0.1.0"),
		testutil.RegistryID("zeta", "1.0.0"),
	}, ids)
}

func TestBuild_MissingRoot(t *testing.T) {
	t.Run("root not in graph", func(t *testing.T) {
		g := testutil.NewGraph("app")
		g.Metadata().Resolve.Root = "ghost 0.1.0"

		_, err := catalog.Build(g.Metadata())
		var missing *catalog.MissingRootError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, "ghost 0.1.0", missing.ID)
		assert.True(t, errors.Is(err, oerrors.ErrPlanning))
	})

	t.Run("no root and no members", func(t *testing.T) {
		meta := &metadata.Metadata{Resolve: &metadata.Resolve{}}
		_, err := catalog.Build(meta)
		var missing *catalog.MissingRootError
		require.ErrorAs(t, err, &missing)
	})

	t.Run("no resolve", func(t *testing.T) {
		_, err := catalog.Build(&metadata.Metadata{})
		var missing *catalog.MissingRootError
		require.ErrorAs(t, err, &missing)
	})
}

func TestBuild_VirtualWorkspace(t *testing.T) {
	g := testutil.NewGraph("app")
	other := g.Member(metadata.Package{Name: "other", Version: "0.1.0"})
	log := g.Crate(metadata.Package{Name: "log", Version: "0.4.14"})
	g.Link(other, log)
	g.Metadata().Resolve.Root = ""

	c, err := catalog.Build(g.Metadata())
	require.NoError(t, err)
	assert.Empty(t, c.Root())

	entry, _ := c.Entry(log)
	assert.True(t, entry.IsRootDep)
	app, _ := c.Entry(testutil.MemberID("app", "0.1.0"))
	assert.False(t, app.IsRoot)
}

func TestBuild_MissingPackages(t *testing.T) {
	g := testutil.NewGraph("app")
	var ghosts []string
	for i := 0; i < 7; i++ {
		ghosts = append(ghosts, fmt.Sprintf("ghost%d 1.0.0", i))
	}
	g.Link(g.Root(), ghosts...)

	_, err := catalog.Build(g.Metadata())
	var missing *catalog.MissingPackageError
	require.ErrorAs(t, err, &missing)
	assert.Len(t, missing.IDs, 7)
	assert.True(t, errors.Is(err, oerrors.ErrPlanning))

	msg := err.Error()
	assert.Contains(t, msg, "ghost0 1.0.0, ghost1 1.0.0, ghost2 1.0.0, ghost3 1.0.0, ghost4 1.0.0")
	assert.NotContains(t, msg, "ghost5")
	assert.Contains(t, msg, "and 2 others")
}

func TestBuild_DuplicatePackage(t *testing.T) {
	g := testutil.NewGraph("app")
	g.Crate(metadata.Package{Name: "log", Version: "0.4.14"})
	meta := g.Metadata()
	meta.Packages = append(meta.Packages, meta.Packages[1])

	_, err := catalog.Build(meta)
	var dup *catalog.DuplicatePackageError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, testutil.RegistryID("log", "0.4.14"), dup.ID)
}

func TestSanitizeVersion(t *testing.T) {
	tests := map[string]string{
		"0.4.14":           "0_4_14",
		"1.0.0-alpha.1":    "1_0_0_alpha_1",
		"0.1.0+Build..5":   "0_1_0_build_5",
		"2.0.0-rc.1+g1234": "2_0_0_rc_1_g1234",
	}
	for in, want := range tests {
		assert.Equal(t, want, catalog.SanitizeVersion(in), in)
	}
	assert.Equal(t, "proc_macro2", catalog.SanitizeName("proc-macro2"))
}

func TestLabels(t *testing.T) {
	g := testutil.NewGraph("app")
	id := g.Crate(metadata.Package{Name: "proc-macro2", Version: "1.0.24"})
	c, err := catalog.Build(g.Metadata())
	require.NoError(t, err)
	entry, _ := c.Entry(id)

	tests := []struct {
		name      string
		settings  func() *settings.Settings
		path      string
		label     string
		buildPath string
	}{
		{
			name: "remote",
			settings: func() *settings.Settings {
				s := settings.NewDefault("//cargo")
				s.GenMode = settings.GenModeRemote
				return s
			},
			path:      "@raze__proc_macro2__1_0_24//",
			label:     "@raze__proc_macro2__1_0_24//:proc_macro2",
			buildPath: "remote/BUILD.proc-macro2-1.0.24.bazel",
		},
		{
			name: "remote custom suffix",
			settings: func() *settings.Settings {
				s := settings.NewDefault("//cargo")
				s.GenMode = settings.GenModeRemote
				s.GenWorkspacePrefix = "vendored"
				s.OutputBuildfileSuffix = "BUILD"
				return s
			},
			path:      "@vendored__proc_macro2__1_0_24//",
			label:     "@vendored__proc_macro2__1_0_24//:proc_macro2",
			buildPath: "remote/proc-macro2-1.0.24.BUILD",
		},
		{
			name:      "vendored",
			settings:  func() *settings.Settings { return settings.NewDefault("//cargo") },
			path:      "//cargo/vendor/proc-macro2-1.0.24",
			label:     "//cargo/vendor/proc-macro2-1.0.24:proc_macro2",
			buildPath: "vendor/proc-macro2-1.0.24/BUILD.bazel",
		},
		{
			name:      "vendored at repository root",
			settings:  func() *settings.Settings { return settings.NewDefault("//") },
			path:      "//vendor/proc-macro2-1.0.24",
			label:     "//vendor/proc-macro2-1.0.24:proc_macro2",
			buildPath: "vendor/proc-macro2-1.0.24/BUILD.bazel",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.settings()
			assert.Equal(t, tt.path, entry.WorkspacePath(s))
			assert.Equal(t, tt.label, entry.Label(s))
			assert.Equal(t, tt.buildPath, entry.LocalBuildPath(s))
		})
	}
}
