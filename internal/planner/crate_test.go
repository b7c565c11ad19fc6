package planner_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opmodel/crateplan/internal/catalog"
	oerrors "github.com/opmodel/crateplan/internal/errors"
	"github.com/opmodel/crateplan/internal/license"
	"github.com/opmodel/crateplan/internal/metadata"
	"github.com/opmodel/crateplan/internal/planner"
	"github.com/opmodel/crateplan/internal/settings"
	"github.com/opmodel/crateplan/internal/testutil"
)

// fakeChecksums maps "<name> <version>" to a checksum.
type fakeChecksums map[string]string

func (f fakeChecksums) Checksum(name, version string) (string, bool) {
	sum, ok := f[name+" "+version]
	return sum, ok
}

func newPlanner(t *testing.T, g *testutil.Graph, s *settings.Settings, opts ...planner.Option) (*planner.Planner, *catalog.Catalog) {
	t.Helper()
	cat, err := catalog.Build(g.Metadata())
	require.NoError(t, err)
	if len(opts) == 0 {
		opts = append(opts, planner.WithFs(afero.NewMemMapFs()))
	}
	return planner.New(cat, s, opts...), cat
}

func planCrate(t *testing.T, g *testutil.Graph, s *settings.Settings, id string, opts ...planner.Option) (*planner.CrateContext, error) {
	t.Helper()
	p, cat := newPlanner(t, g, s, opts...)
	node, ok := cat.Node(id)
	require.True(t, ok, "no node for %s", id)
	return p.PlanCrate(node)
}

func TestPlanCrate_Basic(t *testing.T) {
	g := testutil.NewGraph("app")
	serde := g.Crate(metadata.Package{Name: "serde", Version: "1.0.100"})
	foo := g.Crate(metadata.Package{
		Name:         "foo-bar",
		Version:      "0.2.0",
		License:      "MIT OR Apache-2.0",
		Edition:      "2018",
		Dependencies: []metadata.Dependency{testutil.Dep("serde", "^1.0")},
	})
	g.Link(g.Root(), foo).Link(foo, serde).Features(foo, "std", "default")
	g.Declare(g.Root(), testutil.Dep("foo-bar", "0.2"))

	crate, err := planCrate(t, g, settings.NewDefault("//cargo"), foo)
	require.NoError(t, err)

	assert.Equal(t, "foo-bar", crate.PkgName)
	assert.Equal(t, "0.2.0", crate.PkgVersion)
	assert.Equal(t, "foo-bar-0.2.0", crate.Ident())
	assert.Equal(t, "2018", crate.Edition)
	assert.Equal(t, []string{"default", "std"}, crate.Features)
	assert.Equal(t, []planner.BuildableDependency{{
		Name:            "serde",
		Version:         "1.0.100",
		BuildableTarget: "//cargo/vendor/serde-1.0.100:serde",
	}}, crate.DefaultDeps.Dependencies)
	assert.Empty(t, crate.TargetedDeps)
	assert.Equal(t, []planner.BuildableTarget{{Name: "foo-bar", Kind: "lib", Path: "src/lib.rs"}}, crate.Targets)
	assert.Equal(t, "foo-bar", crate.LibTargetName)
	assert.False(t, crate.IsProcMacro)
	assert.Equal(t, "vendor/foo-bar-0.2.0/BUILD.bazel", crate.ExpectedBuildPath)
	assert.Equal(t, "//cargo/vendor/foo-bar-0.2.0", crate.WorkspacePathToCrate)
	assert.Equal(t, "https://crates.io/api/v1/crates/foo-bar/0.2.0/download", crate.RegistryURL)
	assert.True(t, crate.IsRootDependency)
	assert.True(t, crate.IsWorkspaceMemberDependency)
	assert.Equal(t, []string{"app"}, crate.WorkspaceMemberDependents)
	assert.Nil(t, crate.SourceDetails.Git)
	assert.Empty(t, crate.Sha256)
	assert.Nil(t, crate.RawSettings)
	assert.Equal(t, license.Evaluate("MIT OR Apache-2.0"), crate.License)
	assert.Equal(t, license.Summarize("MIT OR Apache-2.0"), crate.Licenses)
}

func TestPlanCrate_RemoteLabels(t *testing.T) {
	g := testutil.NewGraph("app")
	serde := g.Crate(metadata.Package{Name: "serde", Version: "1.0.100"})
	foo := g.Crate(metadata.Package{
		Name:         "foo-bar",
		Version:      "0.2.0",
		Dependencies: []metadata.Dependency{testutil.Dep("serde", "1")},
	})
	g.Link(g.Root(), foo).Link(foo, serde)

	s := settings.NewDefault("//cargo")
	s.GenMode = settings.GenModeRemote

	crate, err := planCrate(t, g, s, foo)
	require.NoError(t, err)

	assert.Equal(t, "@raze__foo_bar__0_2_0//", crate.WorkspacePathToCrate)
	assert.Equal(t, "remote/BUILD.foo-bar-0.2.0.bazel", crate.ExpectedBuildPath)
	require.Len(t, crate.DefaultDeps.Dependencies, 1)
	assert.Equal(t, "@raze__serde__1_0_100//:serde", crate.DefaultDeps.Dependencies[0].BuildableTarget)
}

func TestPlanCrate_DependencyKinds(t *testing.T) {
	g := testutil.NewGraph("app")
	fooSys := g.Crate(metadata.Package{Name: "foo-sys", Version: "0.1.0"})
	barSys := g.Crate(metadata.Package{Name: "bar-sys", Version: "0.2.0"})
	cc := g.Crate(metadata.Package{Name: "cc", Version: "1.0.73"})
	tempfile := g.Crate(metadata.Package{Name: "tempfile", Version: "3.3.0"})
	foo := g.Crate(metadata.Package{
		Name:    "foo",
		Version: "1.0.0",
		Dependencies: []metadata.Dependency{
			testutil.Dep("foo-sys", "0.1"),
			{Name: "bar-sys", Req: "0.2", Kind: metadata.KindBuild},
			{Name: "cc", Req: "1", Kind: metadata.KindBuild},
			{Name: "tempfile", Req: "3", Kind: metadata.KindDev},
		},
	})
	g.Link(g.Root(), foo).Link(foo, fooSys, barSys, cc, tempfile)

	crate, err := planCrate(t, g, settings.NewDefault("//cargo"), foo)
	require.NoError(t, err)

	sysDep := planner.BuildableDependency{Name: "foo-sys", Version: "0.1.0", BuildableTarget: "//cargo/vendor/foo-sys-0.1.0:foo_sys"}
	buildSysDep := planner.BuildableDependency{Name: "bar-sys", Version: "0.2.0", BuildableTarget: "//cargo/vendor/bar-sys-0.2.0:bar_sys"}
	ccDep := planner.BuildableDependency{Name: "cc", Version: "1.0.73", BuildableTarget: "//cargo/vendor/cc-1.0.73:cc"}
	tempDep := planner.BuildableDependency{Name: "tempfile", Version: "3.3.0", BuildableTarget: "//cargo/vendor/tempfile-3.3.0:tempfile"}

	want := planner.DependencySet{
		Dependencies:      []planner.BuildableDependency{sysDep},
		BuildDependencies: []planner.BuildableDependency{buildSysDep, ccDep, sysDep},
		DevDependencies:   []planner.BuildableDependency{tempDep},
	}
	if diff := cmp.Diff(want, crate.DefaultDeps); diff != "" {
		t.Errorf("default deps mismatch (-want +got):\n%s", diff)
	}
}

func TestPlanCrate_ProcMacro(t *testing.T) {
	g := testutil.NewGraph("app")
	dir := testutil.RegistryRoot + "/serde_derive-1.0.100"
	derive := g.Crate(metadata.Package{
		Name:    "serde_derive",
		Version: "1.0.100",
		Targets: []metadata.Target{{
			Name:       "serde_derive",
			Kind:       []string{"proc-macro"},
			CrateTypes: []string{"proc-macro"},
			SrcPath:    dir + "/src/lib.rs",
		}},
	})
	foo := g.Crate(metadata.Package{
		Name:         "foo",
		Version:      "1.0.0",
		Dependencies: []metadata.Dependency{testutil.Dep("serde_derive", "1")},
	})
	g.Link(g.Root(), foo).Link(foo, derive)

	crate, err := planCrate(t, g, settings.NewDefault("//cargo"), foo)
	require.NoError(t, err)
	assert.Empty(t, crate.DefaultDeps.Dependencies)
	assert.Equal(t, []planner.BuildableDependency{{
		Name:            "serde_derive",
		Version:         "1.0.100",
		BuildableTarget: "//cargo/vendor/serde_derive-1.0.100:serde_derive",
		IsProcMacro:     true,
	}}, crate.DefaultDeps.ProcMacroDependencies)

	crate, err = planCrate(t, g, settings.NewDefault("//cargo"), derive)
	require.NoError(t, err)
	assert.True(t, crate.IsProcMacro)
	assert.Equal(t, "serde_derive", crate.LibTargetName)
}

func TestPlanCrate_RenamedDependency(t *testing.T) {
	g := testutil.NewGraph("app")
	oldFutures := g.Crate(metadata.Package{Name: "futures", Version: "0.1.31"})
	newFutures := g.Crate(metadata.Package{Name: "futures", Version: "0.3.5"})
	foo := g.Crate(metadata.Package{
		Name:    "foo",
		Version: "1.0.0",
		Dependencies: []metadata.Dependency{
			{Name: "futures", Req: "^0.1", Kind: metadata.KindNormal, Rename: "old-futures"},
			testutil.Dep("futures", "^0.3"),
		},
	})
	g.Link(g.Root(), foo).Link(foo, oldFutures, newFutures)

	crate, err := planCrate(t, g, settings.NewDefault("//cargo"), foo)
	require.NoError(t, err)

	assert.Equal(t, []planner.BuildableDependency{
		{Name: "futures", Version: "0.1.31", BuildableTarget: "//cargo/vendor/futures-0.1.31:futures"},
		{Name: "futures", Version: "0.3.5", BuildableTarget: "//cargo/vendor/futures-0.3.5:futures"},
	}, crate.DefaultDeps.Dependencies)
	assert.Equal(t, []planner.DependencyAlias{{
		Target: "//cargo/vendor/futures-0.1.31:futures",
		Alias:  "old_futures",
	}}, crate.DefaultDeps.Aliased)
}

func TestPlanCrate_RenamedBuildAndDevDependencies(t *testing.T) {
	g := testutil.NewGraph("app")
	cc := g.Crate(metadata.Package{Name: "cc", Version: "1.0.73"})
	tempfile := g.Crate(metadata.Package{Name: "tempfile", Version: "3.3.0"})
	foo := g.Crate(metadata.Package{
		Name:    "foo",
		Version: "1.0.0",
		Dependencies: []metadata.Dependency{
			{Name: "cc", Req: "1.0", Kind: metadata.KindBuild, Rename: "cc-build"},
			{Name: "tempfile", Req: "3", Kind: metadata.KindDev, Rename: "tmp"},
			{Name: "tempfile", Req: "^4", Kind: metadata.KindDev, Rename: "tmp4"},
		},
	})
	g.Link(g.Root(), foo).Link(foo, cc, tempfile)

	crate, err := planCrate(t, g, settings.NewDefault("//cargo"), foo)
	require.NoError(t, err)

	assert.Equal(t, []planner.BuildableDependency{
		{Name: "cc", Version: "1.0.73", BuildableTarget: "//cargo/vendor/cc-1.0.73:cc"},
	}, crate.DefaultDeps.BuildDependencies)
	assert.Equal(t, []planner.DependencyAlias{
		{Target: "//cargo/vendor/cc-1.0.73:cc", Alias: "cc_build"},
		{Target: "//cargo/vendor/tempfile-3.3.0:tempfile", Alias: "tmp"},
	}, crate.DefaultDeps.Aliased)
}

func TestPlanCrate_ConflictingRenames(t *testing.T) {
	g := testutil.NewGraph("app")
	logCrate := g.Crate(metadata.Package{Name: "log", Version: "0.4.14"})
	foo := g.Crate(metadata.Package{
		Name:    "foo",
		Version: "1.0.0",
		Dependencies: []metadata.Dependency{
			{Name: "log", Req: "^0.4", Kind: metadata.KindNormal, Rename: "log-a"},
			{Name: "log", Req: "0.4", Kind: metadata.KindNormal, Rename: "log_b"},
		},
	})
	g.Link(g.Root(), foo).Link(foo, logCrate)

	_, err := planCrate(t, g, settings.NewDefault("//cargo"), foo)
	require.Error(t, err)

	var planErr *planner.PlanningError
	require.True(t, errors.As(err, &planErr))
	assert.Equal(t, "foo-1.0.0", planErr.Package())
	assert.Contains(t, err.Error(), "duplicated renamed package")
	assert.True(t, errors.Is(err, oerrors.ErrPlanning))
}

func TestPlanCrate_TargetedDependencies(t *testing.T) {
	newGraph := func() (*testutil.Graph, string) {
		g := testutil.NewGraph("app")
		libc := g.Crate(metadata.Package{Name: "libc", Version: "0.2.126"})
		winapi := g.Crate(metadata.Package{Name: "winapi", Version: "0.3.9"})
		cfgIf := g.Crate(metadata.Package{Name: "cfg-if", Version: "1.0.0"})
		redox := g.Crate(metadata.Package{Name: "redox_syscall", Version: "0.2.13"})
		foo := g.Crate(metadata.Package{
			Name:    "foo",
			Version: "1.0.0",
			Dependencies: []metadata.Dependency{
				testutil.Dep("libc", "0.2"),
				{Name: "libc", Req: "0.2", Kind: metadata.KindNormal, Target: "cfg(unix)"},
				{Name: "winapi", Req: "0.3", Kind: metadata.KindNormal, Target: "cfg(windows)"},
				{Name: "cfg-if", Req: "1", Kind: metadata.KindNormal, Target: "cfg(not(fuchsia))"},
				{Name: "redox_syscall", Req: "0.2", Kind: metadata.KindNormal, Target: `cfg(target_os = "redox")`},
			},
		})
		g.Link(g.Root(), foo).Link(foo, libc, winapi, cfgIf, redox)
		return g, foo
	}

	t.Run("all platforms", func(t *testing.T) {
		g, foo := newGraph()
		crate, err := planCrate(t, g, settings.NewDefault("//cargo"), foo)
		require.NoError(t, err)

		assert.Equal(t, []planner.BuildableDependency{
			{Name: "cfg-if", Version: "1.0.0", BuildableTarget: "//cargo/vendor/cfg-if-1.0.0:cfg_if"},
			{Name: "libc", Version: "0.2.126", BuildableTarget: "//cargo/vendor/libc-0.2.126:libc"},
		}, crate.DefaultDeps.Dependencies)

		want := []planner.TargetedDependencies{{
			Target: "cfg(windows)",
			Deps: planner.DependencySet{
				Dependencies: []planner.BuildableDependency{
					{Name: "winapi", Version: "0.3.9", BuildableTarget: "//cargo/vendor/winapi-0.3.9:winapi"},
				},
			},
			Platforms: []string{"i686-pc-windows-msvc", "x86_64-pc-windows-msvc"},
			Conditions: []string{
				"@rules_rust//rust/platform:i686-pc-windows-msvc",
				"@rules_rust//rust/platform:x86_64-pc-windows-msvc",
			},
		}}
		if diff := cmp.Diff(want, crate.TargetedDeps); diff != "" {
			t.Errorf("targeted deps mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("allowlist", func(t *testing.T) {
		g, foo := newGraph()
		s := settings.NewDefault("//cargo")
		s.Targets = []string{"x86_64-unknown-linux-gnu"}

		crate, err := planCrate(t, g, s, foo)
		require.NoError(t, err)
		assert.Empty(t, crate.TargetedDeps)
		assert.Len(t, crate.DefaultDeps.Dependencies, 2)
	})

	t.Run("rules workspace", func(t *testing.T) {
		g, foo := newGraph()
		s := settings.NewDefault("//cargo")
		s.RustRulesWorkspaceName = "io_bazel_rules_rust"

		crate, err := planCrate(t, g, s, foo)
		require.NoError(t, err)
		require.Len(t, crate.TargetedDeps, 1)
		assert.Equal(t, "@io_bazel_rules_rust//rust/platform:i686-pc-windows-msvc", crate.TargetedDeps[0].Conditions[0])
	})
}

func TestPlanCrate_SkippedDeps(t *testing.T) {
	g := testutil.NewGraph("app")
	serde := g.Crate(metadata.Package{Name: "serde", Version: "1.0.100"})
	foo := g.Crate(metadata.Package{
		Name:         "foo",
		Version:      "1.0.0",
		Dependencies: []metadata.Dependency{testutil.Dep("serde", "1")},
	})
	g.Link(g.Root(), foo).Link(foo, serde)

	overrides := &settings.CrateSettings{SkippedDeps: []string{"serde-1.0.100"}}
	s := settings.NewDefault("//cargo")
	s.Crates = map[string]map[string]*settings.CrateSettings{"foo": {"1.0.0": overrides}}

	crate, err := planCrate(t, g, s, foo)
	require.NoError(t, err)
	assert.Empty(t, crate.DefaultDeps.Dependencies)
	assert.Same(t, overrides, crate.RawSettings)
}

func TestPlanCrate_BuildScript(t *testing.T) {
	dir := testutil.RegistryRoot + "/ring-0.16.20"
	lib := planner.BuildableTarget{Name: "ring", Kind: "lib", Path: "src/lib.rs"}
	script := planner.BuildableTarget{Name: "build-script-build", Kind: "custom-build", Path: "build.rs"}

	tests := []struct {
		name          string
		defaultGen    bool
		crateGen      *bool
		wantTargets   []planner.BuildableTarget
		wantBuildrs   *planner.BuildableTarget
		wantRawConfig bool
	}{
		{name: "not generated", wantTargets: []planner.BuildableTarget{script, lib}},
		{name: "default on", defaultGen: true, wantTargets: []planner.BuildableTarget{lib}, wantBuildrs: &script},
		{name: "crate opt in", crateGen: boolPtr(true), wantTargets: []planner.BuildableTarget{lib}, wantBuildrs: &script, wantRawConfig: true},
		{name: "crate opt out", defaultGen: true, crateGen: boolPtr(false), wantTargets: []planner.BuildableTarget{script, lib}, wantRawConfig: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := testutil.NewGraph("app")
			ring := g.Crate(metadata.Package{
				Name:    "ring",
				Version: "0.16.20",
				Links:   "ring-asm",
				Targets: []metadata.Target{
					testutil.LibTarget("ring", dir),
					{Name: "build-script-build", Kind: []string{"custom-build"}, CrateTypes: []string{"bin"}, SrcPath: dir + "/build.rs"},
				},
			})
			g.Link(g.Root(), ring)

			s := settings.NewDefault("//cargo")
			s.DefaultGenBuildrs = tt.defaultGen
			if tt.crateGen != nil {
				s.Crates = map[string]map[string]*settings.CrateSettings{"ring": {"0.16": {GenBuildrs: tt.crateGen}}}
			}

			crate, err := planCrate(t, g, s, ring)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTargets, crate.Targets)
			assert.Equal(t, tt.wantBuildrs, crate.BuildScriptTarget)
			assert.Equal(t, tt.wantRawConfig, crate.RawSettings != nil)
			assert.Equal(t, "ring-asm", crate.Links)
		})
	}
}

func TestPlanCrate_GitSource(t *testing.T) {
	const checkout = "/cargo/git/checkouts/tools-1/abc123"
	newGraph := func() (*testutil.Graph, string) {
		g := testutil.NewGraph("app")
		widget := g.Crate(metadata.Package{
			ID:           "widget 0.3.0 (git+https://github.com/acme/tools.git?branch=main#abc123)",
			Name:         "widget",
			Version:      "0.3.0",
			Source:       "git+https://github.com/acme/tools.git?branch=main#abc123",
			ManifestPath: checkout + "/crates/widget/Cargo.toml",
			Targets:      []metadata.Target{testutil.LibTarget("widget", checkout+"/crates/widget")},
		})
		g.Link(g.Root(), widget)
		return g, widget
	}

	t.Run("remote mode walks to repository root", func(t *testing.T) {
		g, widget := newGraph()
		fs := afero.NewMemMapFs()
		require.NoError(t, fs.MkdirAll(checkout+"/.git", 0o755))
		s := settings.NewDefault("//cargo")
		s.GenMode = settings.GenModeRemote

		crate, err := planCrate(t, g, s, widget, planner.WithFs(fs))
		require.NoError(t, err)

		assert.Equal(t, &planner.GitRepo{
			Remote:          "https://github.com/acme/tools.git",
			Commit:          "abc123",
			PathToCrateRoot: "crates/widget",
		}, crate.SourceDetails.Git)
		assert.Equal(t, "crates/widget/src/lib.rs", crate.Targets[0].Path)
		assert.Empty(t, crate.RegistryURL)
	})

	t.Run("remote mode without repository", func(t *testing.T) {
		g, widget := newGraph()
		s := settings.NewDefault("//cargo")
		s.GenMode = settings.GenModeRemote

		_, err := planCrate(t, g, s, widget, planner.WithFs(afero.NewMemMapFs()))
		var rootErr *planner.RepoRootNotFoundError
		require.True(t, errors.As(err, &rootErr))
		assert.Equal(t, "widget-0.3.0", rootErr.Package())
		assert.Contains(t, err.Error(), "unable to locate git repository root")
	})

	t.Run("vendored mode uses manifest directory", func(t *testing.T) {
		g, widget := newGraph()
		crate, err := planCrate(t, g, settings.NewDefault("//cargo"), widget)
		require.NoError(t, err)

		require.NotNil(t, crate.SourceDetails.Git)
		assert.Empty(t, crate.SourceDetails.Git.PathToCrateRoot)
		assert.Equal(t, "src/lib.rs", crate.Targets[0].Path)
	})
}

func TestPlanCrate_NonPortablePath(t *testing.T) {
	g := testutil.NewGraph("app")
	bad := g.Crate(metadata.Package{
		Name:    "bad",
		Version: "1.0.0",
		Targets: []metadata.Target{{Name: "bad", Kind: []string{"lib"}, CrateTypes: []string{"lib"}, SrcPath: "/elsewhere/src/lib.rs"}},
	})
	g.Link(g.Root(), bad)

	_, err := planCrate(t, g, settings.NewDefault("//cargo"), bad)
	var pathErr *planner.NonPortablePathError
	require.True(t, errors.As(err, &pathErr))
	assert.Equal(t, "bad", pathErr.Target)
	assert.True(t, errors.Is(err, oerrors.ErrPlanning))
}

func TestPlanCrate_AdditionalBuildFile(t *testing.T) {
	newGraph := func() (*testutil.Graph, string) {
		g := testutil.NewGraph("app")
		serde := g.Crate(metadata.Package{Name: "serde", Version: "1.0.100"})
		g.Link(g.Root(), serde)
		return g, serde
	}
	s := settings.NewDefault("//cargo")
	s.Crates = map[string]map[string]*settings.CrateSettings{
		"serde": {"1": {AdditionalBuildFile: "third_party/serde.BUILD"}},
	}

	t.Run("present", func(t *testing.T) {
		g, serde := newGraph()
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, "/ws/third_party/serde.BUILD", []byte("# extra\n"), 0o644))

		crate, err := planCrate(t, g, s, serde, planner.WithFs(fs))
		require.NoError(t, err)
		assert.Equal(t, "/ws/third_party/serde.BUILD", crate.AdditionalBuildFile)
	})

	t.Run("missing", func(t *testing.T) {
		g, serde := newGraph()
		_, err := planCrate(t, g, s, serde, planner.WithFs(afero.NewMemMapFs()))

		var fileErr *planner.AdditionalBuildFileError
		require.True(t, errors.As(err, &fileErr))
		assert.Equal(t, "serde-1.0.100", fileErr.Package())
		assert.True(t, errors.Is(err, oerrors.ErrConfig))
	})
}

func TestPlanCrate_AmbiguousSettings(t *testing.T) {
	g := testutil.NewGraph("app")
	serde := g.Crate(metadata.Package{Name: "serde", Version: "1.0.100"})
	g.Link(g.Root(), serde)

	s := settings.NewDefault("//cargo")
	s.Crates = map[string]map[string]*settings.CrateSettings{
		"serde": {"1": {}, ">=1.0.50": {}},
	}

	_, err := planCrate(t, g, s, serde)
	var ambiguous *settings.AmbiguousSettingsError
	require.True(t, errors.As(err, &ambiguous))
	assert.Equal(t, []string{"1", ">=1.0.50"}, ambiguous.Requirements)
}

func TestPlanCrate_Checksum(t *testing.T) {
	g := testutil.NewGraph("app")
	serde := g.Crate(metadata.Package{Name: "serde", Version: "1.0.100"})
	g.Link(g.Root(), serde)

	crate, err := planCrate(t, g, settings.NewDefault("//cargo"), serde,
		planner.WithFs(afero.NewMemMapFs()),
		planner.WithChecksums(fakeChecksums{"serde 1.0.100": "f4473e8a"}),
	)
	require.NoError(t, err)
	assert.Equal(t, "f4473e8a", crate.Sha256)
}

func TestPlanCrate_WorkspaceMemberDependents(t *testing.T) {
	g := testutil.NewGraph("app")
	serde := g.Crate(metadata.Package{Name: "serde", Version: "1.0.100"})
	cli := g.Member(metadata.Package{
		Name:         "cli",
		Version:      "0.1.0",
		Dependencies: []metadata.Dependency{{Name: "serde", Req: "1", Kind: metadata.KindBuild}},
	})
	g.Declare(g.Root(),
		testutil.Dep("serde", "1"),
		metadata.Dependency{Name: "serde", Req: "1", Kind: metadata.KindDev},
	)
	g.Link(g.Root(), serde).Link(cli, serde)

	crate, err := planCrate(t, g, settings.NewDefault("//cargo"), serde)
	require.NoError(t, err)
	assert.Equal(t, []string{"app"}, crate.WorkspaceMemberDependents)
	assert.Equal(t, []string{"app"}, crate.WorkspaceMemberDevDependents)
	assert.Equal(t, []string{"cli"}, crate.WorkspaceMemberBuildDependents)
}

func boolPtr(b bool) *bool { return &b }
