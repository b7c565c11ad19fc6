package catalog

import (
	"fmt"
	"strings"

	"github.com/opmodel/crateplan/internal/settings"
)

// WorkspacePath returns the Bazel package holding the crate's BUILD file.
func (e *Entry) WorkspacePath(s *settings.Settings) string {
	if s.GenMode == settings.GenModeRemote {
		return fmt.Sprintf("@%s__%s__%s//", s.GenWorkspacePrefix, e.SanitizedName, e.SanitizedVersion)
	}
	if strings.HasSuffix(s.WorkspacePath, "//") {
		return fmt.Sprintf("%s%s/%s", s.WorkspacePath, s.VendorDir, e.PackageIdent)
	}
	return fmt.Sprintf("%s/%s/%s", s.WorkspacePath, s.VendorDir, e.PackageIdent)
}

// Label returns the Bazel label of the crate's library target.
func (e *Entry) Label(s *settings.Settings) string {
	return e.WorkspacePath(s) + ":" + e.SanitizedName
}

// LocalBuildPath returns where the crate's BUILD file is written, relative to
// the workspace path.
func (e *Entry) LocalBuildPath(s *settings.Settings) string {
	if s.GenMode == settings.GenModeRemote {
		if s.OutputBuildfileSuffix == settings.DefaultOutputBuildfileSuffix {
			return fmt.Sprintf("remote/BUILD.%s.bazel", e.PackageIdent)
		}
		return fmt.Sprintf("remote/%s.%s", e.PackageIdent, s.OutputBuildfileSuffix)
	}
	return fmt.Sprintf("%s/%s/%s", s.VendorDir, e.PackageIdent, s.OutputBuildfileSuffix)
}
