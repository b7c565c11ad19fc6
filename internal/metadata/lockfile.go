package metadata

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	oerrors "github.com/opmodel/crateplan/internal/errors"
)

// ChecksumProvider maps a package name and version to its content checksum.
type ChecksumProvider interface {
	Checksum(name, version string) (string, bool)
}

// Lockfile holds the checksums recorded in a Cargo.lock file.
type Lockfile struct {
	checksums map[string]string
}

type lockfileDoc struct {
	Version  int               `toml:"version"`
	Packages []lockedPackage   `toml:"package"`
	Metadata map[string]string `toml:"metadata"`
}

type lockedPackage struct {
	Name     string `toml:"name"`
	Version  string `toml:"version"`
	Source   string `toml:"source"`
	Checksum string `toml:"checksum"`
}

// LoadLockfile reads a Cargo.lock file.
func LoadLockfile(path string) (*Lockfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, oerrors.NewNotFoundError("lockfile does not exist", path, "Run cargo generate-lockfile")
		}
		return nil, fmt.Errorf("reading lockfile %s: %w", path, err)
	}
	return ParseLockfile(string(data))
}

// ParseLockfile decodes the contents of a Cargo.lock file. Checksums are read
// from per-package entries and from the legacy [metadata] table.
func ParseLockfile(data string) (*Lockfile, error) {
	var doc lockfileDoc
	if _, err := toml.Decode(data, &doc); err != nil {
		return nil, oerrors.NewValidationError(fmt.Sprintf("decoding lockfile: %v", err), "Cargo.lock", "", "")
	}

	lf := &Lockfile{checksums: make(map[string]string)}
	for _, pkg := range doc.Packages {
		if pkg.Checksum != "" {
			lf.checksums[checksumKey(pkg.Name, pkg.Version)] = pkg.Checksum
		}
	}
	// Legacy entries look like: "checksum <name> <version> (<source>)" = "<sha>"
	for key, sum := range doc.Metadata {
		fields := strings.Fields(key)
		if len(fields) < 3 || fields[0] != "checksum" || sum == "<none>" {
			continue
		}
		if _, ok := lf.checksums[checksumKey(fields[1], fields[2])]; !ok {
			lf.checksums[checksumKey(fields[1], fields[2])] = sum
		}
	}
	return lf, nil
}

// Checksum implements ChecksumProvider.
func (l *Lockfile) Checksum(name, version string) (string, bool) {
	if l == nil {
		return "", false
	}
	sum, ok := l.checksums[checksumKey(name, version)]
	return sum, ok
}

// Len returns the number of recorded checksums.
func (l *Lockfile) Len() int {
	if l == nil {
		return 0
	}
	return len(l.checksums)
}

func checksumKey(name, version string) string {
	return name + "@" + version
}
