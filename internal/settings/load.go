package settings

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	oerrors "github.com/opmodel/crateplan/internal/errors"
)

type razeTable struct {
	Raze *Settings `toml:"raze"`
}

type manifestDoc struct {
	Raze      *Settings `toml:"raze"`
	Workspace struct {
		Metadata razeTable `toml:"metadata"`
	} `toml:"workspace"`
	Package struct {
		Metadata razeTable `toml:"metadata"`
	} `toml:"package"`
}

// Load reads settings from a Cargo manifest or standalone settings file.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, oerrors.NewNotFoundError("settings file does not exist", path, "")
		}
		return nil, fmt.Errorf("reading settings %s: %w", path, err)
	}
	return Parse(string(data), path)
}

// Parse decodes settings from one of the tables [workspace.metadata.raze],
// [package.metadata.raze] or [raze]. Exactly one of them must be present.
func Parse(data, source string) (*Settings, error) {
	var doc manifestDoc
	if _, err := toml.Decode(data, &doc); err != nil {
		return nil, oerrors.NewValidationError(fmt.Sprintf("decoding settings: %v", err), source, "", "")
	}

	var found []string
	var s *Settings
	for _, candidate := range []struct {
		table    string
		settings *Settings
	}{
		{"workspace.metadata.raze", doc.Workspace.Metadata.Raze},
		{"package.metadata.raze", doc.Package.Metadata.Raze},
		{"raze", doc.Raze},
	} {
		if candidate.settings != nil {
			found = append(found, candidate.table)
			s = candidate.settings
		}
	}

	switch len(found) {
	case 0:
		return nil, oerrors.NewValidationError(
			"no raze settings found", source, "",
			"Add a [workspace.metadata.raze] or [package.metadata.raze] table",
		)
	case 1:
	default:
		return nil, oerrors.NewConfigError(
			fmt.Sprintf("raze settings are declared in more than one table: %v", found),
			map[string]string{"Location": source},
			"Keep a single raze table",
		)
	}

	s.applyDefaults()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}
