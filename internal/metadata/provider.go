package metadata

import (
	"context"
	"fmt"
	"os"

	"sigs.k8s.io/yaml"

	oerrors "github.com/opmodel/crateplan/internal/errors"
)

// Provider supplies an already-resolved metadata snapshot.
type Provider interface {
	Metadata(ctx context.Context) (*Metadata, error)
}

// FileProvider reads a snapshot written by `cargo metadata`. YAML renderings
// of the same document are accepted.
type FileProvider struct {
	Path string
}

// NewFileProvider returns a Provider reading path.
func NewFileProvider(path string) *FileProvider {
	return &FileProvider{Path: path}
}

// Metadata loads and decodes the snapshot.
func (p *FileProvider) Metadata(ctx context.Context) (*Metadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(p.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, oerrors.NewNotFoundError(
				"metadata file does not exist",
				p.Path,
				"Generate it with: cargo metadata --format-version 1 > metadata.json",
			)
		}
		return nil, fmt.Errorf("reading metadata %s: %w", p.Path, err)
	}

	return Decode(data, p.Path)
}

// Decode parses a JSON or YAML metadata document. source names the document
// in error messages.
func Decode(data []byte, source string) (*Metadata, error) {
	var meta Metadata
	if err := yaml.Unmarshal(data, &meta); err != nil {
		return nil, oerrors.NewValidationError(
			fmt.Sprintf("decoding metadata: %v", err), source, "", "")
	}
	if meta.Resolve == nil {
		return nil, oerrors.NewValidationError(
			"metadata has no resolve graph", source, "resolve",
			"Run cargo metadata without --no-deps",
		)
	}
	return &meta, nil
}
