package codegen

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/berfenger/hwpgen/internal/core/domain"
)

const (
	FORMAT_CPP  = "cpp"
	FORMAT_JSON = "json"

	dirPerm  = 0o755
	filePerm = 0o644
)

type Renderer interface {
	Render(p *domain.Program) ([]byte, error)
}

func NewRenderer(format, version string) (Renderer, error) {
	switch format {
	case FORMAT_CPP:
		return &CppRenderer{Version: version}, nil
	case FORMAT_JSON:
		return JSONRenderer{}, nil
	}
	return nil, fmt.Errorf("unknown output format %q", format)
}

// WriteFile writes content to path, creating the parent directory.
func WriteFile(path string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(path, content, filePerm); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
