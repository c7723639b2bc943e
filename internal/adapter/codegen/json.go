package codegen

import (
	"bytes"
	"encoding/json"

	"github.com/berfenger/hwpgen/internal/core/domain"
)

type JSONRenderer struct{}

func (JSONRenderer) Render(p *domain.Program) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
