// Package loader reads device documents into ordered configuration trees.
package loader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/berfenger/hwpgen/internal/core/domain"
	"github.com/berfenger/hwpgen/pkg/ordmap"
	"gopkg.in/yaml.v3"
)

const (
	PLATFORM_NAME = "hwp"
	SECRETS_FILE  = "secrets.yaml"

	tagSecret = "!secret"
	tagMerge  = "!!merge"
)

var ErrComponentNotFound = errors.New("hwp component not found in document")

// Document is a parsed device file.
type Document struct {
	// Config is the raw component configuration.
	Config *ordmap.Map
	// FriendlyName is the device level esphome.friendly_name, if any.
	FriendlyName string
}

type Loader struct {
	Secrets map[string]string
}

// LoadFile parses path. Secrets come from secrets.yaml next to it when
// present.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read device file %s: %w", path, err)
	}
	l := &Loader{}
	secrets, err := os.ReadFile(filepath.Join(filepath.Dir(path), SECRETS_FILE))
	switch {
	case err == nil:
		if l.Secrets, err = parseSecrets(secrets); err != nil {
			return nil, err
		}
	case !errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("failed to read %s: %w", SECRETS_FILE, err)
	}
	return l.Parse(data)
}

func parseSecrets(data []byte) (map[string]string, error) {
	secrets := map[string]string{}
	if err := yaml.Unmarshal(data, &secrets); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", SECRETS_FILE, err)
	}
	return secrets, nil
}

// Parse accepts either a bare component configuration, a document with a
// top level hwp key, or a full device file listing the component under
// climate with platform hwp.
func (l *Loader) Parse(data []byte) (*Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse device YAML: %w", err)
	}
	if len(root.Content) == 0 {
		return &Document{Config: ordmap.New()}, nil
	}
	v, err := l.convert(root.Content[0])
	if err != nil {
		return nil, err
	}
	doc, ok := v.(*ordmap.Map)
	if !ok {
		return nil, fmt.Errorf("device YAML must be a mapping, got %T", v)
	}
	return extract(doc)
}

func extract(doc *ordmap.Map) (*Document, error) {
	out := &Document{}
	if esphome, ok := doc.GetMap("esphome"); ok {
		out.FriendlyName, _ = esphome.GetString("friendly_name")
	}

	if v, ok := doc.Get(string(domain.KIND_CLIMATE)); ok {
		items, _ := v.([]any)
		for _, item := range items {
			m, ok := item.(*ordmap.Map)
			if !ok {
				continue
			}
			if p, _ := m.GetString("platform"); p == PLATFORM_NAME {
				conf := m.Clone()
				conf.Delete("platform")
				out.Config = conf
				return out, nil
			}
		}
		return nil, ErrComponentNotFound
	}
	if v, ok := doc.Get(PLATFORM_NAME); ok {
		conf, ok := v.(*ordmap.Map)
		if !ok && v != nil {
			return nil, fmt.Errorf("%s must be a mapping", PLATFORM_NAME)
		}
		if conf == nil {
			conf = ordmap.New()
		}
		out.Config = conf
		return out, nil
	}

	doc.Delete("esphome")
	out.Config = doc
	return out, nil
}

func (l *Loader) convert(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.AliasNode:
		return l.convert(n.Alias)
	case yaml.MappingNode:
		return l.mapping(n)
	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := l.convert(c)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case yaml.ScalarNode:
		if n.Tag == tagSecret {
			s, ok := l.Secrets[n.Value]
			if !ok {
				return nil, fmt.Errorf("line %d: secret %q not defined", n.Line, n.Value)
			}
			return s, nil
		}
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return v, nil
	}
	return nil, fmt.Errorf("line %d: unsupported YAML node", n.Line)
}

// mapping keeps key order and rejects duplicate keys. Merge keys (<<)
// contribute keys that the mapping does not set itself.
func (l *Loader) mapping(n *yaml.Node) (*ordmap.Map, error) {
	out := ordmap.New()
	var merged []*ordmap.Map
	lines := map[string]int{}

	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if k.Tag == tagMerge {
			m, err := l.convert(v)
			if err != nil {
				return nil, err
			}
			switch mv := m.(type) {
			case *ordmap.Map:
				merged = append(merged, mv)
			case []any:
				for _, item := range mv {
					if im, ok := item.(*ordmap.Map); ok {
						merged = append(merged, im)
					}
				}
			default:
				return nil, fmt.Errorf("line %d: merge value must be a mapping", v.Line)
			}
			continue
		}
		if k.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: mapping keys must be scalars", k.Line)
		}
		if prev, ok := lines[k.Value]; ok {
			return nil, fmt.Errorf("line %d: duplicate key %q, first defined on line %d", k.Line, k.Value, prev)
		}
		lines[k.Value] = k.Line
		val, err := l.convert(v)
		if err != nil {
			return nil, err
		}
		out.Set(k.Value, val)
	}

	for _, m := range merged {
		m.Each(func(key string, value any) {
			if !out.Has(key) {
				out.Set(key, ordmap.CloneValue(value))
			}
		})
	}
	return out, nil
}
