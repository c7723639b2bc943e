package schema

import (
	"fmt"

	"github.com/berfenger/hwpgen/pkg/ordmap"
)

// Node validates one value and returns its resolved form.
type Node interface {
	Validate(ctx *Context, path Path, value any) any
}

type omitted struct{}

// Omit is returned by a node to drop its key from the enclosing mapping.
var Omit any = omitted{}

// Context carries per-run validation state. It must not be shared between
// runs.
type Context struct {
	Report       *Report
	FriendlyName string
	ids          map[string]string
}

func NewContext(friendlyName string) *Context {
	return &Context{
		Report:       &Report{},
		FriendlyName: friendlyName,
		ids:          map[string]string{},
	}
}

// ClaimID records id as defined at path. It reports false when id was
// already claimed elsewhere.
func (c *Context) ClaimID(id string, path Path) bool {
	if prev, ok := c.ids[id]; ok {
		c.Report.AddError(path, CODE_DUPLICATE_ID, "ID %q redefined, first defined at %s", id, prev)
		return false
	}
	c.ids[id] = path.String()
	return true
}

type Field struct {
	Key        string
	Required   bool
	Node       Node
	Default    any
	hasDefault bool
}

func Required(key string, node Node) Field {
	return Field{Key: key, Required: true, Node: node}
}

func Optional(key string, node Node) Field {
	return Field{Key: key, Node: node}
}

// OptionalDefault validates def in place of a missing value. Mapping and
// list defaults are cloned on every use.
func OptionalDefault(key string, node Node, def any) Field {
	return Field{Key: key, Node: node, Default: def, hasDefault: true}
}

func (f Field) HasDefault() bool {
	return f.hasDefault
}

type MapNode struct {
	fields []Field
}

func Map(fields ...Field) *MapNode {
	return &MapNode{fields: fields}
}

// Extend returns a new node with fields added. A field whose key already
// exists replaces the previous one in place.
func (m *MapNode) Extend(fields ...Field) *MapNode {
	out := make([]Field, len(m.fields))
	copy(out, m.fields)
	for _, f := range fields {
		replaced := false
		for i := range out {
			if out[i].Key == f.Key {
				out[i] = f
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, f)
		}
	}
	return &MapNode{fields: out}
}

func (m *MapNode) Fields() []Field {
	return m.fields
}

func (m *MapNode) Field(key string) (Field, bool) {
	for _, f := range m.fields {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

func (m *MapNode) Validate(ctx *Context, path Path, value any) any {
	var in *ordmap.Map
	switch v := value.(type) {
	case nil:
		in = ordmap.New()
	case *ordmap.Map:
		in = v
	default:
		ctx.Report.AddError(path, CODE_INVALID_TYPE, "expected a mapping, got %s", typeName(value))
		return nil
	}

	for _, key := range in.Keys() {
		if _, ok := m.Field(key); !ok {
			ctx.Report.AddError(path.Child(key), CODE_EXTRA_KEY, "extra keys not allowed")
		}
	}

	out := ordmap.New()
	for _, f := range m.fields {
		fieldPath := path.Child(f.Key)
		raw, ok := in.Get(f.Key)
		if !ok {
			if f.Required {
				ctx.Report.AddError(fieldPath, CODE_REQUIRED, "required key not provided")
				continue
			}
			if !f.hasDefault {
				continue
			}
			raw = ordmap.CloneValue(f.Default)
		}
		res := f.Node.Validate(ctx, fieldPath, raw)
		if isOmitted(res) {
			continue
		}
		out.Set(f.Key, res)
	}
	return out
}

type mergeNode struct {
	base *ordmap.Map
	node Node
}

// MergeDefaults applies base under any mapping handed to node, so keys the
// user leaves out keep their computed defaults.
func MergeDefaults(base *ordmap.Map, node Node) Node {
	return &mergeNode{base: base, node: node}
}

func (n *mergeNode) Validate(ctx *Context, path Path, value any) any {
	switch v := value.(type) {
	case nil:
		return n.node.Validate(ctx, path, n.base.Clone())
	case *ordmap.Map:
		return n.node.Validate(ctx, path, ordmap.Merge(n.base, v))
	default:
		return n.node.Validate(ctx, path, value)
	}
}

type listNode struct {
	item Node
}

func List(item Node) Node {
	return &listNode{item: item}
}

func (n *listNode) Validate(ctx *Context, path Path, value any) any {
	switch v := value.(type) {
	case nil:
		return []any{}
	case []any:
		out := make([]any, 0, len(v))
		for i, item := range v {
			res := n.item.Validate(ctx, path.Index(i), item)
			if isOmitted(res) {
				continue
			}
			out = append(out, res)
		}
		return out
	default:
		// a single item is accepted as a one element list
		return []any{n.item.Validate(ctx, path.Index(0), value)}
	}
}

type disableableNode struct {
	node Node
}

// Disableable drops the key when the value is null or false.
func Disableable(node Node) Node {
	return &disableableNode{node: node}
}

func (n *disableableNode) Validate(ctx *Context, path Path, value any) any {
	switch v := value.(type) {
	case nil:
		return Omit
	case bool:
		if !v {
			return Omit
		}
		return n.node.Validate(ctx, path, nil)
	}
	return n.node.Validate(ctx, path, value)
}

func typeName(value any) string {
	switch value.(type) {
	case nil:
		return "null"
	case *ordmap.Map:
		return "mapping"
	case []any:
		return "list"
	case string:
		return "string"
	case bool:
		return "boolean"
	case int, int64, float64:
		return "number"
	default:
		return fmt.Sprintf("%T", value)
	}
}

func isOmitted(v any) bool {
	_, ok := v.(omitted)
	return ok
}
