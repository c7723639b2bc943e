package schema

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	identRegexp = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)
	iconRegexp  = regexp.MustCompile(`^[a-zA-Z0-9_-]+:[a-zA-Z0-9_-]+$`)
)

type stringNode struct{}

func String() Node {
	return stringNode{}
}

func (stringNode) Validate(ctx *Context, path Path, value any) any {
	switch v := value.(type) {
	case string:
		return v
	case int, int64, bool:
		return fmt.Sprint(v)
	case float64:
		return FormatNumber(v)
	case nil:
		ctx.Report.AddError(path, CODE_INVALID_TYPE, "string value is None")
	default:
		ctx.Report.AddError(path, CODE_INVALID_TYPE, "expected a string, got %s", typeName(value))
	}
	return nil
}

type boolNode struct{}

func Bool() Node {
	return boolNode{}
}

func (boolNode) Validate(ctx *Context, path Path, value any) any {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(v) {
		case "true", "yes", "on", "enable":
			return true
		case "false", "no", "off", "disable":
			return false
		}
	}
	ctx.Report.AddError(path, CODE_INVALID_TYPE, "expected a boolean, got %s", describe(value))
	return nil
}

type IntNode struct {
	min, max int
}

func Int(min, max int) *IntNode {
	return &IntNode{min: min, max: max}
}

func (n *IntNode) Validate(ctx *Context, path Path, value any) any {
	f, ok := toFloat(value)
	if !ok || f != math.Trunc(f) {
		ctx.Report.AddError(path, CODE_INVALID_TYPE, "expected an integer, got %s", describe(value))
		return nil
	}
	if f < float64(n.min) || f > float64(n.max) {
		ctx.Report.AddError(path, CODE_OUT_OF_RANGE, "value %s is outside the allowed range [%d, %d]", FormatNumber(f), n.min, n.max)
		return nil
	}
	return int(f)
}

// FloatNode validates a number, optionally bounded and snapped to a step
// grid that starts at the lower bound.
type FloatNode struct {
	min, max *float64
	step     float64
}

func Float() *FloatNode {
	return &FloatNode{}
}

func (n *FloatNode) Range(min, max float64) *FloatNode {
	c := *n
	c.min = &min
	c.max = &max
	return &c
}

func (n *FloatNode) Step(step float64) *FloatNode {
	c := *n
	c.step = step
	return &c
}

const stepTolerance = 1e-9

func (n *FloatNode) Validate(ctx *Context, path Path, value any) any {
	f, ok := toFloat(value)
	if !ok {
		ctx.Report.AddError(path, CODE_INVALID_TYPE, "expected a number, got %s", describe(value))
		return nil
	}
	if (n.min != nil && f < *n.min) || (n.max != nil && f > *n.max) {
		ctx.Report.AddError(path, CODE_OUT_OF_RANGE, "value %s is outside the allowed range [%s, %s]",
			FormatNumber(f), bound(n.min, "-inf"), bound(n.max, "+inf"))
		return nil
	}
	if n.step > 0 {
		origin := 0.0
		if n.min != nil {
			origin = *n.min
		}
		k := (f - origin) / n.step
		if math.Abs(k-math.Round(k)) > stepTolerance {
			ctx.Report.AddError(path, CODE_OFF_STEP, "value %s is not a multiple of step %s from %s",
				FormatNumber(f), FormatNumber(n.step), FormatNumber(origin))
			return nil
		}
	}
	return f
}

type enumNode struct {
	options []string
}

// Enum accepts exactly one of options, compared case-sensitively.
func Enum(options ...string) Node {
	opts := make([]string, len(options))
	copy(opts, options)
	return &enumNode{options: opts}
}

func (n *enumNode) Validate(ctx *Context, path Path, value any) any {
	s, ok := value.(string)
	if ok {
		for _, o := range n.options {
			if o == s {
				return s
			}
		}
	}
	ctx.Report.AddError(path, CODE_INVALID_OPTION, "unknown value %s, valid options are %s", describe(value), quoteAll(n.options))
	return nil
}

type idNode struct {
	suffixes []string
}

// ID accepts an identifier and claims it as unique within the tree. Each
// suffix claims a derived id the generated code also defines, e.g. "_pin".
func ID(suffixes ...string) Node {
	return idNode{suffixes: suffixes}
}

func (n idNode) Validate(ctx *Context, path Path, value any) any {
	s, ok := value.(string)
	if !ok || !identRegexp.MatchString(s) {
		ctx.Report.AddError(path, CODE_INVALID_ID, "%s is not a valid identifier", describe(value))
		return nil
	}
	ctx.ClaimID(s, path)
	for _, suffix := range n.suffixes {
		ctx.ClaimID(s+suffix, path)
	}
	return s
}

type iconNode struct{}

func Icon() Node {
	return iconNode{}
}

func (iconNode) Validate(ctx *Context, path Path, value any) any {
	s, ok := value.(string)
	if !ok || !iconRegexp.MatchString(s) {
		ctx.Report.AddError(path, CODE_INVALID_ICON, "icons must match the format \"[icon pack]:[icon]\", e.g. \"mdi:home-assistant\", got %s", describe(value))
		return nil
	}
	return s
}

type nameNode struct{}

// NameOrFriendly accepts a string, or null when a global friendly name is
// configured.
func NameOrFriendly() Node {
	return nameNode{}
}

func (nameNode) Validate(ctx *Context, path Path, value any) any {
	if value == nil {
		if ctx.FriendlyName == "" {
			ctx.Report.AddError(path, CODE_NAME_REQUIRED, "name cannot be null when friendly_name is not set")
		}
		return nil
	}
	return String().Validate(ctx, path, value)
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case float64:
		return v, !math.IsNaN(v) && !math.IsInf(v, 0)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// FormatNumber renders f without trailing zeros.
func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func bound(b *float64, open string) string {
	if b == nil {
		return open
	}
	return FormatNumber(*b)
}

func describe(value any) string {
	switch v := value.(type) {
	case string:
		return strconv.Quote(v)
	case nil:
		return "null"
	case int, int64, bool:
		return fmt.Sprint(v)
	case float64:
		return FormatNumber(v)
	default:
		return typeName(value)
	}
}

func quoteAll(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = strconv.Quote(s)
	}
	return strings.Join(quoted, ", ")
}
