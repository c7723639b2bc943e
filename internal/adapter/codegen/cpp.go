package codegen

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"github.com/berfenger/hwpgen/internal/core/domain"
	"github.com/berfenger/hwpgen/internal/core/schema"
	"github.com/berfenger/hwpgen/pkg/ordmap"
)

type cppBlock struct {
	Comment string
	Lines   []string
}

type cppTemplateData struct {
	Version  string
	Function string
	Count    int
	Blocks   []cppBlock
	Bindings int
}

var cppTemplate = template.Must(template.New("cpp").Parse(`// Code generated by hwpgen {{.Version}}. DO NOT EDIT.
// {{.Count}} operations, {{.Bindings}} bindings

void {{.Function}}() {
{{range .Blocks}}{{if .Comment}}  // {{.Comment}}
{{end}}{{range .Lines}}  {{.}}
{{end}}{{end}}}
`))

// CppRenderer renders a program as the body of a setup function.
type CppRenderer struct {
	Version  string
	Function string
}

func (c *CppRenderer) Render(p *domain.Program) ([]byte, error) {
	data := cppTemplateData{
		Version:  c.Version,
		Function: c.Function,
		Count:    len(p.Operations),
		Bindings: p.Count(domain.OP_BIND),
	}
	if data.Function == "" {
		data.Function = "setup_hwp"
	}
	for _, op := range p.Operations {
		block, err := renderOperation(op)
		if err != nil {
			return nil, err
		}
		data.Blocks = append(data.Blocks, block)
	}

	var buf bytes.Buffer
	if err := cppTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template: %w", err)
	}
	return buf.Bytes(), nil
}

func renderOperation(op domain.Operation) (cppBlock, error) {
	switch op.Code {
	case domain.OP_CONSTRUCT:
		if op.Type == GPIO_PIN_TYPE {
			return renderPin(op), nil
		}
		return cppBlock{Lines: []string{
			fmt.Sprintf("auto *%s = new %s(%s);", op.Target, op.Type, strings.Join(op.Args, ", ")),
		}}, nil
	case domain.OP_REGISTER:
		return renderRegister(op)
	case domain.OP_REGISTER_COMPONENT:
		return cppBlock{Lines: []string{fmt.Sprintf("App.register_component(%s);", op.Target)}}, nil
	case domain.OP_REGISTER_PARENTED:
		return cppBlock{Lines: []string{fmt.Sprintf("%s->set_parent(%s);", op.Target, op.Parent)}}, nil
	case domain.OP_BIND:
		return cppBlock{Lines: []string{fmt.Sprintf("%s->%s(%s);", op.Parent, op.Method, op.Target)}}, nil
	}
	return cppBlock{}, fmt.Errorf("unsupported operation %q", op.Code)
}

func renderPin(op domain.Operation) cppBlock {
	num, _ := op.Config.Get(domain.CONF_NUMBER)
	inverted, _ := op.Config.GetBool(domain.CONF_INVERTED)
	flags := []string{}
	if mode, ok := op.Config.GetMap(domain.CONF_MODE); ok {
		if in, _ := mode.GetBool(domain.CONF_INPUT); in {
			flags = append(flags, "gpio::Flags::FLAG_INPUT")
		}
		if out, _ := mode.GetBool(domain.CONF_OUTPUT); out {
			flags = append(flags, "gpio::Flags::FLAG_OUTPUT")
		}
	}
	if len(flags) == 0 {
		flags = append(flags, "gpio::Flags::FLAG_NONE")
	}
	return cppBlock{
		Comment: "pin",
		Lines: []string{
			fmt.Sprintf("auto *%s = new %s();", op.Target, op.Type),
			fmt.Sprintf("%s->set_pin(::GPIO_NUM_%v);", op.Target, num),
			fmt.Sprintf("%s->set_inverted(%t);", op.Target, inverted),
			fmt.Sprintf("%s->set_flags(%s);", op.Target, strings.Join(flags, " | ")),
		},
	}
}

func renderRegister(op domain.Operation) (cppBlock, error) {
	t := op.Target
	block := cppBlock{Comment: fmt.Sprintf("%s %s", op.Kind, t)}
	block.Lines = append(block.Lines, fmt.Sprintf("App.register_%s(%s);", op.Kind, t))

	var err error
	op.Config.Each(func(key string, value any) {
		if err != nil {
			return
		}
		var line string
		line, err = renderSetter(op.Kind, t, key, value)
		if line != "" {
			block.Lines = append(block.Lines, line)
		}
	})
	if err != nil {
		return block, err
	}

	for _, p := range op.Params {
		block.Lines = append(block.Lines, fmt.Sprintf("%s->traits.set_%s(%s);", t, p.Name, literal(p.Value)))
	}
	return block, nil
}

func renderSetter(kind domain.Kind, target, key string, value any) (string, error) {
	switch key {
	case domain.CONF_ID:
		return "", nil
	case domain.CONF_NAME:
		if value == nil {
			return fmt.Sprintf("%s->set_name(App.get_friendly_name());", target), nil
		}
	case domain.CONF_ENTITY_CATEGORY:
		if value == domain.ENTITY_CATEGORY_NONE {
			return "", nil
		}
		return fmt.Sprintf("%s->set_entity_category(ENTITY_CATEGORY_%s);", target, strings.ToUpper(fmt.Sprint(value))), nil
	case domain.CONF_STATE_CLASS:
		return fmt.Sprintf("%s->set_state_class(sensor::STATE_CLASS_%s);", target, strings.ToUpper(fmt.Sprint(value))), nil
	case domain.CONF_RESTORE_MODE:
		return fmt.Sprintf("%s->set_restore_mode(switch_::SWITCH_%s);", target, value), nil
	case domain.CONF_MODE:
		return fmt.Sprintf("%s->traits.set_mode(number::NUMBER_MODE_%s);", target, value), nil
	case domain.CONF_FILTERS:
		return renderFilters(target, value)
	case domain.CONF_VALUE:
		if kind == domain.KIND_SELECT {
			return fmt.Sprintf("%s->set_initial_option(%s);", target, literal(value)), nil
		}
		return fmt.Sprintf("%s->set_initial_value(%s);", target, literal(value)), nil
	}
	return fmt.Sprintf("%s->set_%s(%s);", target, key, literal(value)), nil
}

var filterClasses = map[string]string{
	domain.CONF_THROTTLE_AVERAGE: "sensor::ThrottleAverageFilter",
	domain.CONF_THROTTLE:         "sensor::ThrottleFilter",
	domain.CONF_HEARTBEAT:        "sensor::HeartbeatFilter",
	domain.CONF_OFFSET:           "sensor::OffsetFilter",
	domain.CONF_MULTIPLY:         "sensor::MultiplyFilter",
	domain.CONF_DELTA:            "sensor::DeltaFilter",
}

func renderFilters(target string, value any) (string, error) {
	list, ok := value.([]any)
	if !ok {
		return "", fmt.Errorf("%s filters: expected a list, got %T", target, value)
	}
	if len(list) == 0 {
		return "", nil
	}
	parts := make([]string, 0, len(list))
	for _, item := range list {
		f, ok := item.(*ordmap.Map)
		if !ok || f.Len() != 1 {
			return "", fmt.Errorf("%s filters: malformed filter %v", target, item)
		}
		name := f.Keys()[0]
		class, ok := filterClasses[name]
		if !ok {
			return "", fmt.Errorf("%s filters: unknown filter %q", target, name)
		}
		arg, _ := f.Get(name)
		parts = append(parts, fmt.Sprintf("new %s(%s)", class, literal(arg)))
	}
	return fmt.Sprintf("%s->set_filters({%s});", target, strings.Join(parts, ", ")), nil
}

// literal renders a resolved configuration value as a C++ expression.
func literal(value any) string {
	switch v := value.(type) {
	case nil:
		return "nullptr"
	case string:
		return strconv.Quote(v)
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case float64:
		s := schema.FormatNumber(v)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s + "f"
	case schema.Period:
		return strconv.FormatInt(v.Milliseconds(), 10)
	case []string:
		quoted := make([]string, len(v))
		for i, s := range v {
			quoted[i] = strconv.Quote(s)
		}
		return "{" + strings.Join(quoted, ", ") + "}"
	default:
		return fmt.Sprint(v)
	}
}
