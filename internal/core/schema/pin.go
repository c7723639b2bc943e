package schema

import (
	"fmt"
	"strings"

	"github.com/berfenger/hwpgen/internal/core/domain"
	"github.com/berfenger/hwpgen/pkg/ordmap"
)

// PinCatalog resolves a pin reference ("D5", "GPIO18", 18) on the target
// board.
type PinCatalog interface {
	Lookup(ref string) (domain.PinInfo, error)
}

type pinNode struct {
	catalog PinCatalog
	input   bool
	output  bool
}

// Pin validates a GPIO pin that must support the given directions.
func Pin(catalog PinCatalog, input, output bool) Node {
	return &pinNode{catalog: catalog, input: input, output: output}
}

var pinSchema = Map(
	Required(domain.CONF_NUMBER, String()),
	OptionalDefault(domain.CONF_INVERTED, Bool(), false),
	Optional(domain.CONF_MODE, Map(
		OptionalDefault(domain.CONF_INPUT, Bool(), false),
		OptionalDefault(domain.CONF_OUTPUT, Bool(), false),
	)),
)

func (n *pinNode) Validate(ctx *Context, path Path, value any) any {
	var ref string
	inverted := false
	needInput, needOutput := n.input, n.output

	switch v := value.(type) {
	case string:
		ref = v
	case int:
		ref = fmt.Sprint(v)
	case *ordmap.Map:
		res, ok := pinSchema.Validate(ctx, path, v).(*ordmap.Map)
		if !ok {
			return nil
		}
		if ref, ok = res.GetString(domain.CONF_NUMBER); !ok {
			return nil
		}
		inverted, _ = res.GetBool(domain.CONF_INVERTED)
		if mode, ok := res.GetMap(domain.CONF_MODE); ok {
			in, _ := mode.GetBool(domain.CONF_INPUT)
			out, _ := mode.GetBool(domain.CONF_OUTPUT)
			needInput = needInput || in
			needOutput = needOutput || out
		}
		path = path.Child(domain.CONF_NUMBER)
	default:
		ctx.Report.AddError(path, CODE_INVALID_TYPE, "expected a pin, got %s", describe(value))
		return nil
	}

	info, err := n.catalog.Lookup(ref)
	if err != nil {
		ctx.Report.AddError(path, CODE_PIN_UNKNOWN, "%v", err)
		return nil
	}
	if info.Flash {
		ctx.Report.AddError(path, CODE_PIN_FLASH, "%s is used by the SPI flash and cannot be used", info.Name())
		return nil
	}
	var missing []string
	if needInput && !info.Input {
		missing = append(missing, "digital input")
	}
	if needOutput && !info.Output {
		missing = append(missing, "digital output")
	}
	if len(missing) > 0 {
		ctx.Report.AddError(path, CODE_PIN_CAPABILITY, "%s does not support %s", info.Name(), strings.Join(missing, " or "))
		return nil
	}
	if info.Strapping {
		ctx.Report.AddWarning(path, CODE_PIN_STRAPPING, "%s is a strapping pin, external pull resistors may change the boot mode", info.Name())
	}

	return ordmap.Of(
		domain.CONF_NUMBER, info.Number,
		domain.CONF_INVERTED, inverted,
		domain.CONF_MODE, ordmap.Of(
			domain.CONF_INPUT, needInput,
			domain.CONF_OUTPUT, needOutput,
		),
	)
}
