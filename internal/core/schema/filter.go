package schema

import (
	"github.com/berfenger/hwpgen/internal/core/domain"
	"github.com/berfenger/hwpgen/pkg/ordmap"
)

// sensor filters, each written as a single key mapping
var sensorFilters = []Field{
	Optional(domain.CONF_THROTTLE_AVERAGE, TimePeriod()),
	Optional(domain.CONF_THROTTLE, TimePeriod()),
	Optional(domain.CONF_HEARTBEAT, TimePeriod()),
	Optional(domain.CONF_OFFSET, Float()),
	Optional(domain.CONF_MULTIPLY, Float()),
	Optional(domain.CONF_DELTA, Float()),
}

type filterNode struct{}

// Filters validates a list of sensor filters.
func Filters() Node {
	return List(filterNode{})
}

func (filterNode) Validate(ctx *Context, path Path, value any) any {
	m, ok := value.(*ordmap.Map)
	if !ok || m.Len() != 1 {
		ctx.Report.AddError(path, CODE_INVALID_FILTER, "each filter must be a mapping with exactly one key")
		return nil
	}
	name := m.Keys()[0]
	for _, f := range sensorFilters {
		if f.Key == name {
			raw, _ := m.Get(name)
			return ordmap.Of(name, f.Node.Validate(ctx, path.Child(name), raw))
		}
	}
	ctx.Report.AddError(path.Child(name), CODE_INVALID_FILTER, "unknown filter %q, valid filters are %s", name, quoteAll(FilterNames()))
	return nil
}

func FilterNames() []string {
	names := make([]string, len(sensorFilters))
	for i, f := range sensorFilters {
		names[i] = f.Key
	}
	return names
}
