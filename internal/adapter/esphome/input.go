package esphome

import (
	"github.com/berfenger/hwpgen/internal/core/domain"
	"github.com/berfenger/hwpgen/internal/core/port"
	"github.com/berfenger/hwpgen/internal/core/schema"
)

var NUMBER_MODES = []string{"AUTO", "BOX", "SLIDER"}

type NumberPlatform struct {
	platform
}

func NewNumberPlatform() *NumberPlatform {
	return &NumberPlatform{platform{
		kind:       domain.KIND_NUMBER,
		nativeType: "number::Number",
		required:   []string{domain.CONF_MIN_VALUE, domain.CONF_MAX_VALUE, domain.CONF_STEP},
	}}
}

// Schema bounds value to [min_value, max_value] on the step grid starting
// at min_value.
func (p *NumberPlatform) Schema(spec port.EntitySpec) *schema.MapNode {
	r := spec.Register
	return entitySchema(spec).Extend(
		optionalString(domain.CONF_UNIT_OF_MEASUREMENT, schema.String(), spec.Options.UnitOfMeasurement),
		optionalString(domain.CONF_DEVICE_CLASS, schema.String(), spec.Options.DeviceClass),
		schema.OptionalDefault(domain.CONF_MODE, schema.Enum(NUMBER_MODES...), "AUTO"),
		schema.Optional(domain.CONF_VALUE, schema.Float().Range(r.MinValue, r.MaxValue).Step(r.Step)),
	)
}

type SelectPlatform struct {
	platform
}

func NewSelectPlatform() *SelectPlatform {
	return &SelectPlatform{platform{
		kind:       domain.KIND_SELECT,
		nativeType: "select::Select",
		required:   []string{domain.CONF_OPTIONS},
	}}
}

func (p *SelectPlatform) Schema(spec port.EntitySpec) *schema.MapNode {
	return entitySchema(spec).Extend(
		schema.Optional(domain.CONF_VALUE, schema.Enum(spec.Register.Options...)),
	)
}
