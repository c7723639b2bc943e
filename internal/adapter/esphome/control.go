package esphome

import (
	"github.com/berfenger/hwpgen/internal/core/domain"
	"github.com/berfenger/hwpgen/internal/core/port"
	"github.com/berfenger/hwpgen/internal/core/schema"
)

var RESTORE_MODES = []string{
	"RESTORE_DEFAULT_OFF",
	"RESTORE_DEFAULT_ON",
	"ALWAYS_OFF",
	"ALWAYS_ON",
	"RESTORE_INVERTED_DEFAULT_OFF",
	"RESTORE_INVERTED_DEFAULT_ON",
	"DISABLED",
}

type SwitchPlatform struct {
	platform
}

func NewSwitchPlatform() *SwitchPlatform {
	return &SwitchPlatform{platform{kind: domain.KIND_SWITCH, nativeType: "switch_::Switch"}}
}

func (p *SwitchPlatform) Schema(spec port.EntitySpec) *schema.MapNode {
	restore := spec.Options.RestoreMode
	if restore == "" {
		restore = "ALWAYS_OFF"
	}
	return entitySchema(spec).Extend(
		schema.OptionalDefault(domain.CONF_RESTORE_MODE, schema.Enum(RESTORE_MODES...), restore),
		schema.Optional(domain.CONF_INVERTED, schema.Bool()),
	)
}

type ButtonPlatform struct {
	platform
}

func NewButtonPlatform() *ButtonPlatform {
	return &ButtonPlatform{platform{kind: domain.KIND_BUTTON, nativeType: "button::Button"}}
}

func (p *ButtonPlatform) Schema(spec port.EntitySpec) *schema.MapNode {
	return entitySchema(spec).Extend(
		optionalString(domain.CONF_DEVICE_CLASS, schema.String(), spec.Options.DeviceClass),
	)
}

type ClimatePlatform struct {
	platform
}

func NewClimatePlatform() *ClimatePlatform {
	return &ClimatePlatform{platform{kind: domain.KIND_CLIMATE, nativeType: "climate::Climate"}}
}

func (p *ClimatePlatform) Schema(spec port.EntitySpec) *schema.MapNode {
	return entitySchema(spec)
}
