package esphome

import (
	"github.com/berfenger/hwpgen/internal/core/domain"
	"github.com/berfenger/hwpgen/internal/core/port"
	"github.com/berfenger/hwpgen/internal/core/schema"
)

var STATE_CLASSES = []string{"", "measurement", "total", "total_increasing"}

type SensorPlatform struct {
	platform
}

func NewSensorPlatform() *SensorPlatform {
	return &SensorPlatform{platform{kind: domain.KIND_SENSOR, nativeType: "sensor::Sensor"}}
}

func (p *SensorPlatform) Schema(spec port.EntitySpec) *schema.MapNode {
	fields := []schema.Field{
		optionalString(domain.CONF_UNIT_OF_MEASUREMENT, schema.String(), spec.Options.UnitOfMeasurement),
		optionalString(domain.CONF_DEVICE_CLASS, schema.String(), spec.Options.DeviceClass),
		optionalString(domain.CONF_STATE_CLASS, schema.Enum(STATE_CLASSES...), spec.Options.StateClass),
		schema.Optional(domain.CONF_FILTERS, schema.Filters()),
	}
	if spec.Options.AccuracyDecimals != nil {
		fields = append(fields, schema.OptionalDefault(domain.CONF_ACCURACY_DECIMALS, schema.Int(0, 6), *spec.Options.AccuracyDecimals))
	} else {
		fields = append(fields, schema.Optional(domain.CONF_ACCURACY_DECIMALS, schema.Int(0, 6)))
	}
	return entitySchema(spec).Extend(fields...)
}

type BinarySensorPlatform struct {
	platform
}

func NewBinarySensorPlatform() *BinarySensorPlatform {
	return &BinarySensorPlatform{platform{kind: domain.KIND_BINARY_SENSOR, nativeType: "binary_sensor::BinarySensor"}}
}

func (p *BinarySensorPlatform) Schema(spec port.EntitySpec) *schema.MapNode {
	return entitySchema(spec).Extend(
		optionalString(domain.CONF_DEVICE_CLASS, schema.String(), spec.Options.DeviceClass),
		schema.Optional(domain.CONF_FILTERS, schema.Filters()),
	)
}

type TextSensorPlatform struct {
	platform
}

func NewTextSensorPlatform() *TextSensorPlatform {
	return &TextSensorPlatform{platform{kind: domain.KIND_TEXT_SENSOR, nativeType: "text_sensor::TextSensor"}}
}

func (p *TextSensorPlatform) Schema(spec port.EntitySpec) *schema.MapNode {
	return entitySchema(spec).Extend(
		optionalString(domain.CONF_DEVICE_CLASS, schema.String(), spec.Options.DeviceClass),
	)
}
