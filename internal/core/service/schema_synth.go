package service

import (
	"fmt"
	"time"

	"github.com/berfenger/hwpgen/internal/core/domain"
	"github.com/berfenger/hwpgen/internal/core/port"
	"github.com/berfenger/hwpgen/internal/core/registry"
	"github.com/berfenger/hwpgen/internal/core/schema"
	"github.com/berfenger/hwpgen/pkg/ordmap"
)

const (
	DEFAULT_UPDATE_INTERVAL = 30 * time.Second
	MIN_UPDATE_INTERVAL     = 10 * time.Second
	MAX_UPDATE_INTERVAL     = 1800 * time.Second
)

// SchemaSynthesizer composes the device schema from the descriptor tables.
type SchemaSynthesizer struct {
	Registry  *registry.Registry
	Platforms port.PlatformProvider
	Pins      port.PinCatalog
}

// Build returns the device schema for resolved inputs. The schema is owned
// by the caller and must not be shared between builds.
func (s *SchemaSynthesizer) Build(inputs []domain.ResolvedInput) (*schema.MapNode, error) {
	comp := s.Registry.Component()

	climate, err := s.Platforms.Platform(domain.KIND_CLIMATE)
	if err != nil {
		return nil, err
	}
	base := climate.Schema(port.EntitySpec{Key: comp.DefaultID, DisplayName: comp.DefaultName}).Extend(
		schema.OptionalDefault(domain.CONF_ID, schema.ID(domain.PIN_ID_SUFFIX), comp.DefaultID),
		schema.Required(domain.CONF_PIN, schema.Pin(s.Pins, true, true)),
		schema.OptionalDefault(domain.CONF_UPDATE_INTERVAL,
			schema.TimePeriod().Range(schema.Period{Duration: MIN_UPDATE_INTERVAL}, schema.Period{Duration: MAX_UPDATE_INTERVAL}),
			schema.Period{Duration: DEFAULT_UPDATE_INTERVAL}.String()),
	)

	controls, err := s.controlFields()
	if err != nil {
		return nil, err
	}
	sensors, err := s.sensorSection()
	if err != nil {
		return nil, err
	}
	inputSection, err := s.inputSection(inputs)
	if err != nil {
		return nil, err
	}

	fields := append(controls,
		schema.OptionalDefault(domain.CONF_SENSORS, sensors, ordmap.New()),
		schema.OptionalDefault(domain.CONF_INPUTS, inputSection, ordmap.New()),
	)
	return base.Extend(fields...), nil
}

func (s *SchemaSynthesizer) controlFields() ([]schema.Field, error) {
	var fields []schema.Field
	for _, c := range s.Registry.Controls() {
		pl, err := s.Platforms.Platform(c.Kind)
		if err != nil {
			return nil, fmt.Errorf("control %q: %w", c.Key, err)
		}
		node := pl.Schema(port.EntitySpec{Key: c.Key, DisplayName: c.DisplayName, Options: c.Options})
		fields = append(fields, schema.OptionalDefault(c.Key, schema.Disableable(node), ordmap.Of(domain.CONF_NAME, c.DisplayName)))
	}
	return fields, nil
}

// sensorSection materializes every sensor, user keys merged over the
// default record.
func (s *SchemaSynthesizer) sensorSection() (*schema.MapNode, error) {
	var fields []schema.Field
	for _, d := range s.Registry.Sensors() {
		pl, err := s.Platforms.Platform(d.Kind)
		if err != nil {
			return nil, fmt.Errorf("sensor %q: %w", d.Key, err)
		}
		node := pl.Schema(port.EntitySpec{Key: d.Key, DisplayName: d.DisplayName, Options: d.Options})
		def := SensorDefaults(d)
		fields = append(fields, schema.OptionalDefault(d.Key, schema.MergeDefaults(def, node), def))
	}
	return schema.Map(fields...), nil
}

// inputSection leaves inputs the user does not mention out of the tree.
func (s *SchemaSynthesizer) inputSection(inputs []domain.ResolvedInput) (*schema.MapNode, error) {
	var fields []schema.Field
	for _, in := range inputs {
		pl, err := s.Platforms.Platform(in.Kind)
		if err != nil {
			return nil, fmt.Errorf("input %q: %w", in.Key, err)
		}
		node := pl.Schema(port.EntitySpec{Key: in.Key, DisplayName: in.DisplayName, Options: in.Options, Register: in.Register})
		fields = append(fields, schema.Optional(in.Key, node))
	}
	return schema.Map(fields...), nil
}

// SensorDefaults is the record a sensor resolves from when the user leaves
// it out.
func SensorDefaults(d domain.SensorDescriptor) *ordmap.Map {
	def := ordmap.Of(
		domain.CONF_NAME, d.DisplayName,
		domain.CONF_DISABLED_BY_DEFAULT, false,
	)
	if d.Filter != nil {
		filters := []any{}
		for _, f := range d.Filter(d.Key) {
			filters = append(filters, ordmap.Of(f.Name, f.Value))
		}
		def.Set(domain.CONF_FILTERS, filters)
	}
	return def
}
