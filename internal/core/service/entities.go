package service

import (
	"fmt"

	"github.com/berfenger/hwpgen/internal/core/domain"
	"github.com/berfenger/hwpgen/internal/core/port"
	"github.com/berfenger/hwpgen/internal/core/registry"
	"github.com/berfenger/hwpgen/internal/core/synth"
)

const (
	SECTION_SENSORS  = domain.CONF_SENSORS
	SECTION_INPUTS   = domain.CONF_INPUTS
	SECTION_CONTROLS = "controls"
)

type EntityInfo struct {
	Key           string      `json:"key"`
	Name          string      `json:"name"`
	Kind          domain.Kind `json:"kind"`
	Section       string      `json:"section"`
	BindingName   string      `json:"binding,omitempty"`
	GeneratedType string      `json:"type"`
}

// ListEntities describes every entity the registry can produce, in
// generation order.
func ListEntities(reg *registry.Registry, platforms port.PlatformProvider) ([]EntityInfo, error) {
	inputs, err := synth.Resolve(reg.Inputs())
	if err != nil {
		return nil, fmt.Errorf("synthesizing input types: %w", err)
	}

	var out []EntityInfo
	for _, d := range reg.Sensors() {
		pl, err := platforms.Platform(d.Kind)
		if err != nil {
			return nil, fmt.Errorf("sensor %s: %w", d.Key, err)
		}
		out = append(out, EntityInfo{
			Key:           d.Key,
			Name:          d.DisplayName,
			Kind:          d.Kind,
			Section:       SECTION_SENSORS,
			BindingName:   d.BindingName(),
			GeneratedType: pl.NativeType(),
		})
	}
	for _, r := range inputs {
		out = append(out, EntityInfo{
			Key:           r.Key,
			Name:          r.DisplayName,
			Kind:          r.Kind,
			Section:       SECTION_INPUTS,
			BindingName:   r.BindingName(),
			GeneratedType: domain.Qualified(domain.HWP_NAMESPACE, r.GeneratedType()),
		})
	}
	for _, c := range reg.Controls() {
		out = append(out, EntityInfo{
			Key:           c.Key,
			Name:          c.DisplayName,
			Kind:          c.Kind,
			Section:       SECTION_CONTROLS,
			GeneratedType: c.Class,
		})
	}
	return out, nil
}
