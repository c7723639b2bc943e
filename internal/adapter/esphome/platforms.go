package esphome

import (
	"fmt"

	"github.com/berfenger/hwpgen/internal/core/domain"
	"github.com/berfenger/hwpgen/internal/core/port"
)

// Platforms indexes entity platforms by kind.
type Platforms struct {
	byKind map[domain.Kind]port.EntityPlatform
}

func NewPlatforms(platforms ...port.EntityPlatform) *Platforms {
	p := &Platforms{byKind: map[domain.Kind]port.EntityPlatform{}}
	for _, pl := range platforms {
		p.byKind[pl.Kind()] = pl
	}
	return p
}

// DefaultPlatforms returns every kind the heater component uses.
func DefaultPlatforms() *Platforms {
	return NewPlatforms(
		NewSensorPlatform(),
		NewBinarySensorPlatform(),
		NewTextSensorPlatform(),
		NewNumberPlatform(),
		NewSelectPlatform(),
		NewSwitchPlatform(),
		NewButtonPlatform(),
		NewClimatePlatform(),
	)
}

func (p *Platforms) Platform(kind domain.Kind) (port.EntityPlatform, error) {
	pl, ok := p.byKind[kind]
	if !ok {
		return nil, fmt.Errorf("no platform for kind %q: %w", kind, domain.ErrUnknownKind)
	}
	return pl, nil
}
