// Package esphome holds the entity platforms of the target firmware
// framework: their schemas and registration procedures.
package esphome

import (
	"context"
	"fmt"

	"github.com/berfenger/hwpgen/internal/core/domain"
	"github.com/berfenger/hwpgen/internal/core/port"
	"github.com/berfenger/hwpgen/internal/core/schema"
	"github.com/berfenger/hwpgen/pkg/ordmap"
)

var ENTITY_CATEGORIES = []string{
	domain.ENTITY_CATEGORY_NONE,
	domain.ENTITY_CATEGORY_CONFIG,
	domain.ENTITY_CATEGORY_DIAGNOSTIC,
}

// entitySchema holds the fields shared by every entity kind.
func entitySchema(spec port.EntitySpec) *schema.MapNode {
	fields := []schema.Field{
		schema.OptionalDefault(domain.CONF_ID, schema.ID(), spec.Key),
		schema.OptionalDefault(domain.CONF_NAME, schema.NameOrFriendly(), spec.DisplayName),
		optionalString(domain.CONF_ICON, schema.Icon(), spec.Options.Icon),
		schema.OptionalDefault(domain.CONF_DISABLED_BY_DEFAULT, schema.Bool(), false),
		schema.Optional(domain.CONF_INTERNAL, schema.Bool()),
		optionalString(domain.CONF_ENTITY_CATEGORY, schema.Enum(ENTITY_CATEGORIES...), spec.Options.EntityCategory),
	}
	return schema.Map(fields...)
}

// optionalString defaults key to def unless def is empty.
func optionalString(key string, node schema.Node, def string) schema.Field {
	if def == "" {
		return schema.Optional(key, node)
	}
	return schema.OptionalDefault(key, node, def)
}

// platform carries what every kind shares.
type platform struct {
	kind       domain.Kind
	nativeType string
	required   []string
}

func (p platform) Kind() domain.Kind {
	return p.kind
}

func (p platform) NativeType() string {
	return p.nativeType
}

// Register checks that the registration parameters the kind needs are all
// present before recording the registration.
func (p platform) Register(ctx context.Context, b port.Builder, inst domain.Instance, conf *ordmap.Map, params ...domain.Param) error {
	for _, name := range p.required {
		found := false
		for _, param := range params {
			if param.Name == name {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("%s %s: missing parameter %s: %w", p.kind, inst.ID, name, domain.ErrRegistration)
		}
	}
	if conf == nil {
		return fmt.Errorf("%s %s: no configuration: %w", p.kind, inst.ID, domain.ErrRegistration)
	}
	return b.Register(ctx, p.kind, inst, conf, params...)
}
