package port

import (
	"context"

	"github.com/berfenger/hwpgen/internal/core/domain"
	"github.com/berfenger/hwpgen/internal/core/schema"
	"github.com/berfenger/hwpgen/pkg/ordmap"
)

// EntitySpec seeds a platform schema for one entity.
type EntitySpec struct {
	Key         string
	DisplayName string
	Options     domain.KindOptions
	Register    domain.RegisterOptions
}

// EntityPlatform is the schema builder and registration procedure of one
// entity kind.
type EntityPlatform interface {
	Kind() domain.Kind
	NativeType() string
	Schema(spec EntitySpec) *schema.MapNode
	Register(ctx context.Context, b Builder, inst domain.Instance, conf *ordmap.Map, params ...domain.Param) error
}

type PlatformProvider interface {
	Platform(kind domain.Kind) (EntityPlatform, error)
}

type PinCatalog = schema.PinCatalog
