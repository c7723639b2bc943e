package port

import (
	"context"

	"github.com/berfenger/hwpgen/internal/core/domain"
	"github.com/berfenger/hwpgen/pkg/ordmap"
)

// Builder appends operations to the generated program. Every call is a
// sequencing point: it completes before the next one starts.
type Builder interface {
	Pin(ctx context.Context, id string, conf *ordmap.Map) (domain.Instance, error)
	Construct(ctx context.Context, id, typ string, args ...string) (domain.Instance, error)
	Register(ctx context.Context, kind domain.Kind, inst domain.Instance, conf *ordmap.Map, params ...domain.Param) error
	RegisterComponent(ctx context.Context, inst domain.Instance) error
	RegisterParented(ctx context.Context, inst, parent domain.Instance) error
	Bind(ctx context.Context, parent domain.Instance, method string, inst domain.Instance) error
}

// ProgramBuilder is a Builder that keeps what it recorded.
type ProgramBuilder interface {
	Builder
	Program() *domain.Program
}
