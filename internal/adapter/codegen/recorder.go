// Package codegen records wiring operations and renders them as setup code.
package codegen

import (
	"context"
	"fmt"

	"github.com/berfenger/hwpgen/internal/core/domain"
	"github.com/berfenger/hwpgen/internal/core/port"
	"github.com/berfenger/hwpgen/pkg/ordmap"
)

const (
	GPIO_PIN_TYPE = "esp32::ESP32InternalGPIOPin"
)

// Recorder is a port.Builder that appends every call to a program. A
// recorder serves a single build.
type Recorder struct {
	program   domain.Program
	instances map[string]domain.Instance
	classes   map[string]domain.ClassDecl
}

// NewRecorder knows the binding points of classes. Bind against any other
// type fails.
func NewRecorder(classes ...domain.ClassDecl) *Recorder {
	r := &Recorder{
		instances: map[string]domain.Instance{},
		classes:   map[string]domain.ClassDecl{},
	}
	for _, c := range classes {
		r.classes[c.Name] = c
	}
	return r
}

func NewProgramBuilder(classes ...domain.ClassDecl) port.ProgramBuilder {
	return NewRecorder(classes...)
}

// Program returns a copy of the operations recorded so far.
func (r *Recorder) Program() *domain.Program {
	ops := make([]domain.Operation, len(r.program.Operations))
	copy(ops, r.program.Operations)
	return &domain.Program{Operations: ops}
}

func (r *Recorder) Pin(ctx context.Context, id string, conf *ordmap.Map) (domain.Instance, error) {
	if err := ctx.Err(); err != nil {
		return domain.Instance{}, err
	}
	inst, err := r.define(id, GPIO_PIN_TYPE)
	if err != nil {
		return inst, err
	}
	r.append(domain.Operation{Code: domain.OP_CONSTRUCT, Target: id, Type: GPIO_PIN_TYPE, Config: conf.Clone()})
	return inst, nil
}

func (r *Recorder) Construct(ctx context.Context, id, typ string, args ...string) (domain.Instance, error) {
	if err := ctx.Err(); err != nil {
		return domain.Instance{}, err
	}
	for _, a := range args {
		if _, ok := r.instances[a]; !ok {
			return domain.Instance{}, fmt.Errorf("%s argument %q: %w", id, a, domain.ErrUnknownInstance)
		}
	}
	inst, err := r.define(id, typ)
	if err != nil {
		return inst, err
	}
	r.append(domain.Operation{Code: domain.OP_CONSTRUCT, Target: id, Type: typ, Args: append([]string(nil), args...)})
	return inst, nil
}

func (r *Recorder) Register(ctx context.Context, kind domain.Kind, inst domain.Instance, conf *ordmap.Map, params ...domain.Param) error {
	if err := r.check(ctx, inst); err != nil {
		return err
	}
	op := domain.Operation{Code: domain.OP_REGISTER, Target: inst.ID, Kind: kind, Config: conf.Clone()}
	if len(params) > 0 {
		op.Params = append([]domain.Param(nil), params...)
	}
	r.append(op)
	return nil
}

func (r *Recorder) RegisterComponent(ctx context.Context, inst domain.Instance) error {
	if err := r.check(ctx, inst); err != nil {
		return err
	}
	r.append(domain.Operation{Code: domain.OP_REGISTER_COMPONENT, Target: inst.ID})
	return nil
}

func (r *Recorder) RegisterParented(ctx context.Context, inst, parent domain.Instance) error {
	if err := r.check(ctx, inst); err != nil {
		return err
	}
	if err := r.check(ctx, parent); err != nil {
		return err
	}
	r.append(domain.Operation{Code: domain.OP_REGISTER_PARENTED, Target: inst.ID, Parent: parent.ID})
	return nil
}

func (r *Recorder) Bind(ctx context.Context, parent domain.Instance, method string, inst domain.Instance) error {
	if err := r.check(ctx, inst); err != nil {
		return err
	}
	if err := r.check(ctx, parent); err != nil {
		return err
	}
	class, ok := r.classes[parent.Type]
	if !ok || !class.HasMethod(method) {
		return fmt.Errorf("%s::%s: %w", parent.Type, method, domain.ErrMissingBindingPoint)
	}
	r.append(domain.Operation{Code: domain.OP_BIND, Target: inst.ID, Parent: parent.ID, Method: method})
	return nil
}

func (r *Recorder) define(id, typ string) (domain.Instance, error) {
	if _, ok := r.instances[id]; ok {
		return domain.Instance{}, fmt.Errorf("%q: %w", id, domain.ErrDuplicateID)
	}
	inst := domain.Instance{ID: id, Type: typ}
	r.instances[id] = inst
	return inst, nil
}

func (r *Recorder) check(ctx context.Context, inst domain.Instance) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if known, ok := r.instances[inst.ID]; !ok || known != inst {
		return fmt.Errorf("%q: %w", inst.ID, domain.ErrUnknownInstance)
	}
	return nil
}

func (r *Recorder) append(op domain.Operation) {
	r.program.Operations = append(r.program.Operations, op)
}
