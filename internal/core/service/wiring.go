package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/berfenger/hwpgen/internal/core/domain"
	"github.com/berfenger/hwpgen/internal/core/port"
	"github.com/berfenger/hwpgen/internal/core/registry"
	"github.com/berfenger/hwpgen/pkg/ordmap"
	"go.uber.org/zap"
)

const (
	STEP_PARENT   = "parent"
	STEP_SENSORS  = "sensors"
	STEP_INPUTS   = "inputs"
	STEP_CONTROLS = "controls"
)

// Orchestrator turns a resolved tree into construct, register and bind
// operations, in registry order.
type Orchestrator struct {
	Registry  *registry.Registry
	Inputs    []domain.ResolvedInput
	Platforms port.PlatformProvider
	Logger    *zap.Logger
}

// Wire runs every step in sequence. The first failure aborts the remaining
// steps and is returned as a *domain.GenerationError.
func (o *Orchestrator) Wire(ctx context.Context, tree *ordmap.Map, b port.Builder) error {
	parent, err := o.wireParent(ctx, tree, b)
	if err != nil {
		return err
	}
	if err := o.wireSensors(ctx, tree, b, parent); err != nil {
		return err
	}
	if err := o.wireInputs(ctx, tree, b, parent); err != nil {
		return err
	}
	return o.wireControls(ctx, tree, b, parent)
}

func (o *Orchestrator) wireParent(ctx context.Context, tree *ordmap.Map, b port.Builder) (domain.Instance, error) {
	comp := o.Registry.Component()
	id, _ := tree.GetString(domain.CONF_ID)
	if id == "" {
		id = comp.DefaultID
	}
	fail := func(err error) (domain.Instance, error) {
		return domain.Instance{}, &domain.GenerationError{Step: STEP_PARENT, Key: id, Err: err}
	}

	pinConf, ok := tree.GetMap(domain.CONF_PIN)
	if !ok {
		return fail(fmt.Errorf("resolved tree has no %s", domain.CONF_PIN))
	}
	pin, err := b.Pin(ctx, domain.PinID(id), pinConf)
	if err != nil {
		return fail(err)
	}
	parent, err := b.Construct(ctx, id, comp.Class.Name, pin.ID)
	if err != nil {
		return fail(err)
	}
	if err := b.RegisterComponent(ctx, parent); err != nil {
		return fail(err)
	}
	climate, err := o.Platforms.Platform(domain.KIND_CLIMATE)
	if err != nil {
		return fail(err)
	}
	if err := climate.Register(ctx, b, parent, o.climateConfig(tree)); err != nil {
		return fail(err)
	}
	o.Logger.Debug("wiring@parent: controller constructed", zap.String("id", id), zap.String("pin", pin.ID))
	return parent, nil
}

// climateConfig keeps the controller's own entity fields, dropping the pin
// and every nested entity.
func (o *Orchestrator) climateConfig(tree *ordmap.Map) *ordmap.Map {
	conf := tree.Clone()
	conf.Delete(domain.CONF_PIN)
	conf.Delete(domain.CONF_SENSORS)
	conf.Delete(domain.CONF_INPUTS)
	for _, c := range o.Registry.Controls() {
		conf.Delete(c.Key)
	}
	return conf
}

func (o *Orchestrator) wireSensors(ctx context.Context, tree *ordmap.Map, b port.Builder, parent domain.Instance) error {
	section, _ := tree.GetMap(domain.CONF_SENSORS)
	for _, d := range o.Registry.Sensors() {
		fail := func(err error) error {
			return &domain.GenerationError{Step: STEP_SENSORS, Key: d.Key, Err: err}
		}
		conf, ok := section.GetMap(d.Key)
		if !ok {
			return fail(errors.New("sensor has no resolved configuration"))
		}
		pl, err := o.Platforms.Platform(d.Kind)
		if err != nil {
			return fail(err)
		}
		inst, err := b.Construct(ctx, entityID(conf, d.Key), pl.NativeType())
		if err != nil {
			return fail(err)
		}
		if err := pl.Register(ctx, b, inst, conf); err != nil {
			return fail(err)
		}
		if err := b.Bind(ctx, parent, d.BindingName(), inst); err != nil {
			return fail(err)
		}
	}
	o.Logger.Debug("wiring@sensors: sensors bound", zap.Int("count", len(o.Registry.Sensors())))
	return nil
}

func (o *Orchestrator) wireInputs(ctx context.Context, tree *ordmap.Map, b port.Builder, parent domain.Instance) error {
	section, _ := tree.GetMap(domain.CONF_INPUTS)
	wired := 0
	for _, in := range o.Inputs {
		conf, ok := section.GetMap(in.Key)
		if !ok {
			continue
		}
		fail := func(err error) error {
			return &domain.GenerationError{Step: STEP_INPUTS, Key: in.Key, Err: err}
		}
		pl, err := o.Platforms.Platform(in.Kind)
		if err != nil {
			return fail(err)
		}
		inst, err := b.Construct(ctx, entityID(conf, in.Key), domain.Qualified(domain.HWP_NAMESPACE, in.GeneratedType()))
		if err != nil {
			return fail(err)
		}
		if err := pl.Register(ctx, b, inst, conf, in.Register.Params(in.Kind)...); err != nil {
			return fail(err)
		}
		if err := b.RegisterParented(ctx, inst, parent); err != nil {
			return fail(err)
		}
		if err := b.Bind(ctx, parent, in.BindingName(), inst); err != nil {
			return fail(err)
		}
		wired++
	}
	o.Logger.Debug("wiring@inputs: inputs bound", zap.Int("count", wired))
	return nil
}

func (o *Orchestrator) wireControls(ctx context.Context, tree *ordmap.Map, b port.Builder, parent domain.Instance) error {
	for _, c := range o.Registry.Controls() {
		conf, ok := tree.GetMap(c.Key)
		if !ok {
			continue
		}
		fail := func(err error) error {
			return &domain.GenerationError{Step: STEP_CONTROLS, Key: c.Key, Err: err}
		}
		pl, err := o.Platforms.Platform(c.Kind)
		if err != nil {
			return fail(err)
		}
		inst, err := b.Construct(ctx, entityID(conf, c.Key), c.Class)
		if err != nil {
			return fail(err)
		}
		if err := pl.Register(ctx, b, inst, conf); err != nil {
			return fail(err)
		}
		if err := b.RegisterComponent(ctx, inst); err != nil {
			return fail(err)
		}
		if err := b.RegisterParented(ctx, inst, parent); err != nil {
			return fail(err)
		}
	}
	return nil
}

func entityID(conf *ordmap.Map, key string) string {
	if id, ok := conf.GetString(domain.CONF_ID); ok && id != "" {
		return id
	}
	return key
}
