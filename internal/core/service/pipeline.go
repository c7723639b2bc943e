package service

import (
	"context"
	"fmt"

	"github.com/berfenger/hwpgen/internal/core/domain"
	"github.com/berfenger/hwpgen/internal/core/port"
	"github.com/berfenger/hwpgen/internal/core/registry"
	"github.com/berfenger/hwpgen/internal/core/schema"
	"github.com/berfenger/hwpgen/internal/core/synth"
	"github.com/berfenger/hwpgen/pkg/ordmap"
	"github.com/davecgh/go-spew/spew"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Result struct {
	Tree    *ordmap.Map     `json:"tree,omitempty"`
	Program *domain.Program `json:"program,omitempty"`
	Report  *schema.Report  `json:"report"`
}

// Pipeline runs type synthesis, schema synthesis, validation and wiring.
// It only holds immutable data and is safe for concurrent builds.
type Pipeline struct {
	Registry     *registry.Registry
	Platforms    port.PlatformProvider
	Pins         port.PinCatalog
	NewBuilder   func(classes ...domain.ClassDecl) port.ProgramBuilder
	FriendlyName string
	Logger       *zap.Logger
}

// WithFriendlyName returns a copy that resolves null names to name. An
// empty name keeps the receiver.
func (p *Pipeline) WithFriendlyName(name string) *Pipeline {
	if name == "" {
		return p
	}
	cp := *p
	cp.FriendlyName = name
	return &cp
}

type prepared struct {
	inputs []domain.ResolvedInput
	result *Result
}

// Validate stops after validation. On a rejected document the returned
// result still carries the report and err is a *schema.ValidationError.
func (p *Pipeline) Validate(ctx context.Context, raw *ordmap.Map) (*Result, error) {
	prep, err := p.validate(ctx, raw)
	if prep == nil {
		return nil, err
	}
	return prep.result, err
}

// Build validates raw and wires the resolved tree into a fresh builder.
func (p *Pipeline) Build(ctx context.Context, raw *ordmap.Map) (*Result, error) {
	prep, err := p.validate(ctx, raw)
	if err != nil {
		if prep == nil {
			return nil, err
		}
		return prep.result, err
	}

	b := p.NewBuilder(p.Registry.Parent())
	orchestrator := &Orchestrator{
		Registry:  p.Registry,
		Inputs:    prep.inputs,
		Platforms: p.Platforms,
		Logger:    p.Logger,
	}
	if err := orchestrator.Wire(ctx, prep.result.Tree, b); err != nil {
		p.Logger.Error("pipeline@wire: generation failed", zap.Error(err))
		return prep.result, err
	}
	prep.result.Program = b.Program()

	if p.Logger.Core().Enabled(zapcore.DebugLevel) {
		p.Logger.Debug("pipeline@wire: program", zap.String("dump", spew.Sdump(prep.result.Program.Operations)))
	}
	p.Logger.Info("pipeline@wire: program generated",
		zap.Int("operations", len(prep.result.Program.Operations)),
		zap.Int("bindings", prep.result.Program.Count(domain.OP_BIND)))
	return prep.result, nil
}

func (p *Pipeline) validate(ctx context.Context, raw *ordmap.Map) (*prepared, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	inputs, err := synth.Resolve(p.Registry.Inputs())
	if err != nil {
		return nil, fmt.Errorf("synthesizing input types: %w", err)
	}
	synthesizer := &SchemaSynthesizer{Registry: p.Registry, Platforms: p.Platforms, Pins: p.Pins}
	node, err := synthesizer.Build(inputs)
	if err != nil {
		return nil, fmt.Errorf("synthesizing schema: %w", err)
	}

	validator := &Validator{FriendlyName: p.FriendlyName, Logger: p.Logger}
	tree, report := validator.Validate(node, raw)
	result := &Result{Tree: tree, Report: report}
	if err := report.Err(); err != nil {
		return &prepared{result: result}, err
	}
	if p.Logger.Core().Enabled(zapcore.DebugLevel) {
		p.Logger.Debug("pipeline@validate: resolved tree", zap.String("tree", tree.String()))
	}
	return &prepared{inputs: inputs, result: result}, nil
}
