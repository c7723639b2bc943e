package service

import (
	"github.com/berfenger/hwpgen/internal/core/schema"
	"github.com/berfenger/hwpgen/pkg/ordmap"
	"go.uber.org/zap"
)

// Validator applies a device schema to a raw document.
type Validator struct {
	FriendlyName string
	Logger       *zap.Logger
}

// Validate returns the resolved tree and every diagnostic raised. The tree
// is nil whenever the report holds an error; nothing is partially applied.
func (v *Validator) Validate(node *schema.MapNode, raw *ordmap.Map) (*ordmap.Map, *schema.Report) {
	ctx := schema.NewContext(v.FriendlyName)
	res := node.Validate(ctx, schema.Path{}, raw)

	for _, w := range ctx.Report.Warnings {
		v.Logger.Warn("validate@report: "+w.Message, zap.String("path", w.Path), zap.String("code", w.Code))
	}
	if ctx.Report.HasErrors() {
		v.Logger.Debug("validate@report: configuration rejected", zap.Int("errors", len(ctx.Report.Errors)))
		return nil, ctx.Report
	}
	tree, _ := res.(*ordmap.Map)
	return tree, ctx.Report
}
