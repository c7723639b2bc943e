package domain

import (
	"github.com/berfenger/hwpgen/pkg/ordmap"
)

// Instance is a handle to a constructed variable in the generated program.
type Instance struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

type OpCode string

const (
	OP_CONSTRUCT          OpCode = "construct"
	OP_REGISTER           OpCode = "register"
	OP_REGISTER_COMPONENT OpCode = "register_component"
	OP_REGISTER_PARENTED  OpCode = "register_parented"
	OP_BIND               OpCode = "bind"
)

type Operation struct {
	Code   OpCode      `json:"op"`
	Target string      `json:"target"`
	Type   string      `json:"type,omitempty"`
	Kind   Kind        `json:"kind,omitempty"`
	Args   []string    `json:"args,omitempty"`
	Parent string      `json:"parent,omitempty"`
	Method string      `json:"method,omitempty"`
	Config *ordmap.Map `json:"config,omitempty"`
	Params []Param     `json:"params,omitempty"`
}

type Program struct {
	Operations []Operation `json:"operations"`
}

// Count returns how many operations carry code.
func (p *Program) Count(code OpCode) int {
	n := 0
	for _, op := range p.Operations {
		if op.Code == code {
			n++
		}
	}
	return n
}

// Bindings returns bind operations in program order.
func (p *Program) Bindings() []Operation {
	var out []Operation
	for _, op := range p.Operations {
		if op.Code == OP_BIND {
			out = append(out, op)
		}
	}
	return out
}
