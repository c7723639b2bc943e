package domain

import "fmt"

type SensorDescriptor struct {
	Key         string
	DisplayName string
	Kind        Kind
	Options     KindOptions
	Filter      FilterFactory
}

type InputDescriptor struct {
	Key         string
	DisplayName string
	Kind        Kind
	Options     KindOptions
	Register    RegisterOptions
}

// ResolvedInput is an input descriptor after type synthesis. It is never
// mutated once produced.
type ResolvedInput struct {
	InputDescriptor
}

func (r ResolvedInput) GeneratedType() string {
	return r.Options.GeneratedType
}

func (d SensorDescriptor) BindingName() string {
	return BindingName(d.Key)
}

func (d InputDescriptor) BindingName() string {
	return BindingName(d.Key)
}

// BindingName is the parent setter that receives the entity for key.
func BindingName(key string) string {
	return fmt.Sprintf("set_%s_sensor", key)
}

// ControlDescriptor is a fixed auxiliary control parented to the component.
// Controls are not bound through set_{key}_sensor.
type ControlDescriptor struct {
	Key         string
	DisplayName string
	Kind        Kind
	Class       string
	Options     KindOptions
}

// Component describes the parent controller that every entity binds to.
type Component struct {
	Class       ClassDecl
	DefaultID   string
	DefaultName string
	Controls    []ControlDescriptor
}
