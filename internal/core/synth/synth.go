// Package synth derives the generated entity type of every input descriptor.
package synth

import (
	"fmt"

	"github.com/berfenger/hwpgen/internal/core/domain"
)

// TypeName is the generated type for an input: {key}_{kind suffix}.
func TypeName(d domain.InputDescriptor) string {
	return fmt.Sprintf("%s_%s", d.Key, d.Kind.Suffix())
}

// Resolve returns resolved copies of inputs. The arguments are not modified,
// and resolving already resolved descriptors yields the same names.
func Resolve(inputs []domain.InputDescriptor) ([]domain.ResolvedInput, error) {
	out := make([]domain.ResolvedInput, 0, len(inputs))
	owner := make(map[string]string, len(inputs))

	for _, in := range inputs {
		name := TypeName(in)
		if preset := in.Options.GeneratedType; preset != "" && preset != name {
			return nil, fmt.Errorf("input %q carries type %q, expected %q: %w", in.Key, preset, name, domain.ErrTypeCollision)
		}
		if prev, ok := owner[name]; ok {
			return nil, fmt.Errorf("inputs %q and %q both synthesize %q: %w", prev, in.Key, name, domain.ErrTypeCollision)
		}
		owner[name] = in.Key

		in.Options.GeneratedType = name
		in.Options.EntityCategory = domain.ENTITY_CATEGORY_CONFIG
		in.Register.Options = append([]string(nil), in.Register.Options...)
		out = append(out, domain.ResolvedInput{InputDescriptor: in})
	}
	return out, nil
}

// Descriptors strips the resolution wrapper, e.g. to resolve again.
func Descriptors(resolved []domain.ResolvedInput) []domain.InputDescriptor {
	out := make([]domain.InputDescriptor, len(resolved))
	for i, r := range resolved {
		out[i] = r.InputDescriptor
	}
	return out
}
