package registry

import (
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/ext/typeexpr"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// OptionSpec declares one option a module type accepts.
type OptionSpec struct {
	Name string
	// Type is an HCL type constraint such as "string", "number" or
	// "list(string)". Empty means any.
	Type     string
	Required bool
	// Default is used when an optional option is absent or null. Optional
	// options must declare one.
	Default cty.Value
}

// OptionError reports an option record that does not satisfy a module type's
// schema.
type OptionError struct {
	Module string
	Option string
	Reason string
}

func (e *OptionError) Error() string {
	if e.Option == "" {
		return fmt.Sprintf("module %q: %s", e.Module, e.Reason)
	}
	return fmt.Sprintf("module %q: option %q: %s", e.Module, e.Option, e.Reason)
}

// Options is a validated option record: every declared option is present,
// non-null and of its declared type.
type Options struct {
	val cty.Value
}

// Value returns the record as a cty object.
func (o Options) Value() cty.Value {
	return o.val
}

// Decode copies the record into target, a pointer to a struct whose fields
// carry `cty:"name"` tags for every declared option.
func (o Options) Decode(target any) error {
	if err := gocty.FromCtyValue(o.val, target); err != nil {
		return fmt.Errorf("decoding options: %w", err)
	}
	return nil
}

type compiledSpec struct {
	OptionSpec
	ty cty.Type
}

func compileSpecs(specs []OptionSpec) ([]*compiledSpec, error) {
	seen := make(map[string]struct{}, len(specs))
	out := make([]*compiledSpec, 0, len(specs))

	for _, spec := range specs {
		if spec.Name == "" {
			return nil, fmt.Errorf("option with empty name")
		}
		if _, dup := seen[spec.Name]; dup {
			return nil, fmt.Errorf("option %q declared twice", spec.Name)
		}
		seen[spec.Name] = struct{}{}

		ty, err := parseTypeConstraint(spec.Name, spec.Type)
		if err != nil {
			return nil, err
		}

		cs := &compiledSpec{OptionSpec: spec, ty: ty}
		if !spec.Required {
			if spec.Default.IsNull() {
				return nil, fmt.Errorf("optional option %q has no default", spec.Name)
			}
			def, err := convert.Convert(spec.Default, ty)
			if err != nil {
				return nil, fmt.Errorf("default of option %q: %w", spec.Name, err)
			}
			cs.Default = def
		}
		out = append(out, cs)
	}
	return out, nil
}

// parseTypeConstraint turns a type expression such as "list(string)" into a
// cty.Type using HCL's own type constraint syntax.
func parseTypeConstraint(name, src string) (cty.Type, error) {
	if src == "" {
		return cty.DynamicPseudoType, nil
	}
	expr, diags := hclsyntax.ParseExpression([]byte(src), fmt.Sprintf("<option %s>", name), hcl.InitialPos)
	if diags.HasErrors() {
		return cty.NilType, fmt.Errorf("type of option %q: %w", name, diags)
	}
	ty, diags := typeexpr.TypeConstraint(expr)
	if diags.HasErrors() {
		return cty.NilType, fmt.Errorf("type of option %q: %w", name, diags)
	}
	return ty, nil
}

// validate checks raw against the schema. Options are visited in sorted order
// so that the first reported problem is stable across runs.
func (r *registered) validate(typeName string, raw cty.Value) (Options, error) {
	given := map[string]cty.Value{}

	if !raw.IsNull() {
		ty := raw.Type()
		if !ty.IsObjectType() && !ty.IsMapType() {
			return Options{}, &OptionError{Module: typeName, Reason: fmt.Sprintf("options must be an object, got %s", ty.FriendlyName())}
		}
		if !raw.IsWhollyKnown() {
			return Options{}, &OptionError{Module: typeName, Reason: "options contain values that are not known until apply"}
		}
		for it := raw.ElementIterator(); it.Next(); {
			k, v := it.Element()
			given[k.AsString()] = v
		}
	}

	declared := make(map[string]*compiledSpec, len(r.specs))
	for _, spec := range r.specs {
		declared[spec.Name] = spec
	}

	unknown := make([]string, 0)
	for name := range given {
		if _, ok := declared[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return Options{}, &OptionError{Module: typeName, Option: unknown[0], Reason: "unsupported option"}
	}

	sorted := make([]*compiledSpec, len(r.specs))
	copy(sorted, r.specs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	attrs := make(map[string]cty.Value, len(sorted))
	for _, spec := range sorted {
		v, ok := given[spec.Name]
		if !ok || v.IsNull() {
			if spec.Required {
				return Options{}, &OptionError{Module: typeName, Option: spec.Name, Reason: "required option is missing"}
			}
			attrs[spec.Name] = spec.Default
			continue
		}

		converted, err := convert.Convert(v, spec.ty)
		if err != nil {
			return Options{}, &OptionError{Module: typeName, Option: spec.Name, Reason: fmt.Sprintf("invalid value: %s", err)}
		}
		attrs[spec.Name] = converted
	}

	if len(attrs) == 0 {
		return Options{val: cty.EmptyObjectVal}, nil
	}
	return Options{val: cty.ObjectVal(attrs)}, nil
}
