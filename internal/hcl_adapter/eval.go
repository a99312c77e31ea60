package hcl_adapter

import (
	"context"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/nucleos/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// functions are callable from any expression in a configuration file.
var functions = map[string]function.Function{
	"coalesce":  stdlib.CoalesceFunc,
	"concat":    stdlib.ConcatFunc,
	"format":    stdlib.FormatFunc,
	"join":      stdlib.JoinFunc,
	"length":    stdlib.LengthFunc,
	"lower":     stdlib.LowerFunc,
	"merge":     stdlib.MergeFunc,
	"replace":   stdlib.ReplaceFunc,
	"split":     stdlib.SplitFunc,
	"trimspace": stdlib.TrimSpaceFunc,
	"upper":     stdlib.UpperFunc,
}

// newEvalContext builds the root evaluation context with `env` populated from
// environ and `local` initially empty.
func newEvalContext(environ []string) *hcl.EvalContext {
	env := make(map[string]cty.Value, len(environ))
	for _, e := range environ {
		pair := strings.SplitN(e, "=", 2)
		if len(pair) == 2 && pair[0] != "" {
			env[pair[0]] = cty.StringVal(pair[1])
		}
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env":   cty.ObjectVal(env),
			"local": cty.EmptyObjectVal,
		},
		Functions: functions,
	}
}

// evalLocals evaluates every `locals` attribute in source order and publishes
// the results as `local.NAME`. A local may refer to locals declared before it.
func evalLocals(ctx context.Context, evalCtx *hcl.EvalContext, contents []*hcl.BodyContent) hcl.Diagnostics {
	logger := ctxlog.FromContext(ctx)

	var diags hcl.Diagnostics
	locals := map[string]cty.Value{}
	declared := map[string]hcl.Range{}

	for _, content := range contents {
		for _, block := range content.Blocks.OfType("locals") {
			attrs, attrDiags := block.Body.JustAttributes()
			diags = append(diags, attrDiags...)

			ordered := make([]*hcl.Attribute, 0, len(attrs))
			for _, attr := range attrs {
				ordered = append(ordered, attr)
			}
			sort.Slice(ordered, func(i, j int) bool {
				return ordered[i].Range.Start.Byte < ordered[j].Range.Start.Byte
			})

			for _, attr := range ordered {
				if prev, dup := declared[attr.Name]; dup {
					diags = append(diags, &hcl.Diagnostic{
						Severity: hcl.DiagError,
						Summary:  "Duplicate local value",
						Detail:   "Local \"" + attr.Name + "\" was already defined at " + prev.String() + ".",
						Subject:  attr.NameRange.Ptr(),
					})
					continue
				}

				val, valDiags := attr.Expr.Value(evalCtx)
				diags = append(diags, valDiags...)
				if valDiags.HasErrors() {
					continue
				}

				declared[attr.Name] = attr.Range
				locals[attr.Name] = val
				evalCtx.Variables["local"] = cty.ObjectVal(locals)
				logger.Debug("Local value evaluated.", "name", attr.Name)
			}
		}
	}
	return diags
}
