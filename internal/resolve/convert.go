package resolve

import (
	"codeberg.org/saruga/gulc/internal/ast"
	"codeberg.org/saruga/gulc/internal/builtins"
)

// ConvKind classifies one implicit conversion step, mirroring the
// "lvalue-to-rvalue, unqualified-reference shedding, numeric
// widening/narrowing, struct-upcast" list of spec.md §4.6's
// compareArgsToParams definition.
type ConvKind uint8

const (
	ConvNone ConvKind = iota
	ConvLValueToRValue
	ConvReferenceShed
	ConvNumericWiden
	ConvNumericNarrow
	ConvFloatToFloat
	ConvIntToFloat
	ConvStructUpcast
)

// Conversion describes one implicit conversion from From to To.
type Conversion struct {
	Kind ConvKind
	// Distance is the number of ranks/hops crossed. Overload selection
	// (internal/overload.Select) does not read it.
	Distance int
}

// ImplicitConversion reports whether from can be implicitly converted to to
// and, if so, how (spec.md §4.6's Castable category). Returns ok=false when
// no implicit path exists.
func ImplicitConversion(from, to ast.Type, reg *builtins.Registry) (Conversion, bool) {
	if ast.Same(from, to) {
		return Conversion{Kind: ConvNone}, true
	}

	if ref, ok := from.(*ast.ReferenceType); ok && ref.Qual() != ast.Mut {
		if inner, ok := ImplicitConversion(ref.Inner, to, reg); ok {
			inner.Kind = ConvReferenceShed
			return inner, true
		}
		if ast.Same(ref.Inner, to) {
			return Conversion{Kind: ConvReferenceShed}, true
		}
	}

	fb, fromIsBuiltin := from.(*ast.BuiltInType)
	tb, toIsBuiltin := to.(*ast.BuiltInType)
	if fromIsBuiltin && toIsBuiltin {
		return convertNumeric(fb, tb)
	}

	if ast.Subtype(from, to) {
		d := ast.InheritanceDistance(from, to)
		if d >= 0 {
			return Conversion{Kind: ConvStructUpcast, Distance: d}, true
		}
	}

	return Conversion{}, false
}

// convertNumeric implements the implicit-conversion table pinned down by
// SPEC_FULL.md's Open Question #1 resolution: same-signedness widening is
// Castable at distance 1 per rank step; signed<->unsigned of equal width is
// Castable at a flat distance 2; narrowing in any direction (including a
// signed<->unsigned change that also narrows) is never implicit; int->float
// widening is Castable at a flat distance 3; float->int is never implicit.
func convertNumeric(from, to *ast.BuiltInType) (Conversion, bool) {
	if from.IsVoid || to.IsVoid {
		return Conversion{}, false
	}
	switch {
	case !from.Floating && !to.Floating:
		fr, fok := builtins.IntegralRank[from.Name]
		tr, tok := builtins.IntegralRank[to.Name]
		if !fok || !tok {
			return Conversion{}, false
		}
		if from.Signed == to.Signed {
			if tr < fr {
				return Conversion{}, false
			}
			return Conversion{Kind: ConvNumericWiden, Distance: tr - fr}, true
		}
		if tr == fr {
			return Conversion{Kind: ConvNumericWiden, Distance: 2}, true
		}
		return Conversion{}, false
	case from.Floating && to.Floating:
		fr, fok := builtins.FloatRank[from.Name]
		tr, tok := builtins.FloatRank[to.Name]
		if !fok || !tok || tr < fr {
			return Conversion{}, false
		}
		return Conversion{Kind: ConvFloatToFloat, Distance: tr - fr}, true
	case !from.Floating && to.Floating:
		return Conversion{Kind: ConvIntToFloat, Distance: 3}, true
	default:
		// float -> int is never implicit; requires an explicit `as` cast.
		return Conversion{}, false
	}
}
