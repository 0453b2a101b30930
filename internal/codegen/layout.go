package codegen

import "codeberg.org/saruga/gulc/internal/ast"

// FieldInfo describes one struct member's placement within its owner's
// memory layout.
type FieldInfo struct {
	Name      string
	Decl      *ast.VariableDecl
	Offset    int
	Size      int
	Alignment int
}

// StructLayout is the computed memory layout of one StructDecl: the base
// (if any) at offset 0, explicit members in declaration order, and tail
// padding to the struct's own alignment.
type StructLayout struct {
	Decl       *ast.StructDecl
	BaseLayout *StructLayout
	HasVTable  bool
	Fields     []FieldInfo
	Size       int
	Alignment  int
}

// LayoutComputer computes struct/type layouts for one compilation's target
// descriptor (currently just pointer size; spec.md §6's TargetDescriptor
// carries more, but only pointer size feeds layout).
//
// Uses a placeholder-before-recursing cache discipline and a "walk
// members, track running offset and max alignment, round up at the end"
// shape, following this language's C-struct-like base/member/padding rules.
type LayoutComputer struct {
	ptrSize int
	cache   map[*ast.StructDecl]*StructLayout
}

// NewLayoutComputer creates a layout computer for the given pointer size
// (bytes).
func NewLayoutComputer(ptrSize int) *LayoutComputer {
	return &LayoutComputer{ptrSize: ptrSize, cache: make(map[*ast.StructDecl]*StructLayout)}
}

func roundUp(n, align int) int {
	if align <= 1 {
		return n
	}
	return (n + align - 1) / align * align
}

// ComputeTypeLayout returns the (size, alignment) of any resolved Type.
func (lc *LayoutComputer) ComputeTypeLayout(t ast.Type) (size, align int) {
	switch typ := t.(type) {
	case nil:
		return 0, 1
	case *ast.BuiltInType:
		if typ.IsVoid {
			return 0, 1
		}
		return typ.SizeBytes, typ.SizeBytes
	case *ast.BoolType:
		return 1, 1
	case *ast.PointerType:
		return lc.ptrSize, lc.ptrSize
	case *ast.ReferenceType:
		return lc.ptrSize, lc.ptrSize
	case *ast.FunctionPointerType:
		return lc.ptrSize, lc.ptrSize
	case *ast.StructType:
		sl := lc.ComputeStructLayout(typ.Decl)
		return sl.Size, sl.Alignment
	case *ast.EnumType:
		if typ.Decl != nil && typ.Decl.UnderlyingType != nil {
			return lc.ComputeTypeLayout(typ.Decl.UnderlyingType)
		}
		return 4, 4
	case *ast.FlatArrayType:
		elemSize, elemAlign := lc.ComputeTypeLayout(typ.Element)
		n := lc.evaluateConstLength(typ.LengthExpr)
		if n < 0 {
			n = 0
		}
		stride := roundUp(elemSize, elemAlign)
		return n * stride, elemAlign
	case *ast.DimensionType:
		// Rank is fixed at declaration but bounds aren't; only the element
		// shape has a known layout, so report the element's alignment and
		// treat the overall object as unsized (it's always held by
		// reference at runtime).
		_, elemAlign := lc.ComputeTypeLayout(typ.Inner)
		return 0, elemAlign
	default:
		return 0, 1
	}
}

func (lc *LayoutComputer) evaluateConstLength(e ast.Expr) int {
	switch v := e.(type) {
	case nil:
		return -1
	case *ast.LiteralExpr:
		if v.Kind != ast.LitInt {
			return -1
		}
		n := 0
		for _, c := range v.Text {
			if c < '0' || c > '9' {
				return -1
			}
			n = n*10 + int(c-'0')
		}
		return n
	case *ast.SolvedConstExpr:
		return lc.evaluateConstLength(v.Value)
	default:
		return -1
	}
}

// declaresVirtualDispatch reports whether decl itself introduces a virtual
// member (a virtual/override function, or a virtual destructor); it does
// not look at any base, since BuildVTable/ComputeStructLayout already
// propagate an inherited vtable down from the base independently.
func declaresVirtualDispatch(decl *ast.StructDecl) bool {
	for _, m := range decl.Members {
		switch md := m.(type) {
		case *ast.FunctionDecl:
			if md.Modifiers.Has(ast.ModVirtual) || md.Modifiers.Has(ast.ModOverride) {
				return true
			}
		case *ast.DestructorDecl:
			if md.Modifiers.Has(ast.ModVirtual) {
				return true
			}
		}
	}
	return false
}

func baseStructDecl(decl *ast.StructDecl) *ast.StructDecl {
	for _, inh := range decl.Inherits {
		if st, ok := inh.(*ast.StructType); ok {
			return st.Decl
		}
	}
	return nil
}

// ComputeStructLayout computes (and caches) decl's full, tail-padded
// layout: the base class's unpadded layout at offset 0, an own vtable
// pointer if decl introduces virtual dispatch and its base didn't already
// carry one, then explicit members in declaration order, then padding up
// to the struct's own alignment.
func (lc *LayoutComputer) ComputeStructLayout(decl *ast.StructDecl) *StructLayout {
	if decl == nil {
		return &StructLayout{}
	}
	if cached, ok := lc.cache[decl]; ok {
		return cached
	}

	layout := &StructLayout{Decl: decl}
	lc.cache[decl] = layout // placeholder before recursing: guards self-referential pointer members

	offset := 0
	maxAlign := 1

	if base := baseStructDecl(decl); base != nil {
		baseLayout := lc.ComputeEmbeddedLayout(base)
		layout.BaseLayout = baseLayout
		layout.HasVTable = baseLayout.HasVTable
		offset = baseLayout.Size
		if baseLayout.Alignment > maxAlign {
			maxAlign = baseLayout.Alignment
		}
	}

	if !layout.HasVTable && declaresVirtualDispatch(decl) {
		layout.HasVTable = true
		offset = roundUp(offset, lc.ptrSize)
		offset += lc.ptrSize
		if lc.ptrSize > maxAlign {
			maxAlign = lc.ptrSize
		}
	}

	for _, m := range decl.Members {
		vd, ok := m.(*ast.VariableDecl)
		if !ok {
			continue
		}
		size, align := lc.ComputeTypeLayout(vd.Type)
		if align <= 0 {
			align = 1
		}
		offset = roundUp(offset, align)
		layout.Fields = append(layout.Fields, FieldInfo{
			Name: vd.Name.Name, Decl: vd, Offset: offset, Size: size, Alignment: align,
		})
		offset += size
		if align > maxAlign {
			maxAlign = align
		}
	}

	layout.Alignment = maxAlign
	layout.Size = roundUp(offset, maxAlign)
	*lc.cache[decl] = *layout
	return lc.cache[decl]
}

// ComputeEmbeddedLayout computes the unpadded variant of decl's layout used
// when decl serves as another struct's base: the derived struct's own
// members pack immediately after the base's last field rather than after
// the base's own tail padding (spec.md §4.8's "separate unpadded-layout
// variant for embedded-base use").
func (lc *LayoutComputer) ComputeEmbeddedLayout(decl *ast.StructDecl) *StructLayout {
	full := lc.ComputeStructLayout(decl)
	unpadded := *full
	switch {
	case len(full.Fields) > 0:
		last := full.Fields[len(full.Fields)-1]
		unpadded.Size = last.Offset + last.Size
	case full.HasVTable:
		unpadded.Size = lc.ptrSize
	default:
		unpadded.Size = 0
	}
	return &unpadded
}
