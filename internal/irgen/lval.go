package irgen

import (
	"sysyc/internal/ast"
	"sysyc/internal/diag"
	"sysyc/internal/sema"
	"sysyc/internal/lir"
	lirtypes "sysyc/internal/lir/types"
	"sysyc/internal/symtab"
	"sysyc/internal/types"
)

// lvalKind tags the addressing mode an LVal resolved to.
type lvalKind int

const (
	lvScalar lvalKind = iota // a loadable/storable scalar cell
	lvPointer                // a partially-indexed array: not a value, only usable as a further index base or a decayed call argument
	lvVecElem                // one lane of a vector: read/write through load-vector + extract/insert + store-vector
	lvVector                 // an entire vector, read/write as a whole (spec.md §4.4's "v = v + 10")
)

// lvalAddr is the resolved address of an ast.LVal.
type lvalAddr struct {
	Kind lvalKind

	Ptr    lir.Value // the cell address (lvScalar, lvPointer) or the vector's own cell (lvVecElem)
	ElemDT lirtypes.DataType

	Index lir.Value // set for lvVecElem: the lane index

	Class    types.Type // the classification of this lvalue as a value
	Binding  *symtab.Binding
	Consumed int // number of explicit indices already applied, for lvPointer
}

// lowerLVal resolves lv to its address, per spec.md §4.6: a vector name
// takes exactly one index and addresses a lane; an array name takes up
// to its declared rank of indices, addressing a scalar once fully
// indexed or a sub-array (a pointer, not a value) otherwise; a bare
// scalar name addresses its own cell.
func (e *Emitter) lowerLVal(lv *ast.LVal) (*lvalAddr, error) {
	b := e.tab.Lookup(lv.Name)
	if b == nil {
		return nil, diag.New(lv.LineNo, diag.Resolution, "undefined name %q", lv.Name)
	}

	if b.Type.IsVector() {
		if len(lv.Indices) == 0 {
			return &lvalAddr{Kind: lvVector, Ptr: b.Value, Class: b.Type, Binding: b}, nil
		}
		if len(lv.Indices) != 1 {
			return nil, diag.New(lv.LineNo, diag.Shape, "vector %q takes exactly one index, got %d", lv.Name, len(lv.Indices))
		}
		idx, idxType, err := e.lowerExpr(lv.Indices[0], sema.Value)
		if err != nil {
			return nil, err
		}
		if idxType.Kind != types.IntK {
			return nil, diag.New(lv.Indices[0].Line(), diag.TypeErr, "vector index must be int, got %s", idxType)
		}
		ct := types.Int()
		if b.ElemKind == types.FloatK {
			ct = types.Float()
		}
		return &lvalAddr{Kind: lvVecElem, Ptr: b.Value, Index: idx, Class: ct, Binding: b}, nil
	}

	if !b.IsArray {
		if len(lv.Indices) != 0 {
			return nil, diag.New(lv.LineNo, diag.Shape, "%q is not an array", lv.Name)
		}
		return &lvalAddr{Kind: lvScalar, Ptr: b.Value, ElemDT: scalarLIR(b.ElemKind), Class: b.Type, Binding: b}, nil
	}

	if len(lv.Indices) > b.Rank {
		return nil, diag.New(lv.LineNo, diag.Shape, "too many indices for %q: indexed to depth %d, only %d available", lv.Name, len(lv.Indices), b.Rank)
	}

	idxVals := make([]lir.Value, len(lv.Indices))
	for i, ie := range lv.Indices {
		v, t, err := e.lowerExpr(ie, sema.Value)
		if err != nil {
			return nil, err
		}
		if t.Kind != types.IntK {
			return nil, diag.New(ie.Line(), diag.TypeErr, "array index must be int, got %s", t)
		}
		idxVals[i] = v
	}

	scalarDT := scalarLIR(b.ElemKind)
	if len(idxVals) == 0 {
		// Bare array name: not addressable as a value in any ordinary
		// expression context (only the call-argument path decays it).
		return &lvalAddr{Kind: lvPointer, Ptr: b.Value, ElemDT: buildArrayType(scalarDT, b.ArrayDims), Class: types.Pointer(b.ElemKind), Binding: b}, nil
	}

	gepIdx := idxVals
	consumed := len(idxVals)
	if !b.Decayed {
		gepIdx = append([]lir.Value{lir.CreateConstantInt(0)}, idxVals...)
	} else {
		// The first index steps over the dimension the decay dropped.
		consumed--
	}
	resultDT := subElemDT(scalarDT, b.ArrayDims, consumed)
	ptr := e.block.CreateGEP(b.Value, gepIdx, resultDT)

	if len(idxVals) == b.Rank {
		return &lvalAddr{Kind: lvScalar, Ptr: ptr, ElemDT: resultDT, Class: elemClass(b.ElemKind), Binding: b}, nil
	}
	return &lvalAddr{Kind: lvPointer, Ptr: ptr, ElemDT: resultDT, Class: types.Pointer(b.ElemKind), Binding: b, Consumed: len(idxVals)}, nil
}

func elemClass(k types.Kind) types.Type {
	if k == types.FloatK {
		return types.Float()
	}
	return types.Int()
}

// loadLVal reads addr's value. lvPointer signals a partially-indexed
// array used where a scalar value was required; lowerExpr rejects that
// case before calling here, so it is never passed in.
func (e *Emitter) loadLVal(addr *lvalAddr) lir.Value {
	switch addr.Kind {
	case lvScalar, lvVector:
		return e.block.CreateLoad(addr.Ptr)
	case lvVecElem:
		vec := e.block.CreateLoad(addr.Ptr)
		return e.block.CreateVecExtract(vec, addr.Index)
	default:
		panic("irgen.loadLVal: not a loadable address")
	}
}

// storeLVal writes val into addr.
func (e *Emitter) storeLVal(addr *lvalAddr, val lir.Value) {
	switch addr.Kind {
	case lvScalar, lvVector:
		e.block.CreateStore(val, addr.Ptr)
	case lvVecElem:
		vec := e.block.CreateLoad(addr.Ptr)
		ins := e.block.CreateVecInsert(vec, val, addr.Index)
		e.block.CreateStore(ins, addr.Ptr)
	default:
		panic("irgen.storeLVal: not a storable address")
	}
}

// decayArrayArg produces the pointer value passed when a bare array name
// (lv has no indices, or fewer indices than the binding's rank) is used
// as a call argument for an array-typed parameter: a true array decays
// by one level (address of its first element); an already-decayed
// parameter forwards its pointer unchanged; a partially-indexed array is
// already the right pointer.
func (e *Emitter) decayArrayArg(addr *lvalAddr) lir.Value {
	if addr.Kind != lvPointer || addr.Consumed != 0 {
		return addr.Ptr
	}
	b := addr.Binding
	if b == nil || b.Decayed || len(b.ArrayDims) == 0 {
		return addr.Ptr
	}
	// addr.Ptr is the whole-array binding itself (no indices consumed
	// yet): decay it by one level.
	scalarDT := scalarLIR(b.ElemKind)
	resultDT := subElemDT(scalarDT, b.ArrayDims, 1)
	return e.block.CreateGEP(b.Value, []lir.Value{lir.CreateConstantInt(0), lir.CreateConstantInt(0)}, resultDT)
}
