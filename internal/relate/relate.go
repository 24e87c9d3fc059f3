package relate

import (
	"errors"
	"fmt"

	"ferrite/internal/regions"
	"ferrite/internal/tys"
)

// ErrMismatch is returned when two types have incompatible shapes. No
// constraints are emitted for the mismatched subterm.
var ErrMismatch = errors.New("type shape mismatch")

// Delegate receives the relator's only externally visible output: outlives
// constraints, plus requests for fresh region variables and universes.
type Delegate interface {
	// PushOutlives records that sup must outlive sub.
	PushOutlives(sup, sub regions.Vid)
	// NextExistential mints an inference variable.
	NextExistential() regions.Vid
	// NextPlaceholder mints a placeholder in universe u.
	NextPlaceholder(u regions.Universe) regions.Vid
	// NextUniverse creates a fresh universe.
	NextUniverse() regions.Universe
}

// boundScope maps one binder level's bound-region indices to the region
// variables instantiated for them.
type boundScope struct {
	vars []regions.Vid
}

// Relator structurally compares two types in lock step under an ambient
// variance, emitting outlives constraints at every region pair. It retains
// no unification state beyond the constraints it pushes and its canonical
// memo cells, which live for one relation pass.
type Relator struct {
	in *tys.Interner
	d  Delegate

	aScopes []boundScope
	bScopes []boundScope

	canon map[uint32]tys.TypeID
}

func New(in *tys.Interner, d Delegate) *Relator {
	return &Relator{
		in:    in,
		d:     d,
		canon: make(map[uint32]tys.TypeID),
	}
}

// Relate compares a against b under variance v. Under covariance the
// relation checked is a <: b.
func (r *Relator) Relate(a, b tys.TypeID, v tys.Variance) error {
	aDepth, bDepth := len(r.aScopes), len(r.bScopes)
	err := r.relate(a, b, v)
	if len(r.aScopes) != aDepth || len(r.bScopes) != bDepth {
		panic(fmt.Errorf("relate: scope stack imbalance (a %d->%d, b %d->%d)",
			aDepth, len(r.aScopes), bDepth, len(r.bScopes)))
	}
	return err
}

func (r *Relator) relate(a, b tys.TypeID, v tys.Variance) error {
	ta := r.in.Get(a)
	if ta.Kind == tys.KindCanonical {
		return r.relateCanonical(ta.Var, b, v)
	}
	tb := r.in.Get(b)
	if ta.Kind != tb.Kind {
		return fmt.Errorf("%w: %d vs %d", ErrMismatch, ta.Kind, tb.Kind)
	}
	switch ta.Kind {
	case tys.KindUnit, tys.KindBool, tys.KindInt, tys.KindStr:
		return nil
	case tys.KindRef:
		if ta.Mut != tb.Mut {
			return fmt.Errorf("%w: mutability", ErrMismatch)
		}
		r.relateRegions(ta.Region, tb.Region, v)
		inner := v
		if ta.Mut {
			inner = tys.Xform(v, tys.Invariant)
		}
		return r.relate(ta.Elem, tb.Elem, inner)
	case tys.KindTuple:
		if len(ta.Elems) != len(tb.Elems) {
			return fmt.Errorf("%w: tuple arity %d vs %d", ErrMismatch, len(ta.Elems), len(tb.Elems))
		}
		for i := range ta.Elems {
			if err := r.relate(ta.Elems[i], tb.Elems[i], v); err != nil {
				return err
			}
		}
		return nil
	case tys.KindAdt:
		return r.relateAdt(ta, tb, v)
	case tys.KindFn:
		return r.relateFn(ta, tb, v)
	}
	return fmt.Errorf("%w: cannot relate kind %d", ErrMismatch, ta.Kind)
}

func (r *Relator) relateAdt(ta, tb *tys.Type, v tys.Variance) error {
	if ta.Adt != tb.Adt {
		return fmt.Errorf("%w: distinct nominal types %d vs %d", ErrMismatch, ta.Adt, tb.Adt)
	}
	info := r.in.Adt(ta.Adt)
	if info == nil || len(ta.Regions) != len(tb.Regions) || len(ta.Elems) != len(tb.Elems) {
		return fmt.Errorf("%w: malformed application of adt %d", ErrMismatch, ta.Adt)
	}
	for i := range ta.Regions {
		r.relateRegions(ta.Regions[i], tb.Regions[i], tys.Xform(v, info.RegionVariances[i]))
	}
	for i := range ta.Elems {
		if err := r.relate(ta.Elems[i], tb.Elems[i], tys.Xform(v, info.ArgVariances[i])); err != nil {
			return err
		}
	}
	return nil
}

// relateFn compares two function types. Each signature is compared under its
// binder: for the covariant obligation b's bound regions are instantiated
// universally (placeholders in a fresh universe) and a's existentially;
// contravariance needs the mirrored pass; invariance needs both.
func (r *Relator) relateFn(ta, tb *tys.Type, v tys.Variance) error {
	if len(ta.Elems) != len(tb.Elems) {
		return fmt.Errorf("%w: fn arity %d vs %d", ErrMismatch, len(ta.Elems), len(tb.Elems))
	}
	if v == tys.Covariant || v == tys.Invariant {
		if err := r.relateSignatures(ta, tb, v, true); err != nil {
			return err
		}
	}
	if v == tys.Contravariant || v == tys.Invariant {
		if err := r.relateSignatures(ta, tb, v, false); err != nil {
			return err
		}
	}
	return nil
}

// relateSignatures runs one binder pass. bUniversal selects which side is
// instantiated universally; the universal side's scope is created first so
// its placeholders live in a universe the other side's existentials cannot
// name.
func (r *Relator) relateSignatures(ta, tb *tys.Type, v tys.Variance, bUniversal bool) error {
	var aScope, bScope boundScope
	if bUniversal {
		bScope = r.universalScope(tb.Binders)
		aScope = r.existentialScope(ta.Binders)
	} else {
		aScope = r.universalScope(ta.Binders)
		bScope = r.existentialScope(tb.Binders)
	}
	r.aScopes = append(r.aScopes, aScope)
	r.bScopes = append(r.bScopes, bScope)
	defer func() {
		r.aScopes = r.aScopes[:len(r.aScopes)-1]
		r.bScopes = r.bScopes[:len(r.bScopes)-1]
	}()

	for i := range ta.Elems {
		if err := r.relate(ta.Elems[i], tb.Elems[i], tys.Xform(v, tys.Contravariant)); err != nil {
			return err
		}
	}
	return r.relate(ta.Ret, tb.Ret, tys.Xform(v, tys.Covariant))
}

func (r *Relator) universalScope(n uint32) boundScope {
	if n == 0 {
		return boundScope{}
	}
	u := r.d.NextUniverse()
	vars := make([]regions.Vid, n)
	for i := range vars {
		vars[i] = r.d.NextPlaceholder(u)
	}
	return boundScope{vars: vars}
}

func (r *Relator) existentialScope(n uint32) boundScope {
	vars := make([]regions.Vid, n)
	for i := range vars {
		vars[i] = r.d.NextExistential()
	}
	return boundScope{vars: vars}
}

// relateRegions resolves both occurrences and emits constraints per the
// ambient variance: under covariance region(b) outlives region(a), under
// contravariance the reverse, under invariance both.
func (r *Relator) relateRegions(ra, rb regions.Region, v tys.Variance) {
	va := resolveRegion(ra, r.aScopes)
	vb := resolveRegion(rb, r.bScopes)
	switch v {
	case tys.Covariant:
		r.d.PushOutlives(vb, va)
	case tys.Contravariant:
		r.d.PushOutlives(va, vb)
	case tys.Invariant:
		r.d.PushOutlives(vb, va)
		r.d.PushOutlives(va, vb)
	case tys.Bivariant:
	}
}

func resolveRegion(reg regions.Region, scopes []boundScope) regions.Vid {
	switch reg.Kind {
	case regions.RegionVar:
		return reg.Vid
	case regions.RegionStatic:
		return regions.StaticVid
	case regions.RegionBound:
		depth := int(reg.Depth)
		if depth >= len(scopes) {
			panic(fmt.Errorf("relate: bound region depth %d escapes %d scopes", reg.Depth, len(scopes)))
		}
		sc := scopes[len(scopes)-1-depth]
		if int(reg.Index) >= len(sc.vars) {
			panic(fmt.Errorf("relate: bound region index %d out of scope (%d vars)", reg.Index, len(sc.vars)))
		}
		return sc.vars[reg.Index]
	}
	panic(fmt.Errorf("relate: unresolvable region kind %d", reg.Kind))
}

// relateCanonical handles an unresolved canonical placeholder on the left:
// first sight captures the right-hand value (with bound regions closed into
// context-free variables), later sights re-relate the captured value
// against the new right-hand side.
func (r *Relator) relateCanonical(cv uint32, b tys.TypeID, v tys.Variance) error {
	closed := r.closeBoundRegions(b)
	if prev, ok := r.canon[cv]; ok {
		return r.relate(prev, closed, v)
	}
	r.canon[cv] = closed
	return nil
}

// closeBoundRegions substitutes bound-region references that resolve through
// the current b-side scopes with the variables instantiated for them, so
// the captured value stays meaningful outside the binder.
func (r *Relator) closeBoundRegions(t tys.TypeID) tys.TypeID {
	return r.in.ReplaceRegions(t, func(reg regions.Region, depth uint32) regions.Region {
		if reg.Kind != regions.RegionBound || reg.Depth < depth {
			return reg
		}
		rel := int(reg.Depth - depth)
		if rel >= len(r.bScopes) {
			panic(fmt.Errorf("relate: bound region depth %d escapes %d scopes", reg.Depth, len(r.bScopes)))
		}
		sc := r.bScopes[len(r.bScopes)-1-rel]
		if int(reg.Index) >= len(sc.vars) {
			panic(fmt.Errorf("relate: bound region index %d out of scope (%d vars)", reg.Index, len(sc.vars)))
		}
		return regions.Var(sc.vars[reg.Index])
	})
}
