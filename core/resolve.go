package core

import "fmt"

// Resolver dereferences indirect references. Direct objects are returned
// unchanged.
type Resolver interface {
	Resolve(obj Object) (Object, error)
}

// ObjectTable is an in-memory Resolver keyed by object number. It backs
// synthetic documents in tests and resolves nothing else.
type ObjectTable map[int]Object

// Resolve implements Resolver.
func (t ObjectTable) Resolve(obj Object) (Object, error) {
	ref, ok := obj.(IndirectRef)
	if !ok {
		return obj, nil
	}
	o, ok := t[ref.Number]
	if !ok {
		return Null{}, nil
	}
	return o, nil
}

// maxRefChain bounds reference-to-reference chains.
const maxRefChain = 32

// ResolveFully follows references until a direct object is reached.
func ResolveFully(r Resolver, obj Object) (Object, error) {
	for i := 0; i < maxRefChain; i++ {
		if _, ok := obj.(IndirectRef); !ok {
			return obj, nil
		}
		var err error
		obj, err = r.Resolve(obj)
		if err != nil {
			return nil, err
		}
	}
	return nil, fmt.Errorf("reference chain longer than %d", maxRefChain)
}

// ResolveDict resolves obj and reports whether it is a dictionary. A stream
// yields its dictionary.
func ResolveDict(r Resolver, obj Object) (Dict, bool) {
	o, err := ResolveFully(r, obj)
	if err != nil {
		return nil, false
	}
	switch v := o.(type) {
	case Dict:
		return v, true
	case *Stream:
		return v.Dict, true
	}
	return nil, false
}

// ResolveArray resolves obj and reports whether it is an array.
func ResolveArray(r Resolver, obj Object) (Array, bool) {
	o, err := ResolveFully(r, obj)
	if err != nil {
		return nil, false
	}
	a, ok := o.(Array)
	return a, ok
}

// ResolveStream resolves obj and reports whether it is a stream.
func ResolveStream(r Resolver, obj Object) (*Stream, bool) {
	o, err := ResolveFully(r, obj)
	if err != nil {
		return nil, false
	}
	s, ok := o.(*Stream)
	return s, ok
}

// ResolveName resolves obj and reports whether it is a name.
func ResolveName(r Resolver, obj Object) (Name, bool) {
	o, err := ResolveFully(r, obj)
	if err != nil {
		return "", false
	}
	n, ok := o.(Name)
	return n, ok
}

// ResolveNumber resolves obj and reports whether it is numeric.
func ResolveNumber(r Resolver, obj Object) (float64, bool) {
	o, err := ResolveFully(r, obj)
	if err != nil {
		return 0, false
	}
	return Number(o)
}
