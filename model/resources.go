package model

// Resources is a typed view over a page or XObject's /Resources dictionary
// (7.8.3): named sub-dictionaries of fonts, external objects, color spaces,
// patterns, shadings and graphics states, plus the /ProcSet compatibility
// array. Entries are resolved lazily through the Resolver so a Resources
// value stays cheap to construct while walking a page tree.
type Resources struct {
	r Resolver
	d Dict
}

// NewResources wraps a resolved /Resources dictionary.
func NewResources(r Resolver, d Dict) Resources { return Resources{r: r, d: d} }

func (res Resources) subdict(key Name) (Dict, bool, error) {
	v, ok := res.d.Get(key)
	if !ok {
		return Dict{}, false, nil
	}
	return DictAt(res.r, v)
}

// Font returns the /Font subdictionary, mapping resource names to font
// dictionary references.
func (res Resources) Font() (Dict, error) {
	d, _, err := res.subdict("Font")
	return d, err
}

// FontByName resolves a single entry of /Font, dereferencing to the font
// dictionary itself.
func (res Resources) FontByName(name Name) (Dict, bool, error) {
	fonts, _, err := res.subdict("Font")
	if err != nil {
		return Dict{}, false, err
	}
	entry, ok := fonts.Get(name)
	if !ok {
		return Dict{}, false, nil
	}
	return DictAt(res.r, entry)
}

// XObject returns the /XObject subdictionary (form and image XObjects).
func (res Resources) XObject() (Dict, error) {
	d, _, err := res.subdict("XObject")
	return d, err
}

// XObjectByName resolves a single /XObject entry to its Stream.
func (res Resources) XObjectByName(name Name) (Stream, bool, error) {
	xobjs, _, err := res.subdict("XObject")
	if err != nil {
		return Stream{}, false, err
	}
	entry, ok := xobjs.Get(name)
	if !ok {
		return Stream{}, false, nil
	}
	v, err := Deref(res.r, entry)
	if err != nil {
		return Stream{}, false, err
	}
	s, ok := v.(Stream)
	return s, ok, nil
}

// ColorSpace returns the /ColorSpace subdictionary.
func (res Resources) ColorSpace() (Dict, error) {
	d, _, err := res.subdict("ColorSpace")
	return d, err
}

// Pattern returns the /Pattern subdictionary.
func (res Resources) Pattern() (Dict, error) {
	d, _, err := res.subdict("Pattern")
	return d, err
}

// ExtGState returns the /ExtGState subdictionary (graphics-state parameter
// dictionaries referenced by the gs operator).
func (res Resources) ExtGState() (Dict, error) {
	d, _, err := res.subdict("ExtGState")
	return d, err
}

// Shading returns the /Shading subdictionary.
func (res Resources) Shading() (Dict, error) {
	d, _, err := res.subdict("Shading")
	return d, err
}

// ProcSet returns the compatibility /ProcSet array, if present. Readers may
// ignore it; it is preserved only for round-trip fidelity.
func (res Resources) ProcSet() (Array, error) {
	v, ok := res.d.Get("ProcSet")
	if !ok {
		return nil, nil
	}
	a, _, err := ArrayAt(res.r, v)
	return a, err
}
