package model

import "fmt"

// pageTreeMaxDepth bounds recursive descent into /Kids, mirroring the
// object parser's default recursion ceiling, so a maliciously deep page
// tree fails fast instead of blowing the stack.
const pageTreeMaxDepth = 1000

// Rectangle is a PDF rectangle array [llx lly urx ury], used for
// /MediaBox and /CropBox.
type Rectangle struct{ LLx, LLy, URx, URy float64 }

// Width and Height are normalized (always non-negative): the two corners
// are not required to be given in lower-left/upper-right order.
func (r Rectangle) Width() float64  { return absF(r.URx - r.LLx) }
func (r Rectangle) Height() float64 { return absF(r.URy - r.LLy) }

func absF(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

// ArrayToRectangle reads a Rectangle out of a resolved 4-element Array.
func ArrayToRectangle(r Resolver, a Array) (Rectangle, error) {
	if len(a) != 4 {
		return Rectangle{}, fmt.Errorf("rectangle: expected 4 elements, got %d", len(a))
	}
	var f [4]float64
	for i, o := range a {
		v, err := Deref(r, o)
		if err != nil {
			return Rectangle{}, err
		}
		switch n := v.(type) {
		case Integer:
			f[i] = float64(n)
		case Real:
			f[i] = float64(n)
		default:
			return Rectangle{}, fmt.Errorf("rectangle: element %d is %T, not a number", i, v)
		}
	}
	return Rectangle{LLx: f[0], LLy: f[1], URx: f[2], URy: f[3]}, nil
}

// Page is a leaf /Page node with its inherited attributes already resolved:
// a page's effective /Resources, /MediaBox, /CropBox and /Rotate come from
// the nearest node that declares them (7.7.3.4), resolved on access.
type Page struct {
	Self      Ref // the leaf's own object reference
	Parent    Ref // weak back-reference: present for annotation GoTo targets etc, never walked by enumerators
	MediaBox  Rectangle
	CropBox   *Rectangle
	Rotate    int // normalized into {0, 90, 180, 270}
	Resources Dict
	Contents  []Ref
	Annots    Array
}

// inherited carries the page attributes that propagate down the tree
// unless overridden at a node (7.7.3.4, Table 29: Resources, MediaBox,
// CropBox, Rotate).
type inherited struct {
	resources Dict
	mediaBox  *Rectangle
	cropBox   *Rectangle
	rotate    int
	hasRes    bool
}

func (in inherited) withNode(r Resolver, d Dict) (inherited, error) {
	out := in
	if v, ok := d.Get("Resources"); ok {
		res, isDict, err := DictAt(r, v)
		if err != nil {
			return in, err
		}
		if isDict {
			out.resources = res
			out.hasRes = true
		}
	}
	if v, ok := d.Get("MediaBox"); ok {
		arr, isArr, err := ArrayAt(r, v)
		if err != nil {
			return in, err
		}
		if isArr {
			box, err := ArrayToRectangle(r, arr)
			if err != nil {
				return in, err
			}
			out.mediaBox = &box
		}
	}
	if v, ok := d.Get("CropBox"); ok {
		arr, isArr, err := ArrayAt(r, v)
		if err != nil {
			return in, err
		}
		if isArr {
			box, err := ArrayToRectangle(r, arr)
			if err != nil {
				return in, err
			}
			out.cropBox = &box
		}
	}
	if v, ok := d.Get("Rotate"); ok {
		n, isInt, err := IntAt(r, v)
		if err != nil {
			return in, err
		}
		if isInt {
			out.rotate = normalizeRotate(int(n))
		}
	}
	return out, nil
}

func normalizeRotate(deg int) int {
	deg %= 360
	if deg < 0 {
		deg += 360
	}
	// round to the nearest allowed quadrant; conforming files only use
	// {0, 90, 180, 270} but tolerant mode shouldn't choke on anything else
	return ((deg + 45) / 90) * 90 % 360
}

type walker struct {
	r       Resolver
	visited map[Ref]bool
	leaves  []Page
}

// CountPages returns the number of /Page leaves reachable from root.
func CountPages(r Resolver, root Ref) (int, error) {
	pages, err := CollectPages(r, root)
	if err != nil {
		return 0, err
	}
	return len(pages), nil
}

// GetPage returns the 0-based index-th leaf page, with inheritance applied.
func GetPage(r Resolver, root Ref, index int) (Page, error) {
	pages, err := CollectPages(r, root)
	if err != nil {
		return Page{}, err
	}
	if index < 0 || index >= len(pages) {
		return Page{}, fmt.Errorf("page index %d out of range [0, %d)", index, len(pages))
	}
	return pages[index], nil
}

// CollectPages flattens the page tree rooted at root into leaf Pages, in
// document order, with each leaf's inherited attributes resolved.
func CollectPages(r Resolver, root Ref) ([]Page, error) {
	w := &walker{r: r, visited: map[Ref]bool{}}
	if err := w.walk(root, Ref{}, inherited{}, 0); err != nil {
		return nil, err
	}
	return w.leaves, nil
}

func (w *walker) walk(ref Ref, parent Ref, in inherited, depth int) error {
	if depth > pageTreeMaxDepth {
		return fmt.Errorf("page tree: max recursion depth %d exceeded", pageTreeMaxDepth)
	}
	if w.visited[ref] {
		return fmt.Errorf("page tree: cycle detected at object %d", ref.Number)
	}
	w.visited[ref] = true

	d, ok, err := DictAt(w.r, ref)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("page tree: object %d is not a dictionary", ref.Number)
	}
	in, err = in.withNode(w.r, d)
	if err != nil {
		return err
	}

	typeName, _, err := NameAt(w.r, firstOr(d, "Type"))
	if err != nil {
		return err
	}

	if kidsObj, hasKids := d.Get("Kids"); hasKids && typeName != "Page" {
		kids, isArr, err := ArrayAt(w.r, kidsObj)
		if err != nil {
			return err
		}
		if !isArr {
			return fmt.Errorf("page tree: /Kids of object %d is not an array", ref.Number)
		}
		for _, k := range kids {
			kidRef, isRef := k.(Ref)
			if !isRef {
				return fmt.Errorf("page tree: /Kids entry of object %d is not an indirect reference", ref.Number)
			}
			if err := w.walk(kidRef, ref, in, depth+1); err != nil {
				return err
			}
		}
		return nil
	}

	// leaf /Page node
	page := Page{Self: ref, Parent: parent, Rotate: in.rotate, Annots: nil}
	if in.mediaBox != nil {
		page.MediaBox = *in.mediaBox
	}
	page.CropBox = in.cropBox
	if in.hasRes {
		page.Resources = in.resources
	} else {
		page.Resources = NewDict()
	}

	if contentsObj, ok := d.Get("Contents"); ok {
		refs, err := resolveContentsRefs(w.r, contentsObj)
		if err != nil {
			return err
		}
		page.Contents = refs
	}
	if annotsObj, ok := d.Get("Annots"); ok {
		arr, isArr, err := ArrayAt(w.r, annotsObj)
		if err != nil {
			return err
		}
		if isArr {
			page.Annots = arr
		}
	}

	w.leaves = append(w.leaves, page)
	return nil
}

func firstOr(d Dict, key Name) Object {
	v, _ := d.Get(key)
	return v
}

// resolveContentsRefs normalizes /Contents (a single stream reference, or
// an array of them, 3.3) into a flat list of references.
func resolveContentsRefs(r Resolver, o Object) ([]Ref, error) {
	if ref, ok := o.(Ref); ok {
		v, err := r.Resolve(ref)
		if err != nil {
			return nil, err
		}
		if _, isArr := v.(Array); isArr {
			arr, _, err := ArrayAt(r, v)
			if err != nil {
				return nil, err
			}
			return refsOf(arr), nil
		}
		return []Ref{ref}, nil
	}
	if arr, ok := o.(Array); ok {
		return refsOf(arr), nil
	}
	return nil, nil
}

func refsOf(arr Array) []Ref {
	var out []Ref
	for _, o := range arr {
		if ref, ok := o.(Ref); ok {
			out = append(out, ref)
		}
	}
	return out
}
