package dom

// ImportSet tracks import documents already visited by a deep walk.
type ImportSet map[Node]struct{}

// Has reports whether doc was visited.
func (s ImportSet) Has(doc Node) bool {
	_, ok := s[doc]
	return ok
}

// Add marks doc as visited.
func (s ImportSet) Add(doc Node) { s[doc] = struct{}{} }

// Delete forgets doc.
func (s ImportSet) Delete(doc Node) { delete(s, doc) }

// Clone returns an independent copy. Cloning a nil set yields an empty one.
func (s ImportSet) Clone() ImportSet {
	out := make(ImportSet, len(s))
	for k := range s {
		out[k] = struct{}{}
	}
	return out
}

// IsImportLink reports whether el is a <link rel="import"> element.
func IsImportLink(el Node) bool {
	if el.LocalName() != "link" {
		return false
	}
	rel, _ := el.GetAttribute("rel")
	return rel == "import"
}

// WalkDeepDescendantElements calls fn for root (when it is an element) and
// every element below it in document order. Shadow roots are walked before
// the light children of their host. The contents of a loaded import document
// are walked in place of the import link's children, at most once per
// document as tracked by visited. Template contents are skipped.
//
// fn runs before the walker inspects the element, so it may set up the import
// link it is called with. A nil visited set is replaced with a fresh one.
func WalkDeepDescendantElements(root Node, fn func(Node), visited ImportSet) {
	if visited == nil {
		visited = ImportSet{}
	}
	walkDeep(root, fn, visited)
}

func walkDeep(n Node, fn func(Node), visited ImportSet) {
	if n.IsElement() {
		fn(n)
		if IsImportLink(n) {
			if imp := n.Import(); !imp.IsZero() && !visited.Has(imp) {
				visited.Add(imp)
				for _, c := range imp.Children() {
					walkDeep(c, fn, visited)
				}
			}
			return
		}
		if n.LocalName() == "template" {
			return
		}
		if sr := n.ShadowRoot(); !sr.IsZero() {
			for _, c := range sr.Children() {
				walkDeep(c, fn, visited)
			}
		}
	}
	for _, c := range n.Children() {
		walkDeep(c, fn, visited)
	}
}

// WalkElements is the light walk: root (when it is an element) and its
// element descendants in document order, without entering shadow roots,
// import documents or template contents.
func WalkElements(root Node, fn func(Node)) {
	if root.IsElement() {
		fn(root)
		if root.LocalName() == "template" {
			return
		}
	}
	for _, c := range root.Children() {
		WalkElements(c, fn)
	}
}
