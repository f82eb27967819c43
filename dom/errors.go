package dom

import "errors"

var (
	// ErrHierarchy is returned when an insertion would produce an invalid tree
	// (for example inserting a node into its own descendant, or a document
	// into anything).
	ErrHierarchy = errors.New("dom: hierarchy request error")

	// ErrNotFound is returned when a reference or removed node is not a child
	// of the node the operation was called on.
	ErrNotFound = errors.New("dom: node not found")

	// ErrNotElement is returned by element-only operations.
	ErrNotElement = errors.New("dom: node is not an element")

	// ErrNotDocument is returned by document-only operations.
	ErrNotDocument = errors.New("dom: node is not a document")

	// ErrShadowExists is returned when attaching a second shadow root.
	ErrShadowExists = errors.New("dom: element already hosts a shadow root")

	// ErrWrongTree is returned when nodes from different trees are combined.
	ErrWrongTree = errors.New("dom: node belongs to another tree")
)
