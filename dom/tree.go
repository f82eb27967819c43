package dom

import (
	"strings"

	"github.com/google/uuid"
)

// NodeID indexes a node inside its Tree. The zero value never names a node.
type NodeID int32

// NodeType distinguishes the kinds of nodes a Tree can hold.
type NodeType uint8

const (
	// DocumentNode is the root of a document.
	DocumentNode NodeType = iota + 1
	// ElementNode is a tagged element.
	ElementNode
	// TextNode carries character data.
	TextNode
	// FragmentNode is a document fragment; shadow roots are fragments with a host.
	FragmentNode
)

// String returns a human readable node type.
func (t NodeType) String() string {
	switch t {
	case DocumentNode:
		return "document"
	case ElementNode:
		return "element"
	case TextNode:
		return "text"
	case FragmentNode:
		return "fragment"
	default:
		return "unknown"
	}
}

// ReadyState mirrors the loading progress of a document.
type ReadyState string

const (
	ReadyStateLoading     ReadyState = "loading"
	ReadyStateInteractive ReadyState = "interactive"
	ReadyStateComplete    ReadyState = "complete"
)

// Attr is a single element attribute. Attributes keep insertion order.
type Attr struct {
	Namespace string
	Name      string
	Value     string
}

type record struct {
	typ       NodeType
	localName string
	data      string
	attrs     []Attr
	parent    NodeID
	children  []NodeID
	owner     NodeID
	host      NodeID
	shadow    NodeID
	importDoc NodeID
	onLoad    []func()
	doc       *documentState
}

type documentState struct {
	id              string
	browsingContext bool
	readyState      ReadyState
	importDocument  bool
	hasRegistry     bool
	loadHandled     bool
}

// Tree is the arena owning every node of one or more documents.
type Tree struct {
	nodes     []*record
	observers []*Observer
}

// NewTree creates an empty arena.
func NewTree() *Tree {
	// index 0 is reserved so that the zero NodeID never names a node
	return &Tree{nodes: []*record{nil}}
}

// Len returns the number of nodes ever allocated in the tree.
func (t *Tree) Len() int { return len(t.nodes) - 1 }

// Node returns the handle for id, or the zero Node when id is unknown.
func (t *Tree) Node(id NodeID) Node {
	if id <= 0 || int(id) >= len(t.nodes) {
		return Node{}
	}
	return Node{tree: t, id: id}
}

// DocumentOptions configures a document created by NewDocument.
type DocumentOptions struct {
	// BrowsingContext reports whether the document has an execution context.
	// Elements of documents without one are never upgraded unless the
	// document is an import document associated with a registry.
	BrowsingContext bool

	// ReadyState is the initial loading state.
	ReadyState ReadyState
}

// NewDocument allocates a document node. By default the document has a
// browsing context and is complete.
func (t *Tree) NewDocument(optFns ...func(o *DocumentOptions)) Node {
	opts := DocumentOptions{
		BrowsingContext: true,
		ReadyState:      ReadyStateComplete,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return t.alloc(&record{
		typ: DocumentNode,
		doc: &documentState{
			id:              uuid.NewString(),
			browsingContext: opts.BrowsingContext,
			readyState:      opts.ReadyState,
		},
	})
}

func (t *Tree) alloc(r *record) Node {
	t.nodes = append(t.nodes, r)
	return Node{tree: t, id: NodeID(len(t.nodes) - 1)}
}

func (t *Tree) rec(id NodeID) *record {
	if id <= 0 || int(id) >= len(t.nodes) {
		return nil
	}
	return t.nodes[id]
}

func (t *Tree) newElement(owner NodeID, localName string) Node {
	return t.alloc(&record{
		typ:       ElementNode,
		localName: strings.ToLower(localName),
		owner:     owner,
	})
}

func (t *Tree) newText(owner NodeID, data string) Node {
	return t.alloc(&record{typ: TextNode, data: data, owner: owner})
}

func (t *Tree) newFragment(owner, host NodeID) Node {
	return t.alloc(&record{typ: FragmentNode, owner: owner, host: host})
}

// appendRaw links child under parent without validation or observer
// notification. Only used while building detached subtrees.
func (t *Tree) appendRaw(parent, child NodeID) {
	t.nodes[child].parent = parent
	t.nodes[parent].children = append(t.nodes[parent].children, child)
}
