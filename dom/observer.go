package dom

// MutationRecord describes one child-list change.
type MutationRecord struct {
	Target  Node
	Added   []Node
	Removed []Node
}

// Observer receives child-list records for a subtree. Records are delivered
// synchronously, right after the mutation that produced them.
type Observer struct {
	tree   *Tree
	target Node
	fn     func([]MutationRecord)
	active bool
}

// Observe registers fn for child-list mutations anywhere in the light subtree
// rooted at target (target included).
func (t *Tree) Observe(target Node, fn func([]MutationRecord)) *Observer {
	o := &Observer{tree: t, target: target, fn: fn, active: true}
	t.observers = append(t.observers, o)
	return o
}

// Disconnect stops delivery to the observer. It is safe to call more than
// once and from within the observer callback.
func (o *Observer) Disconnect() {
	if o == nil || !o.active {
		return
	}
	o.active = false
	obs := o.tree.observers
	for i, cand := range obs {
		if cand == o {
			o.tree.observers = append(obs[:i:i], obs[i+1:]...)
			break
		}
	}
}

// Active reports whether the observer still receives records.
func (o *Observer) Active() bool { return o != nil && o.active }

func (t *Tree) notify(rec MutationRecord) {
	if len(t.observers) == 0 {
		return
	}
	snapshot := append([]*Observer(nil), t.observers...)
	for _, o := range snapshot {
		if !o.active || !o.target.Contains(rec.Target) {
			continue
		}
		o.fn([]MutationRecord{rec})
	}
}
