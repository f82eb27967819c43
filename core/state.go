package core

// State is the upgrade state of a single element. The zero value is
// StateUndefined. Transitions only go from undefined to custom or failed;
// both are terminal.
type State uint8

const (
	// StateUndefined marks an element that has not been upgraded yet.
	StateUndefined State = iota
	// StateCustom marks an element successfully constructed by its definition.
	StateCustom
	// StateFailed marks an element whose construction failed. It is never
	// retried.
	StateFailed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUndefined:
		return "undefined"
	case StateCustom:
		return "custom"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool { return s == StateCustom || s == StateFailed }

// LazyState tracks the resolution of a lazy definition slot. An absent slot
// is represented by the store not returning one.
type LazyState uint8

const (
	// LazyUnresolved marks a slot whose generator has not run yet.
	LazyUnresolved LazyState = iota
	// LazyPending marks a slot whose generator has been invoked. The slot stays
	// pending until an asynchronous result installs a definition, or forever
	// when the generator produced nothing.
	LazyPending
)

// String returns the lazy state name.
func (s LazyState) String() string {
	if s == LazyPending {
		return "pending"
	}
	return "unresolved"
}
