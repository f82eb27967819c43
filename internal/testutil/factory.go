package testutil

import (
	"fmt"

	"github.com/hupe1980/customelements/core"
	"github.com/hupe1980/customelements/dom"
)

// EventLog collects reaction events in the order they happen.
type EventLog struct {
	Events []string
}

// Add appends a formatted event.
func (l *EventLog) Add(format string, args ...any) {
	l.Events = append(l.Events, fmt.Sprintf(format, args...))
}

// Reset drops every recorded event.
func (l *EventLog) Reset() { l.Events = nil }

// Label names an element by local name and id attribute, e.g. "x-a#1".
func Label(el dom.Node) string {
	if id, ok := el.GetAttribute("id"); ok {
		return el.LocalName() + "#" + id
	}
	return el.LocalName()
}

func optional(v *string) string {
	if v == nil {
		return "null"
	}
	return *v
}

// Plain is a factory without reactions. It records constructed elements.
type Plain struct {
	Log         *EventLog
	Err         error
	Constructed []dom.Node
}

// New claims the element from h.
func (p *Plain) New(h core.Host) (dom.Node, error) {
	el, err := h.Element(p)
	if err != nil {
		return dom.Node{}, err
	}
	if p.Err != nil {
		return dom.Node{}, p.Err
	}
	p.Constructed = append(p.Constructed, el)
	if p.Log != nil {
		p.Log.Add("construct %s", Label(el))
	}
	return el, nil
}

// Recorder is a factory implementing every reaction interface. Each reaction
// is written to Log.
type Recorder struct {
	Log        *EventLog
	Attributes []string
	AttrErr    error
	Err        error
	// Produce, when set, replaces the default construction.
	Produce func(h core.Host) (dom.Node, error)

	Constructed []dom.Node
}

// NewRecorder returns a Recorder observing attrs and writing to log.
func NewRecorder(log *EventLog, attrs ...string) *Recorder {
	return &Recorder{Log: log, Attributes: attrs}
}

// New claims the element from h, or delegates to Produce.
func (r *Recorder) New(h core.Host) (dom.Node, error) {
	if r.Produce != nil {
		return r.Produce(h)
	}
	el, err := h.Element(r)
	if err != nil {
		return dom.Node{}, err
	}
	if r.Err != nil {
		r.Log.Add("construct-failed %s", Label(el))
		return dom.Node{}, r.Err
	}
	r.Constructed = append(r.Constructed, el)
	r.Log.Add("construct %s", Label(el))
	return el, nil
}

// ObservedAttributes returns Attributes, or AttrErr when set.
func (r *Recorder) ObservedAttributes() ([]string, error) {
	if r.AttrErr != nil {
		return nil, r.AttrErr
	}
	return r.Attributes, nil
}

// Connected records "connected <label>".
func (r *Recorder) Connected(el dom.Node) { r.Log.Add("connected %s", Label(el)) }

// Disconnected records "disconnected <label>".
func (r *Recorder) Disconnected(el dom.Node) { r.Log.Add("disconnected %s", Label(el)) }

// Adopted records "adopted <label>".
func (r *Recorder) Adopted(el, oldDocument, newDocument dom.Node) {
	r.Log.Add("adopted %s", Label(el))
}

// AttributeChanged records "attr <label> <name> <old>-><new>".
func (r *Recorder) AttributeChanged(el dom.Node, change core.AttributeChange) {
	r.Log.Add("attr %s %s %s->%s", Label(el), change.Name, optional(change.OldValue), optional(change.NewValue))
}

var (
	_ core.Factory                  = (*Plain)(nil)
	_ core.Factory                  = (*Recorder)(nil)
	_ core.ConnectedCallback        = (*Recorder)(nil)
	_ core.DisconnectedCallback     = (*Recorder)(nil)
	_ core.AdoptedCallback          = (*Recorder)(nil)
	_ core.AttributeChangedCallback = (*Recorder)(nil)
	_ core.AttributeObserver        = (*Recorder)(nil)
)
