package trace

import "sync"

// Recorder accumulates Events under lock, for an embedder that wants a
// historical feed of what one Instance did; rt.Instance records each trap
// its Invoke recovers into the Recorder installed with SetTrace.
type Recorder struct {
	mu       sync.Mutex
	enricher Enricher
	events   []*Event
}

// NewRecorder creates a Recorder using enricher to tag each recorded event;
// DefaultEnricher is used if enricher is nil.
func NewRecorder(enricher Enricher) *Recorder {
	if enricher == nil {
		enricher = DefaultEnricher
	}
	return &Recorder{enricher: enricher}
}

// Record appends a new event built from category/name/detail, running it
// through the Recorder's enricher before storing it.
func (r *Recorder) Record(category, name, detail string) *Event {
	e := NewEvent(0, category, name, detail)
	r.enricher(e)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return e
}

// Events returns a snapshot copy of the recorded events so far.
func (r *Recorder) Events() []*Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Event, len(r.events))
	copy(out, r.events)
	return out
}

// Len reports how many events have been recorded.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}
