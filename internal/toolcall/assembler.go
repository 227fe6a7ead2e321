package toolcall

import (
	"encoding/json"
	"log"
	"reflect"
	"strings"

	"backend-honeymoonhq/internal/sse"
)

type fragment struct {
	name string
	args strings.Builder
}

type emitted struct {
	name    string
	payload any
}

// Assembler rebuilds one assistant turn from streamed deltas: the running
// text and every tool call whose arguments have become valid JSON. An index
// may complete more than once while its arguments keep growing; each distinct
// (name, payload) pair is kept, identical repeats are not.
type Assembler struct {
	content   strings.Builder
	fragments map[int]*fragment
	seen      []emitted
	results   []Call
}

func NewAssembler() *Assembler {
	return &Assembler{fragments: make(map[int]*fragment)}
}

// Apply folds one delta into the turn and reports whether the visible
// snapshot (text or results) changed.
func (a *Assembler) Apply(d sse.Delta) bool {
	changed := false
	if d.Content != "" {
		a.content.WriteString(d.Content)
		changed = true
	}
	for _, tc := range d.ToolCalls {
		f, ok := a.fragments[tc.Index]
		if !ok {
			f = &fragment{}
			a.fragments[tc.Index] = f
		}
		if tc.Function.Name != "" {
			f.name = tc.Function.Name
		}
		f.args.WriteString(tc.Function.Arguments)

		if a.tryEmit(f) {
			changed = true
		}
	}
	return changed
}

func (a *Assembler) tryEmit(f *fragment) bool {
	raw := f.args.String()
	var payload any
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return false
	}
	for _, e := range a.seen {
		if e.name == f.name && reflect.DeepEqual(e.payload, payload) {
			return false
		}
	}

	a.seen = append(a.seen, emitted{name: f.name, payload: payload})
	res, err := Decode(f.name, []byte(raw))
	if err != nil {
		log.Printf("toolcall: skipping call: %v", err)
		return false
	}
	a.results = append(a.results, Call{Name: f.name, Data: res})
	return true
}

func (a *Assembler) Content() string { return a.content.String() }

// Results returns a copy of the calls completed so far, in completion order.
func (a *Assembler) Results() []Call {
	return append([]Call(nil), a.results...)
}
