// Package form holds what the dashboard shows: the code being edited, the
// selected language and the latest result of each action.
package form

import (
	"bytes"
	"encoding/json"

	"github.com/darc-project/darc/internal/analysis"
)

// Slot is the most recent value one action produced.
type Slot struct {
	Value json.RawMessage
}

// Empty reports whether the slot has nothing worth showing. Like the panels
// of the web page, null, false, any zero number, "" and absent values are
// hidden.
func (s Slot) Empty() bool {
	v := bytes.TrimSpace(s.Value)
	switch string(v) {
	case "", "null", "false", `""`:
		return true
	}
	if v[0] == '-' || (v[0] >= '0' && v[0] <= '9') {
		var n float64
		if err := json.Unmarshal(v, &n); err == nil {
			return n == 0
		}
	}
	return false
}

// State is a value type; copies are independent.
type State struct {
	Code     string
	Language analysis.Language
	slots    map[analysis.Action]Slot
}

func New() State {
	return State{Language: analysis.DefaultLanguage}
}

// Submission rebuilds the request body from the current input.
func (s State) Submission() analysis.Submission {
	return analysis.Submission{Code: s.Code, Language: s.Language}
}

// Apply stores a result in its action's slot, replacing what was there.
func (s State) Apply(r *analysis.Result) State {
	slots := make(map[analysis.Action]Slot, len(s.slots)+1)
	for k, v := range s.slots {
		slots[k] = v
	}
	slots[r.Action] = Slot{Value: bytes.Clone(r.Value)}
	s.slots = slots
	return s
}

// Slot returns the action's slot; ok is false if it was never filled.
func (s State) Slot(a analysis.Action) (Slot, bool) {
	slot, ok := s.slots[a]
	return slot, ok
}

// Panel is a slot ready to be shown.
type Panel struct {
	Spec analysis.Spec
	Slot Slot
}

// Panels lists non-empty slots in button order.
func (s State) Panels() []Panel {
	var panels []Panel
	for _, spec := range analysis.Specs() {
		slot, ok := s.slots[spec.Action]
		if !ok || slot.Empty() {
			continue
		}
		panels = append(panels, Panel{Spec: spec, Slot: slot})
	}
	return panels
}
