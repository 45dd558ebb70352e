package models

import (
	"encoding/json"
	"fmt"
)

// State is the learning stage of a card.
type State int

const (
	New        State = iota // created but never reviewed
	Learning                // failed or struggled on first exposure, in short steps
	Review                  // graduated to the long-interval track
	Relearning              // lapsed from Review, in short steps again
)

var stateNames = [...]string{New: "New", Learning: "Learning", Review: "Review", Relearning: "Relearning"}

var stateByName = map[string]State{
	"New":        New,
	"Learning":   Learning,
	"Review":     Review,
	"Relearning": Relearning,
}

// IsValid reports whether s is one of the four defined states.
func (s State) IsValid() bool {
	return s >= New && s <= Relearning
}

func (s State) String() string {
	if s.IsValid() {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// MarshalText implements encoding.TextMarshaler so states also work as
// JSON object keys.
func (s State) MarshalText() ([]byte, error) {
	if !s.IsValid() {
		return nil, fmt.Errorf("invalid state: %d", int(s))
	}
	return []byte(stateNames[s]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *State) UnmarshalText(text []byte) error {
	v, ok := stateByName[string(text)]
	if !ok {
		return fmt.Errorf("invalid state: %q", text)
	}
	*s = v
	return nil
}

// MarshalJSON serializes the state as its name, e.g. "Review".
func (s State) MarshalJSON() ([]byte, error) {
	text, err := s.MarshalText()
	if err != nil {
		return nil, err
	}
	return json.Marshal(string(text))
}

// UnmarshalJSON expects a state name.
func (s *State) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("invalid state: %s", data)
	}
	return s.UnmarshalText([]byte(str))
}
