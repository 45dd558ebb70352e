package models

import (
	"encoding/json"
	"fmt"
)

// Rating is the learner's assessment of recall quality after a review.
type Rating int

const (
	Again Rating = iota + 1 // failed to recall
	Hard                    // recalled with significant effort
	Good                    // recalled with some effort
	Easy                    // recalled effortlessly
)

var ratingNames = [...]string{Again: "Again", Hard: "Hard", Good: "Good", Easy: "Easy"}

var ratingByName = map[string]Rating{
	"Again": Again,
	"Hard":  Hard,
	"Good":  Good,
	"Easy":  Easy,
}

// AllRatings lists the four valid ratings in ascending order.
var AllRatings = [4]Rating{Again, Hard, Good, Easy}

// IsValid reports whether r is one of the four defined ratings.
func (r Rating) IsValid() bool {
	return r >= Again && r <= Easy
}

func (r Rating) String() string {
	if r.IsValid() {
		return ratingNames[r]
	}
	return fmt.Sprintf("Rating(%d)", int(r))
}

// MarshalText implements encoding.TextMarshaler so ratings also work as
// JSON object keys.
func (r Rating) MarshalText() ([]byte, error) {
	if !r.IsValid() {
		return nil, fmt.Errorf("invalid rating: %d", int(r))
	}
	return []byte(ratingNames[r]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Rating) UnmarshalText(text []byte) error {
	v, ok := ratingByName[string(text)]
	if !ok {
		return fmt.Errorf("invalid rating: %q", text)
	}
	*r = v
	return nil
}

// MarshalJSON serializes the rating as its name, e.g. "Good".
func (r Rating) MarshalJSON() ([]byte, error) {
	text, err := r.MarshalText()
	if err != nil {
		return nil, err
	}
	return json.Marshal(string(text))
}

// UnmarshalJSON accepts either a rating name ("Good") or its numeric value (3).
func (r *Rating) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return r.UnmarshalText([]byte(s))
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid rating: %s", data)
	}
	v := Rating(n)
	if !v.IsValid() {
		return fmt.Errorf("invalid rating: %d", n)
	}
	*r = v
	return nil
}
