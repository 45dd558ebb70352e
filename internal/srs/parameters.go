package srs

import (
	"errors"
	"fmt"
	"strings"
)

// WeightCount is the arity of the FSRS v6 weight vector.
const WeightCount = 21

const (
	stabilityMin  = 0.001
	difficultyMin = 1.0
	difficultyMax = 10.0
)

// ErrInvalidParameters is returned when a parameter set fails validation
// at construction time. Scheduling operations never produce it.
var ErrInvalidParameters = errors.New("srs: invalid parameters")

// Parameters is an immutable, named parameter set for the memory model:
// the 21 model weights plus the two scheduling scalars. Build one with
// NewParameters or DefaultParameters and share it by value.
type Parameters struct {
	Name             string
	Weights          [WeightCount]float64
	DesiredRetention float64 // recall probability targeted when scheduling, in (0, 1)
	MaximumInterval  int     // upper bound on scheduled intervals, in days
}

var defaultWeights = [WeightCount]float64{
	0.212, 1.2931, 2.3065, 8.2956, // initial stability per rating
	6.4133, 0.8334, 3.0194, 0.001, // difficulty
	1.8722, 0.1666, 0.796, 1.4835, // recall stability
	0.0614, 0.2629, 1.6483, 0.6014, // forget stability
	1.8729, 0.5425, 0.0912, 0.0658, // easy bonus, short-term stability
	0.1542, // decay exponent
}

var weightLowerBounds = [WeightCount]float64{
	0.001, 0.001, 0.001, 0.001,
	1.0, 0.001, 0.001, 0.001,
	0.0, 0.0, 0.001, 0.001,
	0.001, 0.001, 0.0, 0.0,
	1.0, 0.0, 0.0, 0.0,
	0.1,
}

var weightUpperBounds = [WeightCount]float64{
	100.0, 100.0, 100.0, 100.0,
	10.0, 4.0, 4.0, 0.75,
	4.5, 0.8, 3.5, 5.0,
	0.25, 0.9, 4.0, 1.0,
	6.0, 2.0, 2.0, 0.8,
	0.8,
}

// DefaultParameters returns the stock FSRS v6 parameter set with a 90%
// retention target and a 100-year interval ceiling.
func DefaultParameters() Parameters {
	return Parameters{
		Name:             "fsrs-v6-default",
		Weights:          defaultWeights,
		DesiredRetention: 0.9,
		MaximumInterval:  36500,
	}
}

// NewParameters builds a validated parameter set. The weight slice must have
// exactly WeightCount entries within the model bounds, retention must lie in
// (0, 1) and maxInterval must be at least one day.
func NewParameters(name string, weights []float64, retention float64, maxInterval int) (Parameters, error) {
	if len(weights) != WeightCount {
		return Parameters{}, fmt.Errorf("%w: expected %d weights, got %d", ErrInvalidParameters, WeightCount, len(weights))
	}
	p := Parameters{
		Name:             name,
		DesiredRetention: retention,
		MaximumInterval:  maxInterval,
	}
	copy(p.Weights[:], weights)
	if err := p.Validate(); err != nil {
		return Parameters{}, err
	}
	return p, nil
}

// Validate checks the parameter set against the model bounds.
func (p Parameters) Validate() error {
	var problems []string
	for i, w := range p.Weights {
		if w < weightLowerBounds[i] || w > weightUpperBounds[i] {
			problems = append(problems,
				fmt.Sprintf("weights[%d] = %g outside [%g, %g]", i, w, weightLowerBounds[i], weightUpperBounds[i]))
		}
	}
	if !(p.DesiredRetention > 0 && p.DesiredRetention < 1) {
		problems = append(problems, fmt.Sprintf("desired retention %g outside (0, 1)", p.DesiredRetention))
	}
	if p.MaximumInterval < 1 {
		problems = append(problems, fmt.Sprintf("maximum interval %d below 1 day", p.MaximumInterval))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidParameters, strings.Join(problems, "; "))
	}
	return nil
}
