package srs

import (
	"math"

	"github.com/vytor/studycards/internal/models"
)

// memoryModel evaluates the FSRS forgetting-curve formulas for one
// parameter set. decay and factor are precomputed from the weights so the
// hot path stays allocation-free.
type memoryModel struct {
	w      [WeightCount]float64
	decay  float64 // -w[20]
	factor float64 // 0.9^(1/decay) - 1, so R(S, S) = 0.9
}

func newMemoryModel(p Parameters) memoryModel {
	decay := -p.Weights[20]
	return memoryModel{
		w:      p.Weights,
		decay:  decay,
		factor: math.Pow(0.9, 1.0/decay) - 1.0,
	}
}

// retrievability is the predicted recall probability after elapsedDays with
// the given stability: R(t, S) = (1 + factor*t/S)^decay. R(0, S) = 1 and the
// curve decreases in t and increases in S. Negative elapsed time (backdated
// or clock-skewed submissions) is normalized to zero.
func (m *memoryModel) retrievability(elapsedDays, stability float64) float64 {
	if !(elapsedDays > 0) {
		return 1.0
	}
	stability = clampStability(stability)
	return math.Pow(1+m.factor*elapsedDays/stability, m.decay)
}

// initStability is the first-review stability for a rating, taken directly
// from the per-rating base weights w[0..3].
func (m *memoryModel) initStability(r models.Rating) float64 {
	return clampStability(m.w[r-1])
}

// initDifficulty is the first-review difficulty D0(G) = w[4] - e^(w[5]*(G-1)) + 1.
func (m *memoryModel) initDifficulty(r models.Rating) float64 {
	return clampDifficulty(m.rawInitDifficulty(r))
}

func (m *memoryModel) rawInitDifficulty(r models.Rating) float64 {
	return m.w[4] - math.Exp(m.w[5]*float64(r-1)) + 1
}

// nextDifficulty applies the linearly damped difficulty delta and then mean
// reversion toward D0(Easy). Pure in its two inputs.
func (m *memoryModel) nextDifficulty(difficulty float64, r models.Rating) float64 {
	delta := -m.w[6] * (float64(r) - 3)
	damped := difficulty + (10-difficulty)*delta/9
	reverted := m.w[7]*m.rawInitDifficulty(models.Easy) + (1-m.w[7])*damped
	return clampDifficulty(reverted)
}

// recallStability is the post-review stability for a successful recall
// (Hard/Good/Easy). Growth is larger when retrievability was low, damped by
// difficulty, scaled down for Hard (w[15]) and up for Easy (w[16]).
func (m *memoryModel) recallStability(difficulty, stability, retrievability float64, r models.Rating) float64 {
	hardPenalty := 1.0
	if r == models.Hard {
		hardPenalty = m.w[15]
	}
	easyBonus := 1.0
	if r == models.Easy {
		easyBonus = m.w[16]
	}
	grown := stability * (1 +
		math.Exp(m.w[8])*
			(11-difficulty)*
			math.Pow(stability, -m.w[9])*
			(math.Exp((1-retrievability)*m.w[10])-1)*
			hardPenalty*
			easyBonus)
	return clampStability(grown)
}

// lapseStability is the post-forgetting stability, the minimum of the
// long-term forget formula and a short-term bound on the prior stability.
func (m *memoryModel) lapseStability(difficulty, stability, retrievability float64) float64 {
	longTerm := m.w[11] *
		math.Pow(difficulty, -m.w[12]) *
		(math.Pow(stability+1, m.w[13]) - 1) *
		math.Exp((1-retrievability)*m.w[14])
	shortTerm := stability / math.Exp(m.w[17]*m.w[18])
	return clampStability(math.Min(longTerm, shortTerm))
}

// shortTermStability handles same-day reviews, where no cross-day forgetting
// has happened yet: S' = S * e^(w[17]*(G-3+w[18])) * S^(-w[19]), with the
// increase floored at 1 for Good/Easy.
func (m *memoryModel) shortTermStability(stability float64, r models.Rating) float64 {
	inc := math.Exp(m.w[17]*(float64(r)-3+m.w[18])) * math.Pow(stability, -m.w[19])
	if r == models.Good || r == models.Easy {
		inc = math.Max(inc, 1.0)
	}
	return clampStability(stability * inc)
}

// nextInterval inverts the forgetting curve: the whole-day interval at which
// retrievability decays to the target retention, clamped to [1, maxInterval].
func (m *memoryModel) nextInterval(stability, retention float64, maxInterval int) int {
	raw := stability / m.factor * (math.Pow(retention, 1.0/m.decay) - 1)
	if !(raw < float64(maxInterval)) { // also catches +Inf and NaN from degenerate inputs
		return maxInterval
	}
	days := int(math.Round(raw))
	if days < 1 {
		return 1
	}
	return days
}

// clampStability floors stability at a small positive value; NaN collapses
// to the floor so non-finite values never reach persisted state.
func clampStability(s float64) float64 {
	if !(s > stabilityMin) {
		return stabilityMin
	}
	return s
}

// clampDifficulty pins difficulty into [1, 10]; NaN collapses to the floor.
func clampDifficulty(d float64) float64 {
	if !(d > difficultyMin) {
		return difficultyMin
	}
	if d > difficultyMax {
		return difficultyMax
	}
	return d
}
