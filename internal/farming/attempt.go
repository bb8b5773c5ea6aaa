// Copyright 2025 Granary Authors
// SPDX-License-Identifier: Apache-2.0

package farming

import (
	"math"

	"github.com/dotandev/granary/internal/errors"
)

// Engine decides single farming attempts. It is stateless between calls;
// the caller owns the AgeCounter and the RateState snapshot. Attempts on
// different items may run in parallel, but attempts on the same item must be
// serialized by the caller or two of them could both observe the
// pre-increment age and both be granted.
type Engine struct {
	params Params
	calc   Calculator
}

// NewEngine validates params and returns an engine.
func NewEngine(params Params) (*Engine, error) {
	calc, err := NewCalculator(params)
	if err != nil {
		return nil, err
	}
	return &Engine{params: params, calc: calc}, nil
}

// Params returns the engine's configured parameters.
func (e *Engine) Params() Params { return e.params }

// Calculator returns the rate calculator the engine decides with.
func (e *Engine) Calculator() Calculator { return e.calc }

// Attempt evaluates one farming opportunity on one item.
//
// The grant probability is the current farming rate decayed by the item's
// age:
//
//	p = rate / (1 + DecayFactor * age)
//
// so replaying retrievals of one popular item drives its own probability
// toward zero, and earning consistently requires serving a diverse working
// set. The draw must be supplied by the caller, derived from a value every
// verifying node can reconstruct; with the same age, state and draw the
// decision is always the same.
//
// On a grant the reward is rate * ItemUnitValue, clamped to the currency
// still issuable under the cap, and NewAge is the incremented age. On a
// non-grant the counter is untouched.
func (e *Engine) Attempt(age AgeCounter, state RateState, draw float64) (RewardDecision, error) {
	if math.IsNaN(draw) || draw < 0 || draw >= 1 {
		return RewardDecision{}, errors.WrapInvalidInput("random draw must be within [0,1)")
	}
	rate, err := e.calc.FarmingRate(state)
	if err != nil {
		return RewardDecision{}, err
	}
	p := rate / (1 + e.params.DecayFactor*float64(age.Age))
	if draw >= p {
		return RewardDecision{Granted: false, Amount: 0, NewAge: age.Age}, nil
	}
	amount := Amount(math.Round(rate * float64(e.params.ItemUnitValue)))
	if remaining := state.Remaining(); amount > remaining {
		amount = remaining
	}
	return RewardDecision{Granted: true, Amount: amount, NewAge: age.Bumped().Age}, nil
}

// GrantProbability exposes the decayed probability for a given age and
// state, for observability and quoting. Same validation as Attempt.
func (e *Engine) GrantProbability(age AgeCounter, state RateState) (float64, error) {
	rate, err := e.calc.FarmingRate(state)
	if err != nil {
		return 0, err
	}
	return rate / (1 + e.params.DecayFactor*float64(age.Age)), nil
}
