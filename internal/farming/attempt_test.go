// Copyright 2025 Granary Authors
// SPDX-License-Identifier: Apache-2.0

package farming

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	granaryerrors "github.com/dotandev/granary/internal/errors"
)

func testEngine(t *testing.T) *Engine {
	t.Helper()
	eng, err := NewEngine(testParams())
	require.NoError(t, err)
	return eng
}

func TestAttemptGrantsYoungItem(t *testing.T) {
	eng := testEngine(t)
	state := RateState{TotalIssued: 0, SupplyCap: 1000, Utilization: 0.5}

	dec, err := eng.Attempt(AgeCounter{Age: 0}, state, 0.05)
	require.NoError(t, err)

	assert.True(t, dec.Granted)
	assert.Equal(t, uint64(1), dec.NewAge)
	// rate 0.75 * unit value 1, rounded
	assert.Equal(t, Amount(1), dec.Amount)
}

func TestAttemptProbabilityDecaysWithAge(t *testing.T) {
	eng := testEngine(t)
	state := RateState{TotalIssued: 0, SupplyCap: 1000, Utilization: 0.5}

	prev := math.Inf(1)
	for _, age := range []uint64{0, 1, 5, 50, 500, 5000} {
		p, err := eng.GrantProbability(AgeCounter{Age: age}, state)
		require.NoError(t, err)
		if p >= prev {
			t.Fatalf("p(%d) = %v did not decrease from %v", age, p, prev)
		}
		prev = p
	}
}

func TestAttemptDeterministic(t *testing.T) {
	eng := testEngine(t)
	state := RateState{TotalIssued: 250, SupplyCap: 1000, Utilization: 0.8}

	first, err := eng.Attempt(AgeCounter{Age: 7}, state, 0.42)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := eng.Attempt(AgeCounter{Age: 7}, state, 0.42)
		require.NoError(t, err)
		assert.Equal(t, first, again, "same inputs must reproduce the same decision")
	}
}

func TestAttemptNonGrantLeavesAgeUntouched(t *testing.T) {
	eng := testEngine(t)
	state := RateState{TotalIssued: 0, SupplyCap: 1000, Utilization: 0.5}

	// p(0) = 0.75, so a draw of 0.9 never grants
	dec, err := eng.Attempt(AgeCounter{Age: 3}, state, 0.9)
	require.NoError(t, err)

	assert.False(t, dec.Granted)
	assert.Equal(t, Amount(0), dec.Amount)
	assert.Equal(t, uint64(3), dec.NewAge)
}

func TestAttemptNeverGrantsAtCap(t *testing.T) {
	eng := testEngine(t)
	state := RateState{TotalIssued: 1000, SupplyCap: 1000, Utilization: 0.1}

	for _, draw := range []float64{0, 1e-12, 0.3, 0.9999} {
		dec, err := eng.Attempt(AgeCounter{Age: 0}, state, draw)
		require.NoError(t, err)
		assert.False(t, dec.Granted, "draw %v granted at the supply cap", draw)
	}
}

func TestAttemptRejectsDrawOutOfRange(t *testing.T) {
	eng := testEngine(t)
	state := RateState{TotalIssued: 0, SupplyCap: 1000, Utilization: 0.5}

	for _, draw := range []float64{1.0, 1.5, -0.01, math.NaN()} {
		_, err := eng.Attempt(AgeCounter{Age: 0}, state, draw)
		assert.ErrorIs(t, err, granaryerrors.ErrInvalidInput, "draw %v", draw)
	}
}

func TestAttemptSignalsConsistencyViolation(t *testing.T) {
	eng := testEngine(t)
	state := RateState{TotalIssued: 1001, SupplyCap: 1000, Utilization: 0.5}

	_, err := eng.Attempt(AgeCounter{Age: 0}, state, 0.5)
	assert.ErrorIs(t, err, granaryerrors.ErrConsistencyViolation)
}

func TestAgeCounterSaturates(t *testing.T) {
	a := AgeCounter{Age: math.MaxUint64}
	assert.Equal(t, uint64(math.MaxUint64), a.Bumped().Age)
}

// Sequential grants across randomized states must never push cumulative
// issuance past the cap: each amount is clamped to what remains issuable.
func TestAttemptNeverOverIssues(t *testing.T) {
	params := testParams()
	params.ItemUnitValue = 100 // large unit value to stress the clamp
	eng, err := NewEngine(params)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(42))
	issued := Amount(0)
	age := AgeCounter{}
	for i := 0; i < 10_000 && issued < params.SupplyCap; i++ {
		state := RateState{TotalIssued: issued, SupplyCap: params.SupplyCap, Utilization: rng.Float64()}
		dec, err := eng.Attempt(age, state, rng.Float64())
		require.NoError(t, err)
		if !dec.Granted {
			continue
		}
		issued += dec.Amount
		age = AgeCounter{Age: dec.NewAge}
		if issued > params.SupplyCap {
			t.Fatalf("issuance %d passed cap %d after %d grants", issued, params.SupplyCap, i)
		}
	}
}

func BenchmarkAttempt(b *testing.B) {
	eng, err := NewEngine(testParams())
	if err != nil {
		b.Fatal(err)
	}
	state := RateState{TotalIssued: 500, SupplyCap: 1000, Utilization: 0.5}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := eng.Attempt(AgeCounter{Age: uint64(i % 64)}, state, 0.5); err != nil {
			b.Fatal(err)
		}
	}
}
