package riskcalc

import (
	"testing"

	"riskapi/internal/catalog"
	"riskapi/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubjects(t *testing.T) {
	t.Run("canonical table", func(t *testing.T) {
		got := Subjects(catalog.Factors())
		assert.Equal(t, []string{"Lisa", "Polly"}, got)
	})

	t.Run("union across partial rows", func(t *testing.T) {
		factors := []model.RiskFactor{
			{Name: "a", Severity: 1, Scores: map[string]float64{"X": 1}},
			{Name: "b", Severity: 1, Scores: map[string]float64{"Y": 1}},
		}
		assert.Equal(t, []string{"X", "Y"}, Subjects(factors))
	})

	t.Run("empty table", func(t *testing.T) {
		assert.Empty(t, Subjects(nil))
	})
}

func TestWeighted(t *testing.T) {
	factors := catalog.Factors()

	t.Run("Polly", func(t *testing.T) {
		total, details, err := Weighted(factors, "Polly")

		require.NoError(t, err)
		assert.Equal(t, 129.0, total)
		require.Len(t, details, 9)

		// Breakdown follows table order.
		assert.Equal(t, model.FactorWeight{Factor: "Spontaneous Behavior", Weighted: 16}, details[0])
		assert.Equal(t, model.FactorWeight{Factor: "Insurance/Health Coverage", Weighted: 18}, details[2])
		assert.Equal(t, model.FactorWeight{Factor: "Family Health Background", Weighted: 24}, details[8])
	})

	t.Run("Lisa", func(t *testing.T) {
		total, details, err := Weighted(factors, "Lisa")

		require.NoError(t, err)
		assert.Equal(t, -9.0, total)

		// Negative scores reduce the total.
		assert.Equal(t, model.FactorWeight{Factor: "Insurance/Health Coverage", Weighted: -18}, details[2])
		assert.Equal(t, model.FactorWeight{Factor: "Credit Score", Weighted: -14}, details[7])
	})

	t.Run("unknown subject", func(t *testing.T) {
		total, details, err := Weighted(factors, "Reuben")

		assert.ErrorIs(t, err, ErrUnknownSubject)
		assert.Contains(t, err.Error(), "must be one of 'Lisa', 'Polly'")
		assert.Zero(t, total)
		assert.Nil(t, details)
	})

	t.Run("subject match is case-sensitive", func(t *testing.T) {
		_, _, err := Weighted(factors, "polly")
		assert.ErrorIs(t, err, ErrUnknownSubject)
	})
}

func TestAll(t *testing.T) {
	got := All(catalog.Factors())

	require.Len(t, got, 2)
	assert.Equal(t, 129.0, got["Polly"].Total)
	assert.Equal(t, -9.0, got["Lisa"].Total)
	assert.Len(t, got["Polly"].Details, 9)
	assert.Len(t, got["Lisa"].Details, 9)
}
