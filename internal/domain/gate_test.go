package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/openkraft/inspections/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resultWith(errors, warnings int) *domain.AggregatedResult {
	return &domain.AggregatedResult{Counts: domain.Counts{Errors: errors, Warnings: warnings}}
}

func TestParseLimit(t *testing.T) {
	tests := []struct {
		in   string
		want domain.Limit
	}{
		{"", domain.Unbounded},
		{"unbounded", domain.Unbounded},
		{"UNBOUNDED", domain.Unbounded},
		{"-1", domain.Unbounded},
		{"0", 0},
		{" 12 ", 12},
	}
	for _, tt := range tests {
		got, err := domain.ParseLimit(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	for _, bad := range []string{"-2", "many", "1.5"} {
		_, err := domain.ParseLimit(bad)
		assert.Error(t, err, bad)
	}
}

func TestLimit_ExceededIsStrict(t *testing.T) {
	l := domain.Limit(2)
	assert.False(t, l.Exceeded(1))
	assert.False(t, l.Exceeded(2))
	assert.True(t, l.Exceeded(3))

	assert.False(t, domain.Unbounded.Exceeded(1_000_000))
	assert.True(t, domain.Limit(0).Exceeded(1))
}

func TestLimit_JSON(t *testing.T) {
	data, err := json.Marshal(domain.RunOptions{MaxErrors: 3, MaxWarnings: domain.Unbounded})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"max_errors":3`)
	assert.Contains(t, string(data), `"max_warnings":"unbounded"`)

	var opts domain.RunOptions
	require.NoError(t, json.Unmarshal(data, &opts))
	assert.Equal(t, domain.Limit(3), opts.MaxErrors)
	assert.Equal(t, domain.Unbounded, opts.MaxWarnings)
}

func TestGate_Boundary(t *testing.T) {
	opts := domain.RunOptions{MaxErrors: 2, MaxWarnings: 5}

	assert.False(t, domain.Gate(resultWith(2, 5), opts).Exceeded, "equal to the ceiling passes")
	assert.True(t, domain.Gate(resultWith(3, 5), opts).Exceeded)
	assert.True(t, domain.Gate(resultWith(2, 6), opts).Exceeded)
}

func TestGate_CleanRun(t *testing.T) {
	d := domain.Gate(resultWith(0, 0), domain.RunOptions{MaxErrors: 0, MaxWarnings: 0})
	assert.False(t, d.Exceeded)
	assert.Empty(t, d.Breaches)
}

func TestGate_ErrorsOverCeiling(t *testing.T) {
	d := domain.Gate(resultWith(3, 10), domain.RunOptions{MaxErrors: 2, MaxWarnings: domain.Unbounded})
	require.True(t, d.Exceeded)
	require.Len(t, d.Breaches, 1)
	assert.Equal(t, domain.Breach{Severity: domain.SeverityError, Count: 3, Limit: 2}, d.Breaches[0])
	assert.Equal(t, "3 errors exceed the maximum of 2", d.Breaches[0].String())
}

func TestGate_BothTiers(t *testing.T) {
	d := domain.Gate(resultWith(1, 1), domain.RunOptions{MaxErrors: 0, MaxWarnings: 0})
	require.Len(t, d.Breaches, 2)
	assert.Equal(t, domain.SeverityError, d.Breaches[0].Severity)
	assert.Equal(t, "1 warning exceeds the maximum of 0", d.Breaches[1].String())
}

func TestGate_InfosNeverGate(t *testing.T) {
	r := &domain.AggregatedResult{Counts: domain.Counts{Infos: 100}}
	assert.False(t, domain.Gate(r, domain.RunOptions{MaxErrors: 0, MaxWarnings: 0}).Exceeded)
}

func TestGate_IgnoreFailuresDoesNotChangeDecision(t *testing.T) {
	opts := domain.RunOptions{MaxErrors: 0, MaxWarnings: domain.Unbounded, IgnoreFailures: true}
	assert.True(t, domain.Gate(resultWith(1, 0), opts).Exceeded)
}

func TestDefaultRunOptions_Unbounded(t *testing.T) {
	opts := domain.DefaultRunOptions()
	assert.False(t, domain.Gate(resultWith(999, 999), opts).Exceeded)
}
