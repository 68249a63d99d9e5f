package cli

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/phrazzld/scry-fsrs/internal/domain"
	"github.com/phrazzld/scry-fsrs/internal/domain/fsrs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testStart = "2025-01-01T09:00:00Z"

type simulateResponse struct {
	Status string           `json:"status"`
	Data   SimulationResult `json:"data"`
}

func runSimulateJSON(t *testing.T, args ...string) SimulationResult {
	t.Helper()
	out, err := execute(t, append([]string{"simulate", "--format", "json", "--start", testStart}, args...)...)
	require.NoError(t, err)

	var resp simulateResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Equal(t, "ok", resp.Status)
	return resp.Data
}

func TestSimulateCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	sim, _, err := cmd.Find([]string{"simulate"})
	require.NoError(t, err)

	ratings := sim.Flags().Lookup("ratings")
	require.NotNil(t, ratings)
	assert.Equal(t, "r", ratings.Shorthand)

	gap := sim.Flags().Lookup("gap")
	require.NotNil(t, gap)
	assert.Equal(t, "24h0m0s", gap.DefValue)

	require.NotNil(t, sim.Flags().Lookup("on-due"))
	require.NotNil(t, sim.Flags().Lookup("start"))
}

func TestSimulate_OnDueGraduation(t *testing.T) {
	result := runSimulateJSON(t, "--ratings", "good,good", "--on-due")

	require.Len(t, result.Steps, 2)

	first := result.Steps[0]
	assert.Equal(t, "good", first.Rating)
	assert.Equal(t, string(domain.StateLearning), first.State)
	assert.InDelta(t, 10.0/(24*60), first.ScheduledDays, 1e-9)
	assert.Equal(t, "10m", first.Interval)

	second := result.Steps[1]
	assert.Equal(t, first.DueAt, second.ReviewedAt, "on-due reviews happen at the due time")
	assert.Equal(t, string(domain.StateReview), second.State)
	assert.Equal(t, 4.0, second.ScheduledDays)
	assert.Equal(t, "4d", second.Interval)
	assert.InDelta(t, 3.735, second.Stability, 0.01)

	assert.Equal(t, domain.StateReview, result.Final.State)
	assert.Equal(t, 2, result.Final.Reps)
}

func TestSimulate_GapGrowsStability(t *testing.T) {
	onDue := runSimulateJSON(t, "--ratings", "good,good", "--on-due")
	gapped := runSimulateJSON(t, "--ratings", "good,good", "--gap", "24h")

	require.Len(t, gapped.Steps, 2)
	start, err := time.Parse(time.RFC3339, testStart)
	require.NoError(t, err)
	assert.True(t, gapped.Steps[1].ReviewedAt.Equal(start.Add(24*time.Hour)))
	assert.Greater(t, gapped.Final.ScheduledDays, onDue.Final.ScheduledDays)
	assert.Greater(t, gapped.Final.Stability, onDue.Final.Stability)
}

func TestSimulate_LapseCounted(t *testing.T) {
	result := runSimulateJSON(t, "--ratings", "easy,again", "--on-due")

	require.Len(t, result.Steps, 2)
	assert.Equal(t, string(domain.StateReview), result.Steps[0].State)
	assert.Equal(t, string(domain.StateRelearning), result.Steps[1].State)
	assert.Equal(t, 1, result.Final.Lapses)
	assert.Equal(t, "1m", result.Steps[1].Interval)
}

func TestSimulate_NumericRatings(t *testing.T) {
	result := runSimulateJSON(t, "--ratings", "3,4")

	require.Len(t, result.Steps, 2)
	assert.Equal(t, "good", result.Steps[0].Rating)
	assert.Equal(t, "easy", result.Steps[1].Rating)
}

func TestSimulate_ConfigFileCapsInterval(t *testing.T) {
	path := writeConfig(t, "scheduler:\n  maximum_interval: 2\n")

	result := runSimulateJSON(t, "--ratings", "easy", "--config", path)

	require.Len(t, result.Steps, 1)
	assert.Equal(t, 2.0, result.Final.ScheduledDays)
}

func TestSimulate_TextOutput(t *testing.T) {
	out, err := execute(t, "simulate", "--ratings", "good,good", "--on-due", "--start", testStart)

	require.NoError(t, err)
	assert.Contains(t, out, "RATING")
	assert.Contains(t, out, "learning")
	assert.Contains(t, out, "review")
	assert.Contains(t, out, "4d")
}

func TestSimulate_InvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{
			name:    "unknown rating",
			args:    []string{"--ratings", "good,perfect"},
			wantErr: "perfect",
		},
		{
			name:    "rating out of range",
			args:    []string{"--ratings", "5"},
			wantErr: "invalid rating",
		},
		{
			name:    "negative gap",
			args:    []string{"--ratings", "good", "--gap", "-1h"},
			wantErr: "must not be negative",
		},
		{
			name:    "bad start",
			args:    []string{"--ratings", "good", "--start", "yesterday"},
			wantErr: "invalid --start",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, append([]string{"simulate"}, tt.args...)...)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
		})
	}
}

func TestSimulate_InvalidInputJSON(t *testing.T) {
	out, err := execute(t, "simulate", "--format", "json", "--ratings", "meh")

	require.Error(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeInvalidInput, resp.Error.Code)
}

func TestSimulate_RequiresRatings(t *testing.T) {
	_, err := execute(t, "simulate")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "ratings")
}

func TestSimulateDoesNotMutateAcrossSteps(t *testing.T) {
	t.Parallel()
	start := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	params := fsrs.NewDefaultParams()

	result := Simulate(params, []domain.Rating{domain.RatingGood, domain.RatingGood, domain.RatingGood}, start, 0, true)

	require.Len(t, result.Steps, 3)
	for i := 1; i < len(result.Steps); i++ {
		assert.False(t, result.Steps[i].ReviewedAt.Before(result.Steps[i-1].ReviewedAt))
		assert.GreaterOrEqual(t, result.Steps[i].Reps, result.Steps[i-1].Reps)
	}
	assert.Equal(t, 3, result.Final.Reps)
}

func TestFormatInterval(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   time.Duration
		want string
	}{
		{in: time.Minute, want: "1m"},
		{in: 10 * time.Minute, want: "10m"},
		{in: time.Hour, want: "1h"},
		{in: 23 * time.Hour, want: "23h"},
		{in: 24 * time.Hour, want: "1d"},
		{in: 96 * time.Hour, want: "4d"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, formatInterval(tt.in))
		})
	}
}
