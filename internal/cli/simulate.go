package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/phrazzld/scry-fsrs/internal/domain"
	"github.com/phrazzld/scry-fsrs/internal/domain/fsrs"
	"github.com/spf13/cobra"
)

// SimulateOptions holds the flags of the simulate command.
type SimulateOptions struct {
	Ratings []string
	Gap     time.Duration
	OnDue   bool
	Start   string
}

// SimulationStep is the card after one review of a simulation.
type SimulationStep struct {
	Review         int       `json:"review"`
	ReviewedAt     time.Time `json:"reviewed_at"`
	Rating         string    `json:"rating"`
	State          string    `json:"state"`
	Difficulty     float64   `json:"difficulty"`
	Stability      float64   `json:"stability"`
	Retrievability float64   `json:"retrievability"`
	ElapsedDays    float64   `json:"elapsed_days"`
	ScheduledDays  float64   `json:"scheduled_days"`
	Reps           int       `json:"reps"`
	Lapses         int       `json:"lapses"`
	DueAt          time.Time `json:"due_at"`
	Interval       string    `json:"interval"`
}

// SimulationResult is the output of the simulate command.
type SimulationResult struct {
	Start time.Time        `json:"start"`
	Steps []SimulationStep `json:"steps"`
	Final domain.CardState `json:"final"`
}

// String renders the simulation as a table.
func (r SimulationResult) String() string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, "#\tREVIEWED\tRATING\tSTATE\tD\tS\tR\tNEXT\tDUE")
	for _, s := range r.Steps {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%.2f\t%.2f\t%.3f\t%s\t%s\n",
			s.Review,
			s.ReviewedAt.Format(time.RFC3339),
			s.Rating,
			s.State,
			s.Difficulty,
			s.Stability,
			s.Retrievability,
			s.Interval,
			s.DueAt.Format(time.RFC3339),
		)
	}
	_ = w.Flush()

	return strings.TrimRight(b.String(), "\n")
}

// NewSimulateCommand creates the simulate command.
func NewSimulateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SimulateOptions{}

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Replay a rating sequence through the scheduler",
		Long: `Replay a rating sequence on a fresh card and print the card after each review.

Reviews are spaced --gap apart, or with --on-due each review happens when
the card falls due. Ratings are names (again, hard, good, easy) or numbers 1-4.`,
		Example: `  fsrs simulate --ratings good,good,again,good --gap 24h
  fsrs simulate --ratings easy,good,good --on-due --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(rootOpts, opts, cmd)
		},
	}

	cmd.Flags().StringSliceVarP(&opts.Ratings, "ratings", "r", nil, "comma-separated ratings to replay")
	cmd.Flags().DurationVar(&opts.Gap, "gap", 24*time.Hour, "time between reviews")
	cmd.Flags().BoolVar(&opts.OnDue, "on-due", false, "review each time the card falls due instead of every --gap")
	cmd.Flags().StringVar(&opts.Start, "start", "", "RFC 3339 time of the first review (default now)")
	_ = cmd.MarkFlagRequired("ratings")

	return cmd
}

func runSimulate(rootOpts *RootOptions, opts *SimulateOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    rootOpts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   rootOpts.Verbose,
	}

	ratings, err := parseRatings(opts.Ratings)
	if err != nil {
		return formatter.Error(ErrCodeInvalidInput, err)
	}

	if opts.Gap < 0 {
		return formatter.Error(ErrCodeInvalidInput, fmt.Errorf("gap %s must not be negative", opts.Gap))
	}

	start := time.Now().UTC().Truncate(time.Second)
	if opts.Start != "" {
		start, err = time.Parse(time.RFC3339, opts.Start)
		if err != nil {
			return formatter.Error(ErrCodeInvalidInput, fmt.Errorf("invalid --start: %w", err))
		}
	}

	params, err := loadParams(rootOpts)
	if err != nil {
		return formatter.Error(ErrCodeConfig, err)
	}

	formatter.VerboseLog("Simulating %d review(s) from %s (retention %.2f, max interval %d days)",
		len(ratings), start.Format(time.RFC3339), params.RequestRetention, params.MaximumInterval)

	return formatter.Success(Simulate(params, ratings, start, opts.Gap, opts.OnDue))
}

// Simulate replays ratings on a new card. The first review happens at start;
// each later one happens gap after the previous review, or at the card's due
// time when onDue is set.
func Simulate(params *fsrs.Params, ratings []domain.Rating, start time.Time, gap time.Duration, onDue bool) SimulationResult {
	state := domain.NewCardState(start)
	now := start
	steps := make([]SimulationStep, 0, len(ratings))

	for i, rating := range ratings {
		if i > 0 {
			if onDue {
				if state.DueAt.After(now) {
					now = state.DueAt
				}
			} else {
				now = now.Add(gap)
			}
		}

		state = fsrs.Schedule(params, state, rating, now)

		steps = append(steps, SimulationStep{
			Review:         i + 1,
			ReviewedAt:     now,
			Rating:         rating.String(),
			State:          string(state.State),
			Difficulty:     state.Difficulty,
			Stability:      state.Stability,
			Retrievability: state.Retrievability,
			ElapsedDays:    state.ElapsedDays,
			ScheduledDays:  state.ScheduledDays,
			Reps:           state.Reps,
			Lapses:         state.Lapses,
			DueAt:          state.DueAt,
			Interval:       formatInterval(state.DueAt.Sub(now)),
		})
	}

	return SimulationResult{Start: start, Steps: steps, Final: state}
}

func parseRatings(raw []string) ([]domain.Rating, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("at least one rating is required")
	}

	ratings := make([]domain.Rating, 0, len(raw))
	for _, s := range raw {
		rating, err := domain.ParseRating(s)
		if err != nil {
			return nil, err
		}
		ratings = append(ratings, rating)
	}
	return ratings, nil
}

// formatInterval prints d in the largest whole unit among minutes, hours and
// days.
func formatInterval(d time.Duration) string {
	switch {
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}
