package cli

import (
	"fmt"
	"strings"

	"github.com/phrazzld/scry-fsrs/internal/domain"
	"github.com/phrazzld/scry-fsrs/internal/domain/fsrs"
	"github.com/spf13/cobra"
)

// ParamsResult is the output of the params command.
type ParamsResult struct {
	RequestRetention    float64           `json:"request_retention"`
	MaximumInterval     int               `json:"maximum_interval"`
	Weights             []float64         `json:"weights"`
	LearningSteps       map[string]string `json:"learning_steps"`
	GraduationThreshold int               `json:"graduation_threshold"`
}

func newParamsResult(p *fsrs.Params) ParamsResult {
	steps := make(map[string]string, len(domain.Ratings))
	for _, rating := range domain.Ratings {
		steps[rating.String()] = p.LearningStep(rating).String()
	}

	return ParamsResult{
		RequestRetention:    p.RequestRetention,
		MaximumInterval:     p.MaximumInterval,
		Weights:             append([]float64(nil), p.W[:]...),
		LearningSteps:       steps,
		GraduationThreshold: p.GraduationThreshold,
	}
}

// String renders the parameters one per line.
func (r ParamsResult) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "request_retention:    %g\n", r.RequestRetention)
	fmt.Fprintf(&b, "maximum_interval:     %d days\n", r.MaximumInterval)
	fmt.Fprintf(&b, "graduation_threshold: %d\n", r.GraduationThreshold)
	b.WriteString("learning_steps:\n")
	for _, rating := range domain.Ratings {
		fmt.Fprintf(&b, "  %-5s %s\n", rating.String(), r.LearningSteps[rating.String()])
	}
	b.WriteString("weights:\n")
	for i, w := range r.Weights {
		fmt.Fprintf(&b, "  w%-2d %g\n", i, w)
	}
	return strings.TrimRight(b.String(), "\n")
}

// NewParamsCommand creates the params command.
func NewParamsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "params",
		Short:         "Print the effective scheduler parameters",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := &OutputFormatter{
				Format:    rootOpts.Format,
				Writer:    cmd.OutOrStdout(),
				ErrWriter: cmd.ErrOrStderr(),
				Verbose:   rootOpts.Verbose,
			}

			params, err := loadParams(rootOpts)
			if err != nil {
				return formatter.Error(ErrCodeConfig, err)
			}

			return formatter.Success(newParamsResult(params))
		},
	}
}
