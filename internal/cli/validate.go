package cli

import (
	"fmt"
	"strings"

	"github.com/arnavshah/restbook-api-go/pkg/models"
	"github.com/spf13/cobra"
)

// NewValidateCmd checks opening hours given as "start/end" pairs.
func NewValidateCmd() *cobra.Command {
	var tables []int

	cmd := &cobra.Command{
		Use:     "validate <start/end>...",
		Short:   "Validate opening hours and table sizes",
		Example: `  restbook validate "Monday 17.00/Monday 23.00" "Tuesday 17.00/Tuesday 23.00" --tables 2,4`,
		RunE: func(cmd *cobra.Command, args []string) error {
			hours := make(models.OpeningHours, 0, len(args))
			for _, arg := range args {
				start, end, ok := strings.Cut(arg, "/")
				if !ok {
					return fmt.Errorf("period %q must be written as start/end", arg)
				}
				p, err := models.ParsePeriod(strings.TrimSpace(start), strings.TrimSpace(end))
				if err != nil {
					return err
				}
				hours = append(hours, p)
			}

			if err := models.ValidateTables(tables); err != nil {
				return err
			}
			if err := hours.Validate(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "valid: %d periods, %d tables\n", len(hours), len(tables))
			for _, p := range hours {
				fmt.Fprintf(out, "  %s\n", p)
			}
			return nil
		},
	}
	cmd.Flags().IntSliceVar(&tables, "tables", nil, "table capacities, e.g. 2,2,4,6")
	return cmd
}
