package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/arnavshah/restbook-api-go/pkg/weektime"
	"github.com/spf13/cobra"
)

// NewOffsetCmd converts between minute offsets and "DayName HH.MM".
func NewOffsetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "offset <minutes | DayName HH.MM>",
		Short:   "Convert between minute offsets and week times",
		Example: "  restbook offset 1020\n  restbook offset Monday 17.00",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value := strings.Join(args, " ")
			if n, err := strconv.Atoi(value); err == nil {
				o, err := weektime.FromMinutes(n)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), o)
				return nil
			}
			o, err := weektime.Parse(value)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), int(o))
			return nil
		},
	}
}
