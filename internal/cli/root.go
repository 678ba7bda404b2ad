package cli

import (
	"github.com/spf13/cobra"
)

func NewRoot() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "restbook",
		Short:         "Restaurant booking tools",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(NewOffsetCmd())
	cmd.AddCommand(NewValidateCmd())
	cmd.AddCommand(NewDemoCmd())
	cmd.AddCommand(NewKeygenCmd())
	return cmd
}
