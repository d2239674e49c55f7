package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"consul-mailer/internal/service/digest"
)

func NewLedgerCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Notification ledger maintenance",
	}

	cmd.AddCommand(&cobra.Command{
		Use:          "expire",
		Short:        "Expire pending notifications older than the retention period",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withService(cmd.Context(), func(svc digest.Service) error {
				expired, err := svc.Expire(cmd.Context())
				if err != nil {
					return err
				}
				return opts.print(cmd.OutOrStdout(), map[string]int64{"expired": expired}, fmt.Sprintf("expired=%d", expired))
			})
		},
	})

	return cmd
}
