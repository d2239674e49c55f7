package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"consul-mailer/internal/service/digest"
)

func NewDigestCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "digest",
		Short: "Proposal notification digest",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "run",
		Short: "Send one digest to every subscriber with pending notifications",
		Long: `Send one digest email to every user who receives digests and has
pending notifications on subjects they support. Delivered notifications are
marked emailed; failed recipients keep theirs for the next run.

Example:
  notifyctl digest run
  notifyctl digest run --format json`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withService(cmd.Context(), func(svc digest.Service) error {
				report, err := svc.Run(cmd.Context())
				if err != nil {
					return err
				}
				text := fmt.Sprintf("recipients=%d sent=%d skipped=%d failed=%d delivered=%d",
					report.Recipients, report.Sent, report.Skipped, report.Failed, report.Delivered)
				return opts.print(cmd.OutOrStdout(), report, text)
			})
		},
	})

	return cmd
}
