package cli

import (
	"github.com/spf13/cobra"
	"github.com/theiacloud/theiacloud-go/pkg/theiacloud"
)

func newPingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the service serves the configured application",
		Long: `Check that the service serves the configured application.

The command asks the service whether it knows the configured app id and prints
the answer. The command exits non-zero when the app is not served. A failing
call is reported as an error; it is not retried.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := GetConfig()
			client := newClient(nil)
			ok, err := client.Ping(cmd.Context(), theiacloud.NewPingRequest(cfg.ServiceURL, cfg.AppID))
			if err != nil {
				return err
			}

			if jsonOutput {
				if err := printJSON(cmd.OutOrStdout(), map[string]any{
					"app_id": cfg.AppID,
					"result": ok,
				}); err != nil {
					return err
				}
			} else if ok {
				okLabel.Fprintf(cmd.OutOrStdout(), "Service serves app %s\n", cfg.AppID)
			} else {
				errorLabel.Fprintf(cmd.OutOrStdout(), "Service does not serve app %s\n", cfg.AppID)
			}
			if !ok {
				return ErrAlreadyHandled
			}
			return nil
		},
	}
}
