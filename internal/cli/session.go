package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/theiacloud/theiacloud-go/pkg/theiacloud"
)

func newSessionCmd() *cobra.Command {
	sessionCmd := &cobra.Command{
		Use:   "session [command]",
		Short: "Manage the sessions of a user",
		Long: `List, start and stop the sessions of a user.
A session is a running Theia instance, optionally bound to a workspace.

Available Commands:
  list      List the sessions of a user
  start     Start a session
  stop      Stop a session
  activity  Report activity on a session to keep it alive`,
	}
	sessionCmd.AddCommand(newSessionListCmd(), newSessionStartCmd(), newSessionStopCmd(), newSessionActivityCmd())
	return sessionCmd
}

func newSessionListCmd() *cobra.Command {
	var user string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the sessions of a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := resolveUser(user)
			if err != nil {
				return err
			}
			sessions, err := newClient(nil).ListSessions(cmd.Context(), theiacloud.SessionListRequest{
				ServiceRequest: serviceRequest(),
				AppID:          GetConfig().AppID,
				User:           u,
			})
			if err != nil {
				return err
			}

			if jsonOutput {
				return printJSON(cmd.OutOrStdout(), map[string]any{
					"result": 1,
					"value":  sessions,
				})
			}
			out := cmd.OutOrStdout()
			printSectionHeader(out, "sessions", len(sessions))
			if len(sessions) == 0 {
				return nil
			}
			tbl := newTable(out, "Name", "App Definition", "Workspace", "URL", "Last Activity")
			for _, s := range sessions {
				tbl.AddRow(s.Name, s.AppDefinition, s.Workspace, s.URL, formatActivity(s.LastActivity))
			}
			tbl.Print()
			return nil
		},
	}
	cmd.Flags().StringVarP(&user, "user", "u", "", "User whose sessions are listed (default from config)")
	return cmd
}

func formatActivity(ms int64) string {
	if ms <= 0 {
		return ""
	}
	return time.UnixMilli(ms).Local().Format(time.DateTime)
}

func newSessionStartCmd() *cobra.Command {
	var (
		user          string
		appDefinition string
		workspace     string
		timeout       int
	)
	cmd := &cobra.Command{
		Use:   "start [flags]",
		Short: "Start a session",
		Long: `Start a session for a user without opening it.

Examples:
  # Start a session of the configured app definition
  theiacloud session start

  # Start a session on an existing workspace
  theiacloud session start --workspace ws-1234 --app-definition theia-cloud-demo`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := resolveUser(user)
			if err != nil {
				return err
			}
			if appDefinition == "" {
				appDefinition = GetConfig().AppDefinition
			}
			req := theiacloud.SessionStartRequest{
				ServiceRequest: serviceRequest(),
				AppID:          GetConfig().AppID,
				User:           u,
				AppDefinition:  appDefinition,
				WorkspaceName:  workspace,
			}
			if timeout > 0 {
				req.Timeout = &timeout
			}
			rsp, err := newClient(nil).StartSession(cmd.Context(), req)
			if err != nil {
				return err
			}

			if jsonOutput {
				return printJSON(cmd.OutOrStdout(), rsp)
			}
			if !rsp.Success {
				return fmt.Errorf("session could not be started: %s", rsp.Error)
			}
			okLabel.Fprintf(cmd.OutOrStdout(), "Session started: https://%s\n", rsp.URL)
			return nil
		},
	}
	cmd.Flags().StringVarP(&user, "user", "u", "", "User to start the session for (default from config)")
	cmd.Flags().StringVarP(&appDefinition, "app-definition", "a", "", "App definition of the session (default from config)")
	cmd.Flags().StringVarP(&workspace, "workspace", "w", "", "Workspace to start the session on")
	cmd.Flags().IntVar(&timeout, "session-timeout", 0, "Minutes the service waits for the session to come up")
	return cmd
}

func newSessionStopCmd() *cobra.Command {
	var user string
	cmd := &cobra.Command{
		Use:   "stop SESSION_NAME",
		Short: "Stop a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := resolveUser(user)
			if err != nil {
				return err
			}
			stopped, err := newClient(nil).StopSession(cmd.Context(), theiacloud.SessionStopRequest{
				ServiceRequest: serviceRequest(),
				AppID:          GetConfig().AppID,
				User:           u,
				SessionName:    args[0],
			})
			if err != nil {
				return err
			}
			return reportResult(cmd, stopped, "Session "+args[0]+" stopped", "session "+args[0]+" was not stopped")
		},
	}
	cmd.Flags().StringVarP(&user, "user", "u", "", "Owner of the session (default from config)")
	return cmd
}

func newSessionActivityCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "activity SESSION_NAME",
		Short: "Report activity on a session to keep it alive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reported, err := newClient(nil).ReportSessionActivity(cmd.Context(), theiacloud.SessionActivityRequest{
				ServiceRequest: serviceRequest(),
				AppID:          GetConfig().AppID,
				SessionName:    args[0],
			})
			if err != nil {
				return err
			}
			return reportResult(cmd, reported, "Activity reported for "+args[0], "activity for "+args[0]+" was not accepted")
		},
	}
}

// reportResult prints the outcome of a boolean service call. A false result
// is returned as an error carrying failMsg.
func reportResult(cmd *cobra.Command, result bool, okMsg, failMsg string) error {
	if jsonOutput {
		if err := printJSON(cmd.OutOrStdout(), map[string]bool{"result": result}); err != nil {
			return err
		}
		if !result {
			return ErrAlreadyHandled
		}
		return nil
	}
	if !result {
		return errors.New(failMsg)
	}
	okLabel.Fprintln(cmd.OutOrStdout(), okMsg)
	return nil
}
