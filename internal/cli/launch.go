package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"github.com/theiacloud/theiacloud-go/internal/common/browser"
	"github.com/theiacloud/theiacloud-go/pkg/theiacloud"
)

// capturingNavigator remembers the session URL before passing it on.
type capturingNavigator struct {
	next theiacloud.Navigator
	url  string
}

func (n *capturingNavigator) Navigate(ctx context.Context, url string) error {
	n.url = url
	if n.next == nil {
		return nil
	}
	return n.next.Navigate(ctx, url)
}

type launchFlags struct {
	ephemeral      bool
	create         bool
	workspace      string
	label          string
	appDefinition  string
	user           string
	retries        int
	sessionTimeout int
	noBrowser      bool
}

// buildLaunchRequest picks the launch variant from the flags.
func (f *launchFlags) buildLaunchRequest(cfg *Config) (theiacloud.LaunchRequest, error) {
	if f.ephemeral && (f.create || f.workspace != "") {
		return theiacloud.LaunchRequest{}, errors.New("--ephemeral cannot be combined with --create or --workspace")
	}
	if f.label != "" && !f.create {
		return theiacloud.LaunchRequest{}, errors.New("--label requires --create")
	}

	appDefinition := f.appDefinition
	if appDefinition == "" {
		appDefinition = cfg.AppDefinition
	}
	user := f.user
	if user == "" {
		user = cfg.User
	}

	var opts []theiacloud.LaunchOption
	if user != "" {
		opts = append(opts, theiacloud.WithUser(user))
	}
	if f.sessionTimeout > 0 {
		opts = append(opts, theiacloud.WithLaunchTimeout(f.sessionTimeout))
	}

	if f.workspace != "" && !f.create {
		if appDefinition != "" {
			opts = append(opts, theiacloud.WithAppDefinition(appDefinition))
		}
		return theiacloud.ExistingWorkspaceLaunch(cfg.ServiceURL, cfg.AppID, f.workspace, opts...), nil
	}

	if appDefinition == "" {
		return theiacloud.LaunchRequest{}, errors.New("app definition is required, pass --app-definition or run \"theiacloud config set app_definition <name>\"")
	}
	if f.create {
		if f.workspace != "" {
			opts = append(opts, theiacloud.WithWorkspaceName(f.workspace))
		}
		if f.label != "" {
			opts = append(opts, theiacloud.WithLabel(f.label))
		}
		return theiacloud.CreateWorkspaceLaunch(cfg.ServiceURL, cfg.AppID, appDefinition, opts...), nil
	}
	return theiacloud.EphemeralLaunch(cfg.ServiceURL, cfg.AppID, appDefinition, opts...), nil
}

func newLaunchCmd() *cobra.Command {
	var f launchFlags

	launchCmd := &cobra.Command{
		Use:   "launch [flags]",
		Short: "Launch a session and open it in the browser",
		Long: `Launch a session and open it in the browser.

Without flags an ephemeral session is started. With --create a new workspace is
created and a session is started on it; --workspace launches an existing
workspace, or names the new one together with --create.

Failed launches are retried --retries times, immediately and without backoff.

Examples:
  # Launch an ephemeral session
  theiacloud launch --app-definition theia-cloud-demo

  # Create a workspace and launch it, retrying twice
  theiacloud launch --create --label "My project" --retries 2

  # Launch an existing workspace and print the URL instead of opening it
  theiacloud launch --workspace ws-1234 --no-browser`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := GetConfig()
			req, err := f.buildLaunchRequest(cfg)
			if err != nil {
				return err
			}

			retries := f.retries
			if !cmd.Flags().Changed("retries") {
				retries = cfg.Retries
			}

			nav := &capturingNavigator{next: systemNavigator}
			if f.noBrowser {
				nav.next = browser.Writer{W: cmd.OutOrStdout()}
			}
			if jsonOutput {
				nav.next = nil
			}

			if err := newClient(nav).Launch(cmd.Context(), req, retries); err != nil {
				return err
			}

			if jsonOutput {
				return printJSON(cmd.OutOrStdout(), map[string]any{
					"result": 1,
					"value": map[string]any{
						"url":       nav.url,
						"user":      req.User,
						"ephemeral": req.IsEphemeral(),
					},
				})
			}
			if !f.noBrowser {
				okLabel.Fprintf(cmd.OutOrStdout(), "Session launched for %s: %s\n", req.User, nav.url)
			}
			return nil
		},
	}

	launchCmd.Flags().BoolVar(&f.ephemeral, "ephemeral", false, "Launch a session without a persistent workspace (default)")
	launchCmd.Flags().BoolVar(&f.create, "create", false, "Create a new workspace and launch it")
	launchCmd.Flags().StringVarP(&f.workspace, "workspace", "w", "", "Workspace to launch, or the name of the workspace created with --create")
	launchCmd.Flags().StringVar(&f.label, "label", "", "Label of the workspace created with --create")
	launchCmd.Flags().StringVarP(&f.appDefinition, "app-definition", "a", "", "App definition to launch (default from config)")
	launchCmd.Flags().StringVarP(&f.user, "user", "u", "", "User to launch for (default from config, else a generated user)")
	launchCmd.Flags().IntVarP(&f.retries, "retries", "r", 0, "Additional launch attempts (default from config)")
	launchCmd.Flags().IntVar(&f.sessionTimeout, "session-timeout", 0, "Minutes the service waits for the session to come up")
	launchCmd.Flags().BoolVar(&f.noBrowser, "no-browser", false, "Print the session URL instead of opening it")
	return launchCmd
}
