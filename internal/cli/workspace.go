package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/theiacloud/theiacloud-go/pkg/theiacloud"
)

func newWorkspaceCmd() *cobra.Command {
	workspaceCmd := &cobra.Command{
		Use:   "workspace [command]",
		Short: "Manage the workspaces of a user",
		Long: `List, create and delete the persistent workspaces of a user.

Available Commands:
  list    List the workspaces of a user
  create  Create a workspace
  delete  Delete a workspace and its sessions`,
	}
	workspaceCmd.AddCommand(newWorkspaceListCmd(), newWorkspaceCreateCmd(), newWorkspaceDeleteCmd())
	return workspaceCmd
}

func newWorkspaceListCmd() *cobra.Command {
	var user string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the workspaces of a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := resolveUser(user)
			if err != nil {
				return err
			}
			workspaces, err := newClient(nil).ListWorkspaces(cmd.Context(), theiacloud.WorkspaceListRequest{
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
					"value":  workspaces,
				})
			}
			out := cmd.OutOrStdout()
			printSectionHeader(out, "workspaces", len(workspaces))
			if len(workspaces) == 0 {
				return nil
			}
			tbl := newTable(out, "Name", "Label", "App Definition", "Active")
			for _, ws := range workspaces {
				tbl.AddRow(ws.Name, ws.Label, ws.AppDefinition, yesNo(ws.Active))
			}
			tbl.Print()
			return nil
		},
	}
	cmd.Flags().StringVarP(&user, "user", "u", "", "User whose workspaces are listed (default from config)")
	return cmd
}

func newWorkspaceCreateCmd() *cobra.Command {
	var (
		user          string
		appDefinition string
		label         string
	)
	cmd := &cobra.Command{
		Use:   "create [flags]",
		Short: "Create a workspace",
		Long: `Create a persistent workspace without starting a session on it.

Examples:
  theiacloud workspace create --label "My project"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := resolveUser(user)
			if err != nil {
				return err
			}
			if appDefinition == "" {
				appDefinition = GetConfig().AppDefinition
			}
			rsp, err := newClient(nil).CreateWorkspace(cmd.Context(), theiacloud.WorkspaceCreationRequest{
				ServiceRequest: serviceRequest(),
				AppID:          GetConfig().AppID,
				User:           u,
				AppDefinition:  appDefinition,
				Label:          label,
			})
			if err != nil {
				return err
			}

			if jsonOutput {
				return printJSON(cmd.OutOrStdout(), rsp)
			}
			if !rsp.Success || rsp.Workspace == nil {
				return fmt.Errorf("workspace could not be created: %s", rsp.Error)
			}
			okLabel.Fprintf(cmd.OutOrStdout(), "Workspace created: %s\n", rsp.Workspace.Name)
			return nil
		},
	}
	cmd.Flags().StringVarP(&user, "user", "u", "", "Owner of the workspace (default from config)")
	cmd.Flags().StringVarP(&appDefinition, "app-definition", "a", "", "App definition of the workspace (default from config)")
	cmd.Flags().StringVar(&label, "label", "", "Display label of the workspace")
	return cmd
}

func newWorkspaceDeleteCmd() *cobra.Command {
	var user string
	cmd := &cobra.Command{
		Use:   "delete WORKSPACE_NAME",
		Short: "Delete a workspace and its sessions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := resolveUser(user)
			if err != nil {
				return err
			}
			deleted, err := newClient(nil).DeleteWorkspace(cmd.Context(), theiacloud.WorkspaceDeletionRequest{
				ServiceRequest: serviceRequest(),
				AppID:          GetConfig().AppID,
				User:           u,
				WorkspaceName:  args[0],
			})
			if err != nil {
				return err
			}
			return reportResult(cmd, deleted, "Workspace "+args[0]+" deleted", "workspace "+args[0]+" was not deleted")
		},
	}
	cmd.Flags().StringVarP(&user, "user", "u", "", "Owner of the workspace (default from config)")
	return cmd
}
