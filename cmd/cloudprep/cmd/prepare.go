package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/cloudprep/cloudprep/internal/config"
	"github.com/cloudprep/cloudprep/internal/constants"
	"github.com/cloudprep/cloudprep/internal/gcp"
	"github.com/cloudprep/cloudprep/internal/output"
	"github.com/cloudprep/cloudprep/internal/preflight"
	"github.com/cloudprep/cloudprep/internal/reconcile"
)

var (
	prepareProjectID         string
	prepareDeployerPrincipal string
	prepareAPIsFile          string
	prepareRolesFile         string
	preparePoliciesFile      string
)

var prepareCmd = &cobra.Command{
	Use:   "prepare",
	Short: "Enable APIs, enforce policies, and grant roles on a project",
	Long: `Prepare runs the full preparation sequence against the target project:

  1. Enable every API listed in the APIs file and wait for each to activate
  2. Enforce the configured organization policies (skipping satisfied ones)
  3. Grant the configured roles to the deployer principal
  4. Grant build defaults to the project's compute service account

The sequence stops at the first failure so later steps never run against a
half-prepared project.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := preflight.Check(constants.RequiredExecutables); err != nil {
			return err
		}

		cfg, err := config.LoadWithOptions(config.Options{
			ProjectID:         prepareProjectID,
			DeployerPrincipal: prepareDeployerPrincipal,
			APIsFile:          prepareAPIsFile,
			RolesFile:         prepareRolesFile,
			PoliciesFile:      preparePoliciesFile,
		})
		if err != nil {
			return err
		}

		ctx := cmd.Context()

		client, err := gcp.NewClient(ctx)
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := client.Close(); closeErr != nil {
				slog.Warn("error closing client", "error", closeErr)
			}
		}()

		output.Header(output.Bold(constants.ProjectName) + " " + *constants.GetVersion())
		output.KeyValue("Project", cfg.ProjectID)
		output.KeyValue("Deployer", cfg.DeployerPrincipal)
		output.Blank()

		o := reconcile.NewOrchestrator(cfg, client, reconcile.NewClock())
		return o.Run(ctx)
	},
}

func init() {
	prepareCmd.Flags().StringVar(&prepareProjectID, "project-id", "", "Target project ID (overrides CLOUDPREP_PROJECT_ID)")
	prepareCmd.Flags().StringVar(&prepareDeployerPrincipal, "deployer-principal", "", "Deployer service account email (overrides CLOUDPREP_DEPLOYER_PRINCIPAL)")
	prepareCmd.Flags().StringVar(&prepareAPIsFile, "apis-file", "", "Path to the API list file")
	prepareCmd.Flags().StringVar(&prepareRolesFile, "roles-file", "", "Path to the role list file")
	prepareCmd.Flags().StringVar(&preparePoliciesFile, "policies-file", "", "Path to the org policy manifest (YAML)")

	rootCmd.AddCommand(prepareCmd)
}
