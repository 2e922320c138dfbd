package reconcile

import (
	"context"
	"log/slog"

	"github.com/cloudprep/cloudprep/internal/config"
	"github.com/cloudprep/cloudprep/internal/gcp"
	"github.com/cloudprep/cloudprep/internal/output"
)

const totalSteps = 4

// Orchestrator sequences the reconcilers over the configured API, policy,
// and role lists. Any component failure halts the whole sequence; nothing
// past the first fatal error runs. Reconciliation is monotonic (only adds
// state), so a failed run leaves the project safely re-runnable.
type Orchestrator struct {
	cfg      *config.Config
	apis     *APIReconciler
	policies *PolicyReconciler
	roles    *RoleGrantor
	builder  *BuilderGrantor
}

// NewOrchestrator wires the reconcilers against one provisioning client.
func NewOrchestrator(cfg *config.Config, client gcp.ProvisioningClient, clock Clock) *Orchestrator {
	return &Orchestrator{
		cfg:      cfg,
		apis:     NewAPIReconciler(client, clock),
		policies: NewPolicyReconciler(client),
		roles:    NewRoleGrantor(client),
		builder:  NewBuilderGrantor(client),
	}
}

// Run executes the full preparation sequence: validate configuration, enable
// each configured API, enforce each org policy, grant the configured roles to
// the deploying principal, and grant the builder defaults once.
func (o *Orchestrator) Run(ctx context.Context) error {
	if err := o.cfg.Validate(); err != nil {
		return err
	}

	slog.Info("preparing project",
		"project_id", o.cfg.ProjectID,
		"apis", len(o.cfg.APIs),
		"policies", len(o.cfg.Policies),
		"roles", len(o.cfg.Roles))

	output.Step(1, totalSteps, "Enabling required APIs")
	for _, api := range o.cfg.APIs {
		output.Infof("Enabling %s...", api)
		state, err := o.apis.EnableAndVerify(ctx, o.cfg.ProjectID, api)
		if err != nil {
			return err
		}
		output.Successf("%s %s", api, state)
	}

	output.Step(2, totalSteps, "Enforcing org policies")
	for _, policy := range o.cfg.Policies {
		if err := o.policies.EnsureRule(ctx, o.cfg.ProjectID, policy); err != nil {
			return err
		}
		output.Successf("policy %s satisfied", policy.Name)
	}

	output.Step(3, totalSteps, "Granting deployer roles")
	if err := o.roles.GrantRoles(ctx, o.cfg.ProjectID, o.cfg.DeployerPrincipal, o.cfg.Roles); err != nil {
		return err
	}
	output.Successf("%d roles granted to %s", len(o.cfg.Roles), o.cfg.DeployerPrincipal)

	output.Step(4, totalSteps, "Granting builder defaults")
	if err := o.builder.GrantBuilderDefaults(ctx, o.cfg.ProjectID); err != nil {
		return err
	}
	output.Successf("builder defaults granted")

	return nil
}
