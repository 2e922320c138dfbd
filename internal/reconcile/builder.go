package reconcile

import (
	"context"
	"fmt"
	"log/slog"

	apperrors "github.com/cloudprep/cloudprep/internal/errors"

	"github.com/cloudprep/cloudprep/internal/constants"
	"github.com/cloudprep/cloudprep/internal/gcp"
)

// BuilderGrantor grants the minimal role set to the implicit build service
// account. The platform no longer grants these to the Compute Engine default
// identity, so a build pipeline that writes logs and pushes artifacts fails
// without them.
type BuilderGrantor struct {
	client gcp.ProvisioningClient
	roles  *RoleGrantor
}

// NewBuilderGrantor builds a BuilderGrantor.
func NewBuilderGrantor(client gcp.ProvisioningClient) *BuilderGrantor {
	return &BuilderGrantor{
		client: client,
		roles:  NewRoleGrantor(client),
	}
}

// DeriveComputeServicePrincipal derives the implicit Compute Engine default
// service account email from a project number.
func DeriveComputeServicePrincipal(projectNumber string) string {
	return projectNumber + constants.ComputeServiceAccountSuffix
}

// GrantBuilderDefaults resolves the project number, derives the implicit
// build principal, and grants it the fixed builder role set.
func (g *BuilderGrantor) GrantBuilderDefaults(ctx context.Context, projectID string) error {
	number, err := g.client.GetProjectNumber(ctx, projectID)
	if err != nil {
		return &apperrors.AppError{
			Code:     apperrors.ErrCodeGrantFailure,
			Message:  fmt.Sprintf("could not resolve project number for %s", projectID),
			Hint:     "verify the project exists and your credentials can read it",
			ExitCode: constants.ExitEnforcementFailure,
			Cause:    err,
		}
	}

	principal := DeriveComputeServicePrincipal(number)
	slog.Debug("granting builder defaults", "principal", principal, "project_id", projectID)

	return g.roles.GrantRoles(ctx, projectID, principal, constants.BuilderDefaultRoles)
}
