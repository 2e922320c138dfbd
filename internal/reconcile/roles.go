package reconcile

import (
	"context"
	"log/slog"

	apperrors "github.com/cloudprep/cloudprep/internal/errors"

	"github.com/cloudprep/cloudprep/internal/gcp"
)

// RoleGrantor grants a list of roles to a principal, one binding call per
// role, in list order. It does not pre-check existing bindings: correctness
// relies on the control plane's additive-binding semantics (re-adding an
// existing binding is a no-op, not an error).
type RoleGrantor struct {
	client gcp.ProvisioningClient
}

// NewRoleGrantor builds a RoleGrantor.
func NewRoleGrantor(client gcp.ProvisioningClient) *RoleGrantor {
	return &RoleGrantor{client: client}
}

// GrantRoles grants each role to principal in order. The first failure
// aborts the batch; there is no partial-success bookkeeping or rollback,
// so callers must treat the whole batch as failed.
func (g *RoleGrantor) GrantRoles(ctx context.Context, projectID, principal string, roles []string) error {
	for _, role := range roles {
		if err := g.client.AddIAMBinding(ctx, projectID, role, principal); err != nil {
			return apperrors.ErrGrantFailure(role, principal, err)
		}
		slog.Debug("role granted", "role", role, "principal", principal)
	}
	return nil
}
