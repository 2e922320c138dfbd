// Package gcp provides access to the Google Cloud control plane for project
// preparation: service enablement, org policies, IAM bindings, and project
// metadata.
package gcp

import "context"

// ProvisioningClient is the only interface to the cloud control plane.
// Reconcilers depend on it rather than on concrete Google API clients, so
// tests can substitute a fake and exercise the reconciliation logic
// deterministically.
type ProvisioningClient interface {
	// ListEnabledServices returns the names of currently enabled services,
	// e.g. "run.googleapis.com".
	ListEnabledServices(ctx context.Context, projectID string) ([]string, error)

	// EnableService issues an enable request for apiName. The request may
	// not take effect synchronously; callers verify via ListEnabledServices.
	EnableService(ctx context.Context, projectID, apiName string) error

	// DescribeOrgPolicy returns a textual description of the policy's
	// current spec at project scope, or an empty string when no policy is
	// set. Inherited org-level policies are not evaluated.
	DescribeOrgPolicy(ctx context.Context, projectID, policyName string) (string, error)

	// SetOrgPolicy submits a serialized policy document as a full policy
	// replacement.
	SetOrgPolicy(ctx context.Context, policyDocument string) error

	// AddIAMBinding grants role to principal on the project. Re-adding an
	// existing binding is a no-op, not an error.
	AddIAMBinding(ctx context.Context, projectID, role, principal string) error

	// GetProjectNumber resolves the project's numeric id.
	GetProjectNumber(ctx context.Context, projectID string) (string, error)
}
