package reconcile

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	apperrors "github.com/cloudprep/cloudprep/internal/errors"

	"github.com/cloudprep/cloudprep/internal/config"
	"github.com/cloudprep/cloudprep/internal/gcp"
)

// PolicyReconciler idempotently ensures an org policy rule is present at
// project scope, applying it only when absent. It never removes or replaces
// an existing rule.
//
// Known limitation: policies inherited from a parent organization or folder
// are not evaluated; only the project-level spec is described. A rule already
// satisfied at a parent scope will still be set on the project.
type PolicyReconciler struct {
	client gcp.ProvisioningClient
}

// NewPolicyReconciler builds a PolicyReconciler.
func NewPolicyReconciler(client gcp.ProvisioningClient) *PolicyReconciler {
	return &PolicyReconciler{client: client}
}

// policyDocument is the wire shape submitted as a full policy replacement.
type policyDocument struct {
	Name string             `json:"name"`
	Spec policyDocumentSpec `json:"spec"`
}

type policyDocumentSpec struct {
	Rules []map[string]any `json:"rules"`
}

// EnsureRule describes the policy at project scope and, when the expected
// rule pattern is absent, submits a policy document installing the rule.
// When the pattern is already present no mutating call is made.
func (r *PolicyReconciler) EnsureRule(ctx context.Context, projectID string, policy config.OrgPolicy) error {
	description, err := r.client.DescribeOrgPolicy(ctx, projectID, policy.Name)
	if err != nil {
		return fmt.Errorf("describe org policy %s: %w", policy.Name, err)
	}

	if strings.Contains(description, policy.RulePattern) {
		slog.Debug("org policy already satisfied", "policy", policy.Name, "pattern", policy.RulePattern)
		return nil
	}

	document, err := buildPolicyDocument(projectID, policy)
	if err != nil {
		return fmt.Errorf("build policy document for %s: %w", policy.Name, err)
	}

	if err := r.client.SetOrgPolicy(ctx, document); err != nil {
		return apperrors.ErrPolicyEnforcementFailure(policy.Name, err)
	}

	slog.Debug("org policy rule installed", "policy", policy.Name)
	return nil
}

// buildPolicyDocument renders the full-replacement policy document:
// {"name":"projects/<id>/policies/<name>","spec":{"rules":[{<rule>}]}}
func buildPolicyDocument(projectID string, policy config.OrgPolicy) (string, error) {
	doc := policyDocument{
		Name: fmt.Sprintf("projects/%s/policies/%s", projectID, policy.Name),
		Spec: policyDocumentSpec{
			Rules: []map[string]any{policy.Rule},
		},
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
