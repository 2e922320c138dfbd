package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	apperrors "github.com/cloudprep/cloudprep/internal/errors"

	"github.com/cloudprep/cloudprep/internal/constants"
	"github.com/cloudprep/cloudprep/internal/gcp"
)

// APIState is the observed enablement state of an API endpoint.
// Transitions are forward-only; this system never disables an API.
type APIState int

const (
	// StateUnknown means the API has not been inspected yet.
	StateUnknown APIState = iota
	// StateEnabling means the enable request was issued but enablement is
	// not yet confirmed.
	StateEnabling
	// StateEnabled means the API was observed in the enabled-services list.
	StateEnabled
	// StateTimedOut means the poll budget was exhausted without observing
	// the API enabled.
	StateTimedOut
)

func (s APIState) String() string {
	switch s {
	case StateEnabling:
		return "enabling"
	case StateEnabled:
		return "enabled"
	case StateTimedOut:
		return "timed out"
	default:
		return "unknown"
	}
}

// APIReconciler enables a named API and polls until it is observed enabled
// or the retry budget is exhausted.
type APIReconciler struct {
	client      gcp.ProvisioningClient
	clock       Clock
	interval    time.Duration
	maxAttempts int
}

// NewAPIReconciler builds an APIReconciler with the standard poll budget.
func NewAPIReconciler(client gcp.ProvisioningClient, clock Clock) *APIReconciler {
	return &APIReconciler{
		client:      client,
		clock:       clock,
		interval:    constants.APIPollInterval,
		maxAttempts: constants.APIPollMaxAttempts,
	}
}

// EnableAndVerify issues one enable request for apiName, then polls the
// enabled-services list until apiName appears or the budget is exhausted.
// The enable request is fire-and-forget: the control plane may apply it
// asynchronously, so only the listing is trusted. Exhausting the budget is
// fatal for the run (ApiEnablementTimeout).
func (r *APIReconciler) EnableAndVerify(ctx context.Context, projectID, apiName string) (APIState, error) {
	if err := r.client.EnableService(ctx, projectID, apiName); err != nil {
		return StateUnknown, fmt.Errorf("enable %s: %w", apiName, err)
	}

	slog.Debug("enable request issued", "api", apiName, "project_id", projectID)

	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		services, err := r.client.ListEnabledServices(ctx, projectID)
		if err != nil {
			return StateEnabling, fmt.Errorf("verify %s: %w", apiName, err)
		}

		if containsServiceFold(services, apiName) {
			slog.Debug("api observed enabled", "api", apiName, "attempt", attempt)
			return StateEnabled, nil
		}

		if attempt < r.maxAttempts {
			if err := r.clock.Sleep(ctx, r.interval); err != nil {
				return StateEnabling, err
			}
		}
	}

	return StateTimedOut, apperrors.ErrAPIEnablementTimeout(apiName, r.maxAttempts)
}

// containsServiceFold reports whether apiName appears in the listing,
// case-insensitively and as a substring: control-plane listing output format
// varies (bare names, full resource names, mixed case).
func containsServiceFold(services []string, apiName string) bool {
	needle := strings.ToLower(apiName)
	for _, svc := range services {
		if strings.Contains(strings.ToLower(svc), needle) {
			return true
		}
	}
	return false
}
