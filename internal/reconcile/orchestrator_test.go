package reconcile

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/cloudprep/cloudprep/internal/errors"

	"github.com/cloudprep/cloudprep/internal/config"
	"github.com/cloudprep/cloudprep/internal/constants"
	"github.com/cloudprep/cloudprep/internal/output"
)

func silenceOutput(t *testing.T) {
	t.Helper()
	orig := output.Stderr
	output.Stderr = &bytes.Buffer{}
	t.Cleanup(func() { output.Stderr = orig })
}

func testConfig() *config.Config {
	return &config.Config{
		ProjectID:         "my-project",
		DeployerPrincipal: deployer,
		APIsFile:          "apis.txt",
		RolesFile:         "roles.txt",
		APIs:              []string{"run.googleapis.com", "iam.googleapis.com"},
		Roles:             []string{"roles/run.admin"},
		Policies:          config.DefaultOrgPolicies(),
	}
}

func TestOrchestrator_EndToEndSuccess(t *testing.T) {
	silenceOutput(t)

	client := &fakeClient{
		// Listing reflects enable calls immediately, so each API verifies on
		// its first poll.
		descriptions: map[string]string{
			"iam.allowedPolicyMemberDomains": `{"spec":{"rules":[{"allowAll":true}]}}`,
		},
		projectNumbers: map[string]string{"my-project": "555"},
	}
	o := NewOrchestrator(testConfig(), client, &fakeClock{})

	err := o.Run(context.Background())
	require.NoError(t, err)

	// One enable and one verification pass per configured API.
	assert.Equal(t, []string{"run.googleapis.com", "iam.googleapis.com"}, client.enableCalls)
	assert.Equal(t, 2, client.listCalls)

	// Policy already satisfied: zero set calls.
	assert.Empty(t, client.setPolicyDocs)

	// One deployer role plus three builder defaults.
	require.Len(t, client.grants, 4)
	assert.Equal(t, grant{role: "roles/run.admin", principal: deployer}, client.grants[0])
	assert.Equal(t, "555-compute@developer.gserviceaccount.com", client.grants[1].principal)
}

func TestOrchestrator_APITimeoutAbortsRun(t *testing.T) {
	silenceOutput(t)

	cfg := testConfig()
	cfg.APIs = []string{"fake.api"}

	client := &fakeClient{
		listFn:         func(int) []string { return []string{"run.googleapis.com"} },
		projectNumbers: map[string]string{"my-project": "555"},
	}
	clock := &fakeClock{}
	o := NewOrchestrator(cfg, client, clock)

	err := o.Run(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "fake.api")
	assert.Equal(t, constants.ExitEnforcementFailure, apperrors.GetExitCode(err))
	assert.Equal(t, constants.APIPollMaxAttempts, client.listCalls)

	// Fail-fast: nothing past the first fatal error runs.
	assert.Empty(t, client.describeCalls)
	assert.Empty(t, client.grants)
}

func TestOrchestrator_PolicyFailureStopsBeforeGrants(t *testing.T) {
	silenceOutput(t)

	client := &fakeClient{
		setPolicyErr:   assert.AnError,
		projectNumbers: map[string]string{"my-project": "555"},
	}
	o := NewOrchestrator(testConfig(), client, &fakeClock{})

	err := o.Run(context.Background())

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodePolicyEnforcementFailure, apperrors.GetErrorCode(err))
	assert.Empty(t, client.grants)
}

func TestOrchestrator_MissingProjectIDExitsTwo(t *testing.T) {
	silenceOutput(t)

	cfg := testConfig()
	cfg.ProjectID = ""
	o := NewOrchestrator(cfg, &fakeClient{}, &fakeClock{})

	err := o.Run(context.Background())

	require.Error(t, err)
	assert.Equal(t, constants.ExitMissingVariable, apperrors.GetExitCode(err))
}

func TestOrchestrator_GrantFailureSurfaces(t *testing.T) {
	silenceOutput(t)

	client := &fakeClient{
		descriptions: map[string]string{
			"iam.allowedPolicyMemberDomains": "allowAll",
		},
		projectNumbers: map[string]string{"my-project": "555"},
		grantErr: func(role string) error {
			if role == "roles/run.admin" {
				return assert.AnError
			}
			return nil
		},
	}
	o := NewOrchestrator(testConfig(), client, &fakeClock{})

	err := o.Run(context.Background())

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeGrantFailure, apperrors.GetErrorCode(err))
	// Builder defaults never attempted after the deployer grant fails.
	assert.Empty(t, client.grants)
}
