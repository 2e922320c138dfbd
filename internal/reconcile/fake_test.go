package reconcile

import (
	"context"
	"sync"
	"time"
)

// fakeClient is a deterministic in-memory ProvisioningClient. Call counters
// are exact so tests can lock in the number of control-plane calls each
// reconciler issues.
type fakeClient struct {
	mu sync.Mutex

	enableCalls []string
	enableErr   error

	listCalls int
	// listFn returns the enabled-services listing for the nth list call
	// (1-based). When nil, listing returns the services already enabled via
	// EnableService.
	listFn  func(call int) []string
	listErr error

	describeCalls []string
	descriptions  map[string]string
	describeErr   error

	setPolicyDocs []string
	setPolicyErr  error

	grants   []grant
	grantErr func(role string) error

	projectNumbers map[string]string
	numberErr      error
}

type grant struct {
	role      string
	principal string
}

func (f *fakeClient) EnableService(_ context.Context, _, apiName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.enableErr != nil {
		return f.enableErr
	}
	f.enableCalls = append(f.enableCalls, apiName)
	return nil
}

func (f *fakeClient) ListEnabledServices(_ context.Context, _ string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	if f.listFn != nil {
		return f.listFn(f.listCalls), nil
	}
	return append([]string(nil), f.enableCalls...), nil
}

func (f *fakeClient) DescribeOrgPolicy(_ context.Context, _, policyName string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.describeCalls = append(f.describeCalls, policyName)
	if f.describeErr != nil {
		return "", f.describeErr
	}
	return f.descriptions[policyName], nil
}

func (f *fakeClient) SetOrgPolicy(_ context.Context, policyDocument string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setPolicyErr != nil {
		return f.setPolicyErr
	}
	f.setPolicyDocs = append(f.setPolicyDocs, policyDocument)
	return nil
}

func (f *fakeClient) AddIAMBinding(_ context.Context, _, role, principal string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.grantErr != nil {
		if err := f.grantErr(role); err != nil {
			return err
		}
	}
	f.grants = append(f.grants, grant{role: role, principal: principal})
	return nil
}

func (f *fakeClient) GetProjectNumber(_ context.Context, projectID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.numberErr != nil {
		return "", f.numberErr
	}
	return f.projectNumbers[projectID], nil
}

// fakeClock counts sleeps and returns instantly.
type fakeClock struct {
	mu     sync.Mutex
	sleeps int
	total  time.Duration
}

func (c *fakeClock) Sleep(_ context.Context, d time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sleeps++
	c.total += d
	return nil
}
