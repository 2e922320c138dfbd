package gcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	resourcemanager "cloud.google.com/go/resourcemanager/apiv3"
	"cloud.google.com/go/resourcemanager/apiv3/resourcemanagerpb"
	"google.golang.org/api/cloudresourcemanager/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/orgpolicy/v2"
	"google.golang.org/api/serviceusage/v1"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Client implements ProvisioningClient against the Google Cloud APIs.
type Client struct {
	serviceUsage    *serviceusage.Service
	orgPolicy       *orgpolicy.Service
	resourceManager *cloudresourcemanager.Service
	projects        *resourcemanager.ProjectsClient
}

var _ ProvisioningClient = (*Client)(nil)

// NewClient builds a Client backed by the Google Cloud APIs using
// application-default credentials.
func NewClient(ctx context.Context) (*Client, error) {
	serviceUsageSvc, err := serviceusage.NewService(ctx)
	if err != nil {
		return nil, fmt.Errorf("create service usage service: %w", err)
	}

	orgPolicySvc, err := orgpolicy.NewService(ctx)
	if err != nil {
		return nil, fmt.Errorf("create org policy service: %w", err)
	}

	rmSvc, err := cloudresourcemanager.NewService(ctx)
	if err != nil {
		return nil, fmt.Errorf("create resource manager service: %w", err)
	}

	projectsClient, err := resourcemanager.NewProjectsClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create projects client: %w", err)
	}

	return &Client{
		serviceUsage:    serviceUsageSvc,
		orgPolicy:       orgPolicySvc,
		resourceManager: rmSvc,
		projects:        projectsClient,
	}, nil
}

// Close releases the underlying gRPC connection.
func (c *Client) Close() error {
	if c.projects == nil {
		return nil
	}
	return c.projects.Close()
}

// ListEnabledServices returns the config names of all enabled services.
func (c *Client) ListEnabledServices(ctx context.Context, projectID string) ([]string, error) {
	parent := "projects/" + projectID

	var names []string
	err := c.serviceUsage.Services.List(parent).
		Filter("state:ENABLED").
		Pages(ctx, func(page *serviceusage.ListServicesResponse) error {
			for _, svc := range page.Services {
				names = append(names, serviceConfigName(svc))
			}
			return nil
		})
	if err != nil {
		return nil, wrapError("list enabled services", err)
	}

	return names, nil
}

// EnableService issues an enable request without waiting for the resulting
// operation; enablement is verified by polling ListEnabledServices.
func (c *Client) EnableService(ctx context.Context, projectID, apiName string) error {
	name := fmt.Sprintf("projects/%s/services/%s", projectID, apiName)

	_, err := c.serviceUsage.Services.Enable(name, &serviceusage.EnableServiceRequest{}).
		Context(ctx).
		Do()
	return wrapError("enable service", err)
}

// DescribeOrgPolicy returns the JSON rendering of the project-scope policy,
// or an empty string when no policy is set on the project.
func (c *Client) DescribeOrgPolicy(ctx context.Context, projectID, policyName string) (string, error) {
	name := fmt.Sprintf("projects/%s/policies/%s", projectID, policyName)

	policy, err := c.orgPolicy.Projects.Policies.Get(name).Context(ctx).Do()
	if isNotFound(err) {
		return "", nil
	}
	if err != nil {
		return "", wrapError("describe org policy", err)
	}

	data, err := json.Marshal(policy)
	if err != nil {
		return "", fmt.Errorf("render org policy: %w", err)
	}
	return string(data), nil
}

// SetOrgPolicy submits the serialized policy document as a full replacement.
// Creates the policy when none exists, otherwise patches it.
func (c *Client) SetOrgPolicy(ctx context.Context, policyDocument string) error {
	var policy orgpolicy.GoogleCloudOrgpolicyV2Policy
	if err := json.Unmarshal([]byte(policyDocument), &policy); err != nil {
		return fmt.Errorf("parse policy document: %w", err)
	}

	parent, err := policyParent(policy.Name)
	if err != nil {
		return err
	}

	_, err = c.orgPolicy.Projects.Policies.Create(parent, &policy).Context(ctx).Do()
	if isAlreadyExists(err) {
		_, err = c.orgPolicy.Projects.Policies.Patch(policy.Name, &policy).Context(ctx).Do()
	}
	return wrapError("set org policy", err)
}

// AddIAMBinding grants role to principal on the project's IAM policy.
// The read-modify-write keeps the call additive: an existing binding is left
// untouched and re-submitting it is a no-op.
func (c *Client) AddIAMBinding(ctx context.Context, projectID, role, principal string) error {
	resource := "projects/" + projectID
	member := memberFor(principal)

	policy, err := c.resourceManager.Projects.GetIamPolicy(resource, &cloudresourcemanager.GetIamPolicyRequest{}).
		Context(ctx).
		Do()
	if err != nil {
		return wrapError("get project iam policy", err)
	}

	if !bindingExists(policy.Bindings, role, member) {
		policy.Bindings = append(policy.Bindings, &cloudresourcemanager.Binding{
			Role:    role,
			Members: []string{member},
		})
	}

	_, err = c.resourceManager.Projects.SetIamPolicy(
		resource,
		&cloudresourcemanager.SetIamPolicyRequest{Policy: policy},
	).Context(ctx).Do()
	return wrapError("set project iam policy", err)
}

// GetProjectNumber resolves the numeric id from the project resource name.
func (c *Client) GetProjectNumber(ctx context.Context, projectID string) (string, error) {
	req := &resourcemanagerpb.GetProjectRequest{
		Name: "projects/" + projectID,
	}

	project, err := c.projects.GetProject(ctx, req)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return "", fmt.Errorf("project %s not found: %w", projectID, err)
		}
		return "", wrapError("get project", err)
	}

	number := strings.TrimPrefix(project.Name, "projects/")
	if number == "" || number == project.Name {
		return "", fmt.Errorf("unexpected project resource name %q", project.Name)
	}

	return number, nil
}

// serviceConfigName extracts the service config name ("run.googleapis.com")
// from a listed service, falling back to the tail of the resource name.
func serviceConfigName(svc *serviceusage.GoogleApiServiceusageV1Service) string {
	if svc.Config != nil && svc.Config.Name != "" {
		return svc.Config.Name
	}
	if idx := strings.LastIndex(svc.Name, "/"); idx >= 0 {
		return svc.Name[idx+1:]
	}
	return svc.Name
}

// policyParent derives the parent resource ("projects/<id>") from a policy
// name ("projects/<id>/policies/<constraint>").
func policyParent(name string) (string, error) {
	parts := strings.Split(name, "/")
	if len(parts) != 4 || parts[0] != "projects" || parts[2] != "policies" {
		return "", fmt.Errorf("invalid policy name %q", name)
	}
	return parts[0] + "/" + parts[1], nil
}

// memberFor qualifies a bare service-account email as an IAM member.
// Already-qualified members (user:, group:, serviceAccount:, domain:) pass
// through unchanged.
func memberFor(principal string) string {
	if strings.Contains(principal, ":") {
		return principal
	}
	return "serviceAccount:" + principal
}

func bindingExists(bindings []*cloudresourcemanager.Binding, role, member string) bool {
	for _, b := range bindings {
		if b.Role != role {
			continue
		}
		for _, m := range b.Members {
			if m == member {
				return true
			}
		}
	}
	return false
}

func wrapError(action string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", action, err)
}

func isNotFound(err error) bool {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusNotFound
	}
	return false
}

func isAlreadyExists(err error) bool {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusConflict
	}
	return false
}
