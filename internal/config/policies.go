package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// OrgPolicy describes one org policy rule to enforce: the policy to inspect,
// the text fragment expected in its description when the rule is already
// satisfied, and the rule body to install when it is absent.
type OrgPolicy struct {
	Name        string         `yaml:"name"`
	RulePattern string         `yaml:"rule_pattern"`
	Rule        map[string]any `yaml:"rule"`
}

type policyManifest struct {
	Policies []OrgPolicy `yaml:"policies"`
}

// DefaultOrgPolicies is the built-in policy set applied when no manifest is
// configured. Public Cloud Run services need the domain-restriction
// constraint relaxed before an allUsers invoker binding can be created.
func DefaultOrgPolicies() []OrgPolicy {
	return []OrgPolicy{
		{
			Name:        "iam.allowedPolicyMemberDomains",
			RulePattern: "allowAll",
			Rule:        map[string]any{"allowAll": true},
		},
	}
}

// LoadPolicies loads the org policy manifest from path, or returns the
// built-in defaults when path is empty.
func LoadPolicies(path string) ([]OrgPolicy, error) {
	if path == "" {
		return DefaultOrgPolicies(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading policy manifest %s: %w", path, err)
	}

	var manifest policyManifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("error parsing policy manifest %s: %w", path, err)
	}

	for i, p := range manifest.Policies {
		if p.Name == "" {
			return nil, fmt.Errorf("policy manifest %s: entry %d has no name", path, i)
		}
		if p.RulePattern == "" {
			return nil, fmt.Errorf("policy manifest %s: policy %s has no rule_pattern", path, p.Name)
		}
	}

	return manifest.Policies, nil
}
