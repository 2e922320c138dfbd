package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func captureStderr(t *testing.T, fn func()) string {
	t.Helper()

	var buf bytes.Buffer
	orig := Stderr
	Stderr = &buf
	defer func() { Stderr = orig }()

	fn()
	return buf.String()
}

func TestSuccessf(t *testing.T) {
	out := captureStderr(t, func() {
		Successf("API %s enabled", "run.googleapis.com")
	})

	assert.Contains(t, out, "✓")
	assert.Contains(t, out, "API run.googleapis.com enabled")
}

func TestErrorfAndHintf(t *testing.T) {
	out := captureStderr(t, func() {
		Errorf("could not set org policy %s", "iam.allowedPolicyMemberDomains")
		Hintf("contact your organization administrator")
	})

	assert.Contains(t, out, "✗")
	assert.Contains(t, out, "iam.allowedPolicyMemberDomains")
	assert.Contains(t, out, "contact your organization administrator")
}

func TestStep(t *testing.T) {
	out := captureStderr(t, func() {
		Step(2, 4, "Enforcing org policies")
	})

	assert.Contains(t, out, "[2/4]")
	assert.Contains(t, out, "Enforcing org policies")
}

func TestKeyValue(t *testing.T) {
	out := captureStderr(t, func() {
		KeyValue("Project", "my-project")
	})

	assert.Contains(t, out, "Project")
	assert.Contains(t, out, "my-project")
}
