package preflight

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/cloudprep/cloudprep/internal/errors"

	"github.com/cloudprep/cloudprep/internal/constants"
)

func TestCheck_AllPresent(t *testing.T) {
	// sh is present on any platform these tests run on.
	require.NoError(t, Check([]string{"sh"}))
}

func TestCheck_EmptyListIsNoOp(t *testing.T) {
	require.NoError(t, Check(nil))
}

func TestCheck_MissingExecutableExitsThree(t *testing.T) {
	err := Check([]string{"sh", "definitely-not-a-real-tool-4a1b"})

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeMissingDependency, apperrors.GetErrorCode(err))
	assert.Equal(t, constants.ExitMissingDependency, apperrors.GetExitCode(err))
	assert.Contains(t, err.Error(), "definitely-not-a-real-tool-4a1b")
}
