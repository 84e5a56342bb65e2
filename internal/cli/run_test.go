package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunPipelineFailureReturnsError(t *testing.T) {
	t.Setenv("DOCFLOW_DB_PATH", filepath.Join(t.TempDir(), "metadata.db"))
	t.Setenv("DOCFLOW_ENV", "development")

	// Unknown pipeline: the trigger reports a failed result, which must come
	// back as an error so main sets the exit code after deferred cleanup ran.
	err := runPipeline(9999)

	assert.ErrorIs(t, err, errRunFailed)
}
