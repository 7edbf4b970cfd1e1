package readthis_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/fwojciec/readthis"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := readthis.Errorf(readthis.EINVALIDREF, "document %q not found", "test")

	assert.Equal(t, readthis.EINVALIDREF, readthis.ErrorCode(err))
	assert.Equal(t, "document \"test\" not found", readthis.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, readthis.ErrorCode(nil))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, readthis.ErrorMessage(nil))
}

func TestErrorCode_NonApplicationError(t *testing.T) {
	t.Parallel()

	err := errors.New("disk on fire")

	assert.Equal(t, readthis.EINTERNAL, readthis.ErrorCode(err))
	assert.Equal(t, "Internal error.", readthis.ErrorMessage(err))
}

func TestHTTPStatusError(t *testing.T) {
	t.Parallel()

	err := readthis.HTTPStatusError(404, "http://example/a.html")

	assert.Equal(t, readthis.EHTTPSTATUS, readthis.ErrorCode(err))
	assert.Equal(t, 404, readthis.ErrorStatus(err))
	assert.Contains(t, err.Error(), "404")
}

func TestAtStage(t *testing.T) {
	t.Parallel()

	t.Run("tags error with stage and keeps code", func(t *testing.T) {
		t.Parallel()

		err := readthis.AtStage(readthis.StageFetch, readthis.HTTPStatusError(500, "http://x"))

		assert.Equal(t, readthis.StageFetch, readthis.ErrorStage(err))
		assert.Equal(t, readthis.EHTTPSTATUS, readthis.ErrorCode(err))
		assert.Equal(t, 500, readthis.ErrorStatus(err))
		assert.Contains(t, err.Error(), "fetch:")
	})

	t.Run("stage survives further wrapping", func(t *testing.T) {
		t.Parallel()

		err := fmt.Errorf("outer: %w", readthis.AtStage(readthis.StageExtract, readthis.Errorf(readthis.ENOCONTENT, "none")))

		assert.Equal(t, readthis.StageExtract, readthis.ErrorStage(err))
		assert.Equal(t, readthis.ENOCONTENT, readthis.ErrorCode(err))
	})

	t.Run("returns nil for nil error", func(t *testing.T) {
		t.Parallel()

		assert.NoError(t, readthis.AtStage(readthis.StageResolve, nil))
	})

	t.Run("untagged error has empty stage", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, readthis.ErrorStage(errors.New("x")))
	})
}
