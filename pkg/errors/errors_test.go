package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCloneKeepsIdentity(t *testing.T) {
	cloned := Clone(ErrNoFacultyForDepartment, "department has no faculty")

	assert.True(t, stderrors.Is(cloned, ErrNoFacultyForDepartment))
	assert.False(t, stderrors.Is(cloned, ErrNotFound))
	assert.Equal(t, http.StatusNotFound, cloned.Status)
	assert.Equal(t, "department has no faculty", cloned.Message)
	assert.NotEqual(t, cloned.Message, ErrNoFacultyForDepartment.Message)
}

func TestFromErrorWrapsUnknown(t *testing.T) {
	appErr := FromError(fmt.Errorf("boom"))

	assert.Equal(t, ErrInternal.Code, appErr.Code)
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)
	assert.EqualError(t, appErr, "internal server error: boom")
}

func TestFromErrorUnwrapsChain(t *testing.T) {
	wrapped := fmt.Errorf("generate: %w", Clone(ErrInvalidSettings, "bad start"))

	appErr := FromError(wrapped)

	assert.Equal(t, ErrInvalidSettings.Code, appErr.Code)
	assert.Nil(t, FromError(nil))
}
