package errorutil

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainErrorPassesThroughWrappedDomainError(t *testing.T) {
	base := NewInvalidCredentials("")
	wrapped := fmt.Errorf("login: %w", base)

	de := ToDomainError(wrapped)
	require.NotNil(t, de)
	assert.Equal(t, CodeInvalidCredentials, de.Code)
	assert.Equal(t, http.StatusUnauthorized, de.HTTPStatus)
	assert.Equal(t, "invalid credentials", de.Message)
}

func TestToDomainErrorMapsDeadlineToTimeout(t *testing.T) {
	de := ToDomainError(fmt.Errorf("fetch: %w", context.DeadlineExceeded))
	require.NotNil(t, de)
	assert.Equal(t, CodeTimeout, de.Code)
	assert.ErrorIs(t, de, context.DeadlineExceeded)
}

func TestToDomainErrorDefaultsToInternal(t *testing.T) {
	de := ToDomainError(errors.New("boom"))
	require.NotNil(t, de)
	assert.Equal(t, CodeInternal, de.Code)
	assert.Equal(t, http.StatusInternalServerError, de.HTTPStatus)
	assert.Nil(t, ToDomainError(nil))
}

func TestCodeHelpers(t *testing.T) {
	err := NewNetworkError(errors.New("connection refused"))

	assert.Equal(t, CodeNetwork, CodeOf(err))
	assert.True(t, HasCode(err, CodeNetwork))
	assert.False(t, HasCode(err, CodeTimeout))
	assert.False(t, HasCode(errors.New("plain"), CodeInternal))
	assert.Equal(t, "", CodeOf(nil))
	assert.Contains(t, err.Error(), "connection refused")
}
