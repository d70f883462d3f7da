package apperrors_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/usamajaved138/erp-frontend/internal/apperrors"
)

func TestTypedErrorsMatchSentinels(t *testing.T) {
	netErr := apperrors.NewNetworkError("fetchAccounts", context.DeadlineExceeded)
	assert.True(t, errors.Is(netErr, apperrors.ErrNetwork))
	assert.True(t, errors.Is(netErr, context.DeadlineExceeded))
	assert.False(t, errors.Is(netErr, apperrors.ErrServerRejection))

	rejection := fmt.Errorf("create account: %w", apperrors.NewServerRejection(422, "Account name already exists"))
	assert.True(t, errors.Is(rejection, apperrors.ErrServerRejection))
	assert.False(t, errors.Is(rejection, apperrors.ErrNetwork))
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{
			name: "server rejection is verbatim",
			err:  fmt.Errorf("wrapped: %w", apperrors.NewServerRejection(400, "Account name already exists")),
			want: "Account name already exists",
		},
		{
			name: "server rejection without message",
			err:  apperrors.NewServerRejection(500, "  "),
			want: "The server rejected the request.",
		},
		{
			name: "network",
			err:  apperrors.NewNetworkError("updateAccount", errors.New("connection refused")),
			want: "Unable to reach the server. Check your connection and try again.",
		},
		{
			name: "invalid parent",
			err:  fmt.Errorf("parent 999: %w", apperrors.ErrInvalidParentReference),
			want: "The selected parent account no longer exists. Reload and choose another parent.",
		},
		{
			name: "validation keeps detail",
			err:  fmt.Errorf("%w: account name is required", apperrors.ErrValidation),
			want: "validation error: account name is required",
		},
		{name: "unknown", err: errors.New("boom"), want: "Something went wrong. Please try again."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, apperrors.UserMessage(tt.err))
		})
	}
}

func TestServerRejectionErrorFallsBackToStatusText(t *testing.T) {
	err := apperrors.NewServerRejection(404, "")
	assert.Equal(t, "server rejected the request (status 404): Not Found", err.Error())
}
