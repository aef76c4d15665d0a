package validate

import (
	"errors"
	"testing"

	"github.com/hr-compass/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStruct_Valid(t *testing.T) {
	assert.NoError(t, Struct(domain.IssueOTPRequest{Email: "a@b.com", Action: "signup"}))
	assert.NoError(t, Struct(domain.IssueOTPRequest{Email: "a@b.com"}))
}

func TestStruct_MissingEmail(t *testing.T) {
	err := Struct(domain.IssueOTPRequest{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
	assert.Equal(t, "Email is required", err.Error())
}

func TestStruct_BadEmail(t *testing.T) {
	err := Struct(domain.CheckUserRequest{Email: "not-an-email"})
	require.Error(t, err)
	assert.Equal(t, "Invalid email address.", err.Error())
}

func TestStruct_UnknownAction(t *testing.T) {
	err := Struct(domain.IssueOTPRequest{Email: "a@b.com", Action: "reset"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "signup, verify-login")
}
