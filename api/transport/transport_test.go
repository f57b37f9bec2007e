package transport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/social/domain"
)

func TestDecodeValidRequest(t *testing.T) {
	var req RegisterRequest
	err := Decode([]byte(`{"first_name":"Ada","email":"ada@example.com","password":"secret1"}`), &req)
	require.NoError(t, err)
	assert.Equal(t, "Ada", req.FirstName)
}

func TestDecodeReportsFieldsByJSONName(t *testing.T) {
	var req RegisterRequest
	err := Decode([]byte(`{"email":"not-an-email","password":"123"}`), &req)
	require.Error(t, err)

	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
	assert.ErrorIs(t, err, domain.ErrInvalidPayload)
	assert.Contains(t, err.Error(), "first_name is required")
	assert.Contains(t, err.Error(), "email must be a valid email")
	assert.Contains(t, err.Error(), "password must be at least 6 characters")
}

func TestDecodeMalformedBody(t *testing.T) {
	var req PostRequest
	err := Decode([]byte(`{"text":`), &req)
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
}

func TestManagerRoleIsRestricted(t *testing.T) {
	assert.NoError(t, Validate(ManagerRequest{UserID: "u1"}))
	assert.NoError(t, Validate(ManagerRequest{UserID: "u1", Role: "mod"}))
	assert.Error(t, Validate(ManagerRequest{UserID: "u1", Role: "owner"}))
}

func TestSkillList(t *testing.T) {
	req := ProfileRequest{Skills: " go, sql ,, redis"}
	assert.Equal(t, []string{"go", "sql", "redis"}, req.SkillList())
}
