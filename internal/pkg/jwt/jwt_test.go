package jwt

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	svc := New("test-secret-123", time.Hour)

	token, err := svc.GenerateToken(Claims{Kind: "user", UserID: 42, Username: "ann", Role: "employee", EmployeeID: 7})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user", claims.Kind)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "ann", claims.Username)
	assert.Equal(t, "employee", claims.Role)
	assert.Equal(t, int64(7), claims.EmployeeID)
	assert.NotEmpty(t, claims.ID)
}

func TestValidate_WrongSecret(t *testing.T) {
	token, err := New("one", time.Hour).GenerateToken(Claims{Kind: "admin", Username: "admin"})
	require.NoError(t, err)

	_, err = New("two", time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidate_Tampered(t *testing.T) {
	svc := New("secret", time.Hour)
	userToken, err := svc.GenerateToken(Claims{Kind: "user", UserID: 5, Username: "bob", Role: "user"})
	require.NoError(t, err)
	adminToken, err := svc.GenerateToken(Claims{Kind: "admin", Username: "admin"})
	require.NoError(t, err)

	// admin payload with the user signature
	u := strings.Split(userToken, ".")
	a := strings.Split(adminToken, ".")
	forged := u[0] + "." + a[1] + "." + u[2]

	_, err = svc.ValidateToken(forged)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidate_Expired(t *testing.T) {
	svc := New("secret", time.Minute)
	issued := time.Now().Add(-time.Hour)
	svc.now = func() time.Time { return issued }

	token, err := svc.GenerateToken(Claims{Kind: "admin", Username: "admin"})
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
