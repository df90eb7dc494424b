package auth

import (
	"testing"
	"time"

	"go-pos-lite/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	iss := NewIssuer("test-secret", time.Hour)
	token, err := iss.GenerateToken(models.User{ID: "2", Name: "John Cashier", Role: models.RoleCashier})
	require.NoError(t, err)

	claims, err := iss.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "2", claims.UserID)
	assert.Equal(t, "John Cashier", claims.Name)
	assert.Equal(t, models.RoleCashier, claims.Role)
}

func TestTokenRejectsOtherSecretAndExpiry(t *testing.T) {
	iss := NewIssuer("test-secret", time.Hour)
	token, err := iss.GenerateToken(models.User{ID: "1", Role: models.RoleAdmin})
	require.NoError(t, err)

	_, err = NewIssuer("other-secret", time.Hour).ValidateToken(token)
	assert.Error(t, err)

	later := NewIssuer("test-secret", time.Hour)
	later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = later.ValidateToken(token)
	assert.Error(t, err)
}
