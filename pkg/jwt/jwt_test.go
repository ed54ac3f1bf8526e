package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateParse_RoundTrip(t *testing.T) {
	tok, err := Generate("secret", "user-1", "bodeguero", "idp", 5)
	require.NoError(t, err)

	userID, role, err := Parse("secret", "idp", tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
	assert.Equal(t, "bodeguero", role)
}

func TestParse_Rejects(t *testing.T) {
	tok, err := Generate("secret", "user-1", "admin", "idp", 5)
	require.NoError(t, err)

	_, _, err = Parse("otro", "", tok)
	assert.Error(t, err, "firma incorrecta")

	_, _, err = Parse("secret", "otro-emisor", tok)
	assert.Error(t, err, "emisor distinto")

	expired, err := Generate("secret", "user-1", "admin", "", -1)
	require.NoError(t, err)
	_, _, err = Parse("secret", "", expired)
	assert.Error(t, err, "expirado")

	_, _, err = Parse("", "", tok)
	assert.Error(t, err)
}
