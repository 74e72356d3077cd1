package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yi-nology/itam/pkg/common"
)

func TestNewTokenManagerRequiresSecret(t *testing.T) {
	_, err := NewTokenManager("  ", time.Hour)
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestIssueAndParse(t *testing.T) {
	m, err := NewTokenManager("test-secret", time.Hour)
	require.NoError(t, err)

	token, err := m.Issue(common.Principal{AdminID: 3, Username: "kim", Name: "Kim", Role: "ADMIN"})
	require.NoError(t, err)

	p, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, uint(3), p.AdminID)
	assert.Equal(t, "kim", p.Username)
	assert.Equal(t, "ADMIN", p.Role)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	m, err := NewTokenManager("test-secret", time.Hour)
	require.NoError(t, err)
	issued := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return issued }

	token, err := m.Issue(common.Principal{AdminID: 1, Username: "root", Role: "SUPER_ADMIN"})
	require.NoError(t, err)

	m.now = func() time.Time { return issued.Add(2 * time.Hour) }
	_, err = m.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsForeignSecret(t *testing.T) {
	issuer, err := NewTokenManager("secret-a", time.Hour)
	require.NoError(t, err)
	verifier, err := NewTokenManager("secret-b", time.Hour)
	require.NoError(t, err)

	token, err := issuer.Issue(common.Principal{AdminID: 1})
	require.NoError(t, err)
	_, err = verifier.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExtractToken(t *testing.T) {
	assert.Equal(t, "abc", ExtractToken("Bearer abc", "cookie"))
	assert.Equal(t, "abc", ExtractToken("bearer  abc ", ""))
	assert.Equal(t, "cookie", ExtractToken("", "cookie"))
	assert.Equal(t, "cookie", ExtractToken("Basic xyz", "cookie"))
	assert.Equal(t, "", ExtractToken("", ""))
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret!")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "s3cret!"))
	assert.False(t, CheckPassword(hash, "wrong"))
	assert.False(t, CheckPassword("not-a-hash", "s3cret!"))
}
