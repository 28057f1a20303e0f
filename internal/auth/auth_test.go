package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-12345"

func testSubject() Subject {
	return Subject{
		UserID:      "u-42",
		ClubID:      "club-1",
		Email:       "coach@example.com",
		Role:        "coach",
		Permissions: []string{PermPrivateLessonArea},
	}
}

func TestHashPassword(t *testing.T) {
	t.Run("Successfully hash password", func(t *testing.T) {
		password := "mySecurePassword123"
		hashed, err := HashPassword(password)

		assert.NoError(t, err)
		assert.NotEmpty(t, hashed)
		assert.NotEqual(t, password, hashed)
	})

	t.Run("Different hashes for same password", func(t *testing.T) {
		hash1, _ := HashPassword("samePassword")
		hash2, _ := HashPassword("samePassword")

		assert.NotEqual(t, hash1, hash2)
	})
}

func TestCheckPassword(t *testing.T) {
	hashed, _ := HashPassword("correctPassword")

	assert.True(t, CheckPassword(hashed, "correctPassword"))
	assert.False(t, CheckPassword(hashed, "wrongPassword"))
	assert.False(t, CheckPassword(hashed, ""))
}

func TestGenerateAccessToken(t *testing.T) {
	t.Run("Token contains correct claims", func(t *testing.T) {
		token, err := GenerateAccessToken(testSubject(), testSecret)
		require.NoError(t, err)

		claims, err := ValidateToken(token, testSecret)
		require.NoError(t, err)

		assert.Equal(t, "u-42", claims.UserID)
		assert.Equal(t, "club-1", claims.ClubID)
		assert.Equal(t, "coach", claims.Role)
		assert.Equal(t, []string{PermPrivateLessonArea}, claims.Permissions)
		assert.Equal(t, "access", claims.TokenType)
	})

	t.Run("Fail with empty secret", func(t *testing.T) {
		token, err := GenerateAccessToken(testSubject(), "")

		assert.Equal(t, ErrEmptyJWTSecret, err)
		assert.Empty(t, token)
	})
}

func TestGenerateRefreshToken_Expiry(t *testing.T) {
	token, err := GenerateRefreshToken(testSubject(), testSecret)
	require.NoError(t, err)

	claims, err := ValidateToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "refresh", claims.TokenType)

	diff := claims.ExpiresAt.Time.Sub(time.Now().Add(RefreshTokenTTL)).Abs()
	assert.Less(t, diff, 2*time.Second)
}

func TestGenerateTokens(t *testing.T) {
	access, refresh, err := GenerateTokens(testSubject(), "access-secret", "refresh-secret")
	require.NoError(t, err)
	assert.NotEqual(t, access, refresh)

	_, _, err = GenerateTokens(testSubject(), "", "refresh-secret")
	assert.Error(t, err)

	_, _, err = GenerateTokens(testSubject(), "access-secret", "")
	assert.Error(t, err)
}

func TestValidateToken(t *testing.T) {
	t.Run("Wrong secret", func(t *testing.T) {
		token, _ := GenerateAccessToken(testSubject(), testSecret)
		_, err := ValidateToken(token, "other-secret")
		assert.Error(t, err)
	})

	t.Run("Expired token", func(t *testing.T) {
		claims := &JWTClaims{
			UserID:    "u-1",
			ClubID:    "club-1",
			TokenType: "access",
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    jwtIssuer,
				Audience:  []string{jwtAudience},
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
				IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, err = ValidateToken(token, testSecret)
		assert.ErrorIs(t, err, ErrTokenExpired)
	})

	t.Run("Wrong audience", func(t *testing.T) {
		claims := &JWTClaims{
			UserID: "u-1",
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    jwtIssuer,
				Audience:  []string{"someone-else"},
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
			},
		}
		token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))

		_, err := ValidateToken(token, testSecret)
		assert.Error(t, err)
	})

	t.Run("Empty secret", func(t *testing.T) {
		_, err := ValidateToken("anything", "")
		assert.Equal(t, ErrEmptyJWTSecret, err)
	})
}

func TestRefreshAccessToken(t *testing.T) {
	t.Run("Refresh issues new access token", func(t *testing.T) {
		refresh, err := GenerateRefreshToken(testSubject(), testSecret)
		require.NoError(t, err)

		access, claims, err := RefreshAccessToken(refresh, testSecret, testSecret)
		require.NoError(t, err)
		assert.Equal(t, "club-1", claims.ClubID)

		accessClaims, err := ValidateToken(access, testSecret)
		require.NoError(t, err)
		assert.Equal(t, "access", accessClaims.TokenType)
		assert.Equal(t, "u-42", accessClaims.UserID)
	})

	t.Run("Access token cannot refresh", func(t *testing.T) {
		access, _ := GenerateAccessToken(testSubject(), testSecret)

		_, _, err := RefreshAccessToken(access, testSecret, testSecret)
		assert.Equal(t, ErrInvalidTokenType, err)
	})
}

func TestIdentity_HasPermission(t *testing.T) {
	staff := Identity{Role: "coach", Permissions: []string{PermPrivateLessonArea}}
	member := Identity{Role: RoleMember}
	admin := Identity{Role: RoleAdmin}

	assert.True(t, staff.HasPermission(PermPrivateLessonArea))
	assert.False(t, member.HasPermission(PermPrivateLessonArea))
	assert.True(t, admin.HasPermission(PermPrivateLessonArea))
	assert.True(t, admin.IsAdmin())
}
