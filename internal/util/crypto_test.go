package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// small iteration count keeps the suite fast
var testHasher = PasswordHasher{Algorithm: HasherPBKDF2, Iterations: 1000}

func TestHashPassword(t *testing.T) {
	hashed, err := testHasher.Hash("secret123")
	require.NoError(t, err)

	parts := strings.Split(hashed, "$")
	require.Len(t, parts, 4)
	assert.Equal(t, HasherPBKDF2, parts[0])
	assert.Equal(t, "1000", parts[1])
	assert.Len(t, parts[2], 22)

	hashed2, err := testHasher.Hash("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, hashed, hashed2, "salt must differ between hashes")

	_, err = testHasher.Hash("")
	assert.Error(t, err)
}

func TestCheckPassword(t *testing.T) {
	hashed, err := testHasher.Hash("secret123")
	require.NoError(t, err)

	assert.True(t, testHasher.Check("secret123", hashed))
	assert.False(t, testHasher.Check("secret124", hashed))
	assert.False(t, testHasher.Check("", hashed))
	assert.False(t, testHasher.Check("secret123", ""))
	assert.False(t, testHasher.Check("secret123", "invalid-format"))
	assert.False(t, testHasher.Check("secret123", "pbkdf2_sha256$x$salt$aGFzaA=="))
	assert.False(t, testHasher.Check("secret123", "md5$abc"))
}

// Known-answer vector in the pbkdf2_sha256$<iter>$<salt>$<hash> encoding.
func TestCheckPassword_KnownVector(t *testing.T) {
	encoded := "pbkdf2_sha256$1000$seasalt$JgZryXe2Ga8ysg6XbzkLpTdyPQrHqsinbL9BnnhgX4A="
	assert.True(t, testHasher.Check("lètmein", encoded))
	assert.False(t, testHasher.Check("letmein", encoded))
}

func TestBcryptHasher(t *testing.T) {
	h := PasswordHasher{Algorithm: HasherBcrypt, BcryptCost: 4}

	hashed, err := h.Hash("secret123")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hashed, "bcrypt$"))
	assert.True(t, h.Check("secret123", hashed))
	assert.False(t, h.Check("nope", hashed))

	// a pbkdf2-configured hasher still verifies bcrypt-encoded passwords
	assert.True(t, testHasher.Check("secret123", hashed))
}

func TestValidate_BcryptLengthLimit(t *testing.T) {
	bcryptHasher := PasswordHasher{Algorithm: HasherBcrypt, BcryptCost: 4}
	long := strings.Repeat("p", BcryptMaxBytes+1)

	assert.ErrorIs(t, bcryptHasher.Validate(long), ErrPasswordTooLong)
	assert.NoError(t, bcryptHasher.Validate(long[:BcryptMaxBytes]))
	assert.NoError(t, testHasher.Validate(long))

	// multi-byte runes count by byte
	assert.ErrorIs(t, bcryptHasher.Validate(strings.Repeat("é", 37)), ErrPasswordTooLong)
}

func TestUnknownHasher(t *testing.T) {
	_, err := PasswordHasher{Algorithm: "md5"}.Hash("secret123")
	assert.Error(t, err)
}

func TestRandomString(t *testing.T) {
	str, err := RandomString(32)
	require.NoError(t, err)
	assert.Len(t, str, 32)
	for _, r := range str {
		assert.Contains(t, saltAlphabet, string(r))
	}

	str2, err := RandomString(32)
	require.NoError(t, err)
	assert.NotEqual(t, str, str2)

	_, err = RandomString(0)
	assert.Error(t, err)
	_, err = RandomString(-5)
	assert.Error(t, err)
}
