package util

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
)

const (
	HasherPBKDF2 = "pbkdf2_sha256"
	HasherBcrypt = "bcrypt"

	// bcrypt only reads the first 72 bytes of its input.
	BcryptMaxBytes = 72
)

var ErrPasswordTooLong = fmt.Errorf("Ensure this field has no more than %d bytes.", BcryptMaxBytes)

// PasswordHasher encodes passwords as "<algorithm>$...":
//
//	pbkdf2_sha256$<iterations>$<salt>$<base64 sha256 key>
//	bcrypt$<bcrypt hash>
//
// Check accepts either form regardless of Algorithm, so switching the
// configured hasher keeps existing accounts working.
type PasswordHasher struct {
	Algorithm  string
	Iterations int
	BcryptCost int
}

// Validate reports whether the configured algorithm can hash password.
func (h PasswordHasher) Validate(password string) error {
	if h.Algorithm == HasherBcrypt && len(password) > BcryptMaxBytes {
		return ErrPasswordTooLong
	}
	return nil
}

// Hash encodes password with the configured algorithm.
func (h PasswordHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password is empty")
	}

	switch h.Algorithm {
	case HasherBcrypt:
		cost := h.BcryptCost
		if cost == 0 {
			cost = bcrypt.DefaultCost
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
		if err != nil {
			return "", fmt.Errorf("bcrypt: %w", err)
		}
		return HasherBcrypt + "$" + string(hash), nil
	case HasherPBKDF2, "":
		iterations := h.Iterations
		if iterations <= 0 {
			iterations = 600000
		}
		salt, err := RandomString(22)
		if err != nil {
			return "", fmt.Errorf("generate salt: %w", err)
		}
		key := pbkdf2.Key([]byte(password), []byte(salt), iterations, sha256.Size, sha256.New)
		return fmt.Sprintf("%s$%d$%s$%s", HasherPBKDF2, iterations, salt,
			base64.StdEncoding.EncodeToString(key)), nil
	default:
		return "", fmt.Errorf("unknown password hasher %q", h.Algorithm)
	}
}

// Check reports whether password matches the encoded hash.
func (h PasswordHasher) Check(password, encoded string) bool {
	if password == "" || encoded == "" {
		return false
	}

	algorithm, rest, ok := strings.Cut(encoded, "$")
	if !ok {
		return false
	}

	switch algorithm {
	case HasherBcrypt:
		return bcrypt.CompareHashAndPassword([]byte(rest), []byte(password)) == nil
	case HasherPBKDF2:
		parts := strings.Split(rest, "$")
		if len(parts) != 3 {
			return false
		}
		iterations, err := strconv.Atoi(parts[0])
		if err != nil || iterations <= 0 {
			return false
		}
		expected, err := base64.StdEncoding.DecodeString(parts[2])
		if err != nil || len(expected) == 0 {
			return false
		}
		key := pbkdf2.Key([]byte(password), []byte(parts[1]), iterations, len(expected), sha256.New)
		return subtle.ConstantTimeCompare(key, expected) == 1
	default:
		return false
	}
}

const saltAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RandomString returns n random alphanumeric characters (salts, keys).
func RandomString(n int) (string, error) {
	if n <= 0 {
		return "", errors.New("length must be positive")
	}
	limit := big.NewInt(int64(len(saltAlphabet)))
	buf := make([]byte, n)
	for i := range buf {
		idx, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("read random: %w", err)
		}
		buf[i] = saltAlphabet[idx.Int64()]
	}
	return string(buf), nil
}
