// AngelaMos | 2026
// security.go

package core

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/crypto/argon2"
)

// currentParams are the argon2id cost settings new hashes are written
// with. Stored hashes carry their own settings, so these can be raised
// without invalidating existing passwords.
var currentParams = argonParams{
	memory:  64 * 1024,
	time:    1,
	threads: 4,
	keyLen:  32,
	saltLen: 16,
}

type argonParams struct {
	memory  uint32
	time    uint32
	threads uint8
	keyLen  uint32
	saltLen uint32
}

func (p argonParams) derive(password string, salt []byte) []byte {
	return argon2.IDKey(
		[]byte(password), salt, p.time, p.memory, p.threads, p.keyLen)
}

func (p argonParams) encode(salt, digest []byte) string {
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		p.memory, p.time, p.threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(digest),
	)
}

func (p argonParams) stale() bool {
	return p.memory != currentParams.memory ||
		p.time != currentParams.time ||
		p.threads != currentParams.threads ||
		p.keyLen != currentParams.keyLen
}

// HashPassword produces an argon2id PHC-encoded hash with a fresh salt.
func HashPassword(password string) (string, error) {
	salt := make([]byte, currentParams.saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	digest := currentParams.derive(password, salt)
	return currentParams.encode(salt, digest), nil
}

func VerifyPassword(password, encodedHash string) (bool, error) {
	params, salt, digest, err := decodeHash(encodedHash)
	if err != nil {
		return false, err
	}

	candidate := params.derive(password, salt)
	return subtle.ConstantTimeCompare(digest, candidate) == 1, nil
}

// VerifyPasswordWithRehash verifies and, when the stored hash was written
// with outdated cost settings, returns an upgraded hash for the caller to
// persist.
func VerifyPasswordWithRehash(
	password, encodedHash string,
) (bool, string, error) {
	params, salt, digest, err := decodeHash(encodedHash)
	if err != nil {
		return false, "", err
	}

	candidate := params.derive(password, salt)
	if subtle.ConstantTimeCompare(digest, candidate) != 1 {
		return false, "", nil
	}

	if params.stale() {
		upgraded, hashErr := HashPassword(password)
		if hashErr != nil {
			// Password already verified; losing the upgrade is harmless.
			return true, "", nil
		}
		return true, upgraded, nil
	}

	return true, "", nil
}

// decoyHash is verified against when no account matches, so a login
// attempt costs the same argon2 work whether or not the email exists.
var decoyHash = sync.OnceValue(func() string {
	hash, err := HashPassword("decoy-password-for-timing-equalization")
	if err != nil {
		panic(fmt.Sprintf("security: decoy hash: %v", err))
	}
	return hash
})

// VerifyPasswordTimingSafe behaves like VerifyPasswordWithRehash but
// accepts a missing stored hash, burning the same verification time and
// always answering false for it.
func VerifyPasswordTimingSafe(
	password string,
	encodedHash *string,
) (bool, string, error) {
	stored := decoyHash()
	if encodedHash != nil && *encodedHash != "" {
		stored = *encodedHash
	}

	ok, upgraded, err := VerifyPasswordWithRehash(password, stored)

	if encodedHash == nil || *encodedHash == "" {
		return false, "", nil
	}
	return ok, upgraded, err
}

func decodeHash(encodedHash string) (argonParams, []byte, []byte, error) {
	var p argonParams

	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 {
		return p, nil, nil, fmt.Errorf("invalid hash format")
	}
	if parts[1] != "argon2id" {
		return p, nil, nil, fmt.Errorf(
			"unsupported algorithm: %s", parts[1])
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return p, nil, nil, fmt.Errorf("invalid version: %w", err)
	}
	if version != argon2.Version {
		return p, nil, nil, fmt.Errorf("incompatible version: %d", version)
	}

	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d",
		&p.memory, &p.time, &p.threads); err != nil {
		return p, nil, nil, fmt.Errorf("invalid params: %w", err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return p, nil, nil, fmt.Errorf("decode salt: %w", err)
	}

	digest, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return p, nil, nil, fmt.Errorf("decode hash: %w", err)
	}

	//nolint:gosec // G115: argon2id digests are always small
	p.keyLen = uint32(len(digest))

	return p, salt, digest, nil
}

func GenerateSecureToken(length int) (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate random bytes: %w", err)
	}
	return base64.URLEncoding.EncodeToString(buf), nil
}

func GenerateRefreshToken() (string, error) {
	return GenerateSecureToken(32)
}

// HashToken digests an opaque token for storage. Refresh tokens are
// random, so a plain SHA-256 is enough; argon2 is only for passwords.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func CompareTokenHash(token, hash string) bool {
	return subtle.ConstantTimeCompare(
		[]byte(HashToken(token)), []byte(hash)) == 1
}
