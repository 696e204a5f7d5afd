package utils

import (
	"crypto/rand"
	"encoding/hex"
	"regexp"
	"time"

	"github.com/oklog/ulid/v2"
)

var hexColorPattern = regexp.MustCompile(`^#([A-Fa-f0-9]{6}|[A-Fa-f0-9]{3})$`)

type IUtils interface {
	NewULIDFromTimestamp(t time.Time) (string, error)
	NewAPICredential() (key string, secret string, err error)
	IsValidHexColor(color string) bool
}

type utils struct {
	keyBytes    int
	secretBytes int
}

func New() IUtils {
	return &utils{
		keyBytes:    16,
		secretBytes: 32,
	}
}

func (u *utils) NewULIDFromTimestamp(t time.Time) (string, error) {
	ms := ulid.Timestamp(t)
	entropy := ulid.Monotonic(rand.Reader, 0)

	id, err := ulid.New(ms, entropy)
	if err != nil {
		return "", err
	}

	return id.String(), nil
}

func (u *utils) NewAPICredential() (string, string, error) {
	keyBuf := make([]byte, u.keyBytes)
	if _, err := rand.Read(keyBuf); err != nil {
		return "", "", err
	}

	secretBuf := make([]byte, u.secretBytes)
	if _, err := rand.Read(secretBuf); err != nil {
		return "", "", err
	}

	return "kwik_" + hex.EncodeToString(keyBuf), hex.EncodeToString(secretBuf), nil
}

func (u *utils) IsValidHexColor(color string) bool {
	return hexColorPattern.MatchString(color)
}
