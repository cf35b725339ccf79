package repository

import (
	"crypto/rand"
	"fmt"

	"jobmindr/internal/models"
)

const appNumberAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NumberGenerator produces candidate application numbers.
type NumberGenerator func() (string, error)

// GenerateApplicationNumber returns 10 symbols drawn uniformly from [A-Z0-9].
func GenerateApplicationNumber() (string, error) {
	// 252 is the largest multiple of 36 below 256; bytes above it are rejected.
	const limit = 252

	out := make([]byte, 0, models.ApplicationNumberLength)
	buf := make([]byte, models.ApplicationNumberLength*2)
	for len(out) < models.ApplicationNumberLength {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("read random bytes: %w", err)
		}
		for _, b := range buf {
			if b >= limit {
				continue
			}
			out = append(out, appNumberAlphabet[int(b)%len(appNumberAlphabet)])
			if len(out) == models.ApplicationNumberLength {
				break
			}
		}
	}
	return string(out), nil
}
