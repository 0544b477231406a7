package qr

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
)

// NewToken returns an opaque unique token embedded in ticket QR codes. Entry
// gates validate it by lookup only; nothing is encoded in the token itself.
func NewToken() (string, error) {
	byt := make([]byte, 16)
	if _, err := rand.Read(byt); err != nil {
		return "", err
	}
	return strings.ToUpper(hex.EncodeToString(byt)), nil
}
