package services

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// randomCode generates a prefixed random code, e.g. REF3FA2B1
func randomCode(prefix string, hexLen int) (string, error) {
	b := make([]byte, (hexLen+1)/2)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return prefix + strings.ToUpper(hex.EncodeToString(b)[:hexLen]), nil
}

// newOrderNumber generates a unique, human-readable order number
// (timestamp plus a random suffix)
func newOrderNumber() (string, error) {
	suffix, err := randomCode("", 6)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("ORD%s%s", time.Now().Format("20060102150405"), suffix), nil
}
