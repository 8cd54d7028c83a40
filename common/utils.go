package common

import (
	"encoding/base64"
	"encoding/hex"
	"net/url"
	"strings"
)

func IsValidURL(input string) bool {
	_, err := url.ParseRequestURI(input)

	return err == nil
}

func DecodeHex(s string) ([]byte, error) {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s = s[2:]
	}

	return hex.DecodeString(s)
}

// EncodeBase64URL renders bytes the way the bridge network expects them on
// the wire: base64url without padding.
func EncodeBase64URL(data []byte) string {
	return base64.RawURLEncoding.EncodeToString(data)
}

func DecodeBase64URL(s string) ([]byte, error) {
	// some lightnode responses still carry padded values
	if strings.ContainsRune(s, '=') {
		return base64.URLEncoding.DecodeString(s)
	}

	return base64.RawURLEncoding.DecodeString(s)
}

// ReverseBytes returns a reversed copy. Origin chain txids are displayed in
// reverse byte order from how they are hashed.
func ReverseBytes(data []byte) []byte {
	result := make([]byte, len(data))

	for i, b := range data {
		result[len(data)-1-i] = b
	}

	return result
}
