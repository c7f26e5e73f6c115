package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
)

// errorTag computes the MAC over the exact bytes that appear in the redirect
// URL, encoding included. Signing the decoded message instead would make
// verification depend on the client reproducing one particular encoding.
func errorTag(message, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte("error=" + url.QueryEscape(message)))
	return hex.EncodeToString(mac.Sum(nil))
}

// SignErrorRedirect returns the query string carrying a login error across a
// redirect: "error=<encoded message>&tag=<hex mac>".
func SignErrorRedirect(message, secret string) string {
	return fmt.Sprintf("error=%s&tag=%s", url.QueryEscape(message), errorTag(message, secret))
}

// VerifyErrorRedirect reports whether tag is a valid MAC for message. A
// missing tag, a non-hex tag and a MAC mismatch are all plain failures; the
// caller learns nothing beyond "do not render this".
func VerifyErrorRedirect(message, tag, secret string) bool {
	given, err := hex.DecodeString(tag)
	if err != nil || len(given) == 0 {
		return false
	}
	expected, err := hex.DecodeString(errorTag(message, secret))
	if err != nil {
		return false
	}
	return hmac.Equal(expected, given)
}
