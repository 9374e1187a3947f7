package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// SignatureHeader carries the HMAC of an outbound webhook body.
const SignatureHeader = "X-Signature-256"

// ComputeSignature returns the lowercase hex encoded HMAC-SHA256 signature for body.
func ComputeSignature(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
