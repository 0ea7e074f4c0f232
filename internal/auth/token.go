package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TokenTTL is how long an issued token stays valid. There is no refresh and
// no revocation list; expiry is the only lifecycle.
const TokenTTL = 24 * time.Hour

// signatureLen is the number of hex characters kept from the full digest.
const signatureLen = 16

// IssueToken encodes "userID:issuedAt:signature" where the signature is the
// truncated sha256 of "userID:issuedAt:secret".
func IssueToken(secret string, userID int64) string {
	return issueTokenAt(secret, userID, time.Now())
}

func issueTokenAt(secret string, userID int64, now time.Time) string {
	ts := now.Unix()
	return fmt.Sprintf("%d:%d:%s", userID, ts, sign(secret, userID, ts))
}

// CheckToken validates a token and returns the embedded user ID. It rejects
// malformed tokens, tokens older than TokenTTL, and signature mismatches.
func CheckToken(secret, token string) (int64, bool) {
	return checkTokenAt(secret, token, time.Now())
}

func checkTokenAt(secret, token string, now time.Time) (int64, bool) {
	parts := strings.Split(token, ":")
	if len(parts) != 3 {
		return 0, false
	}
	userID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, false
	}
	ts, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return 0, false
	}
	if now.Unix()-ts > int64(TokenTTL/time.Second) {
		return 0, false
	}
	want := sign(secret, userID, ts)
	if subtle.ConstantTimeCompare([]byte(parts[2]), []byte(want)) != 1 {
		return 0, false
	}
	return userID, true
}

func sign(secret string, userID, ts int64) string {
	sum := sha256.Sum256(fmt.Appendf(nil, "%d:%d:%s", userID, ts, secret))
	return hex.EncodeToString(sum[:])[:signatureLen]
}
