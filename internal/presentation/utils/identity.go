package utils

import (
	"net/http"
	"strings"
)

// UserIDHeader carries the caller's uid, stamped by the edge gateway
// after it verifies the auth token. This service trusts it as-is.
const UserIDHeader = "X-User-ID"

func GetUserID(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(UserIDHeader))
}
