package api

import "encoding/base64"

// BasicToken encodes a username/password pair as an HTTP Basic
// authorization token: base64("username:password"). The encoding is
// deterministic and is recomputed per request; the inverse is never
// computed client-side.
func BasicToken(username, password string) string {
	return base64.StdEncoding.EncodeToString(
		[]byte(username + ":" + password),
	)
}
