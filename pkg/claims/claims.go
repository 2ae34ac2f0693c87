// Package claims extracts account claims from bearer tokens. Tokens
// are decoded, not verified: the upstream API is the authority, the
// storefront only needs the embedded account identifier.
package claims

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
)

var ErrNoAccountClaim = errors.New("no account id claim")

// accountClaimKeys in priority order.
var accountClaimKeys = [...]string{"user_id", "userId", "sub", "id"}

// AccountID decodes the token without signature verification and
// returns the first numeric account id claim found.
func AccountID(token string) (int64, error) {
	const op = "claims.AccountID"

	mc := jwt.MapClaims{}
	_, _, err := jwt.NewParser().ParseUnverified(token, mc)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	for _, key := range accountClaimKeys {
		v, ok := mc[key]
		if !ok {
			continue
		}
		if id, ok := toInt64(v); ok {
			return id, nil
		}
	}
	return 0, ErrNoAccountClaim
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case int64:
		return n, true
	case string:
		id, err := strconv.ParseInt(n, 10, 64)
		if err != nil {
			return 0, false
		}
		return id, true
	default:
		return 0, false
	}
}
