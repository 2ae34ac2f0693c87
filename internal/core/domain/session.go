package domain

// Tokens is the credential pair handed over on login. Refresh is
// optional.
type Tokens struct {
	Access  string
	Refresh string
}

// SessionChange notifies subscribers that a client's session flipped.
type SessionChange struct {
	ClientID      string
	Authenticated bool
}

// FallbackAccountID is used when no account id claim can be decoded
// from the credential. The upstream favorites API requires an account;
// this mirrors its historical anonymous default.
const FallbackAccountID int64 = 1
