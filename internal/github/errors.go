package github

import "errors"

// Error taxonomy for the directory API. Callers distinguish these with
// errors.Is; anything else is a plain network or status failure that is
// surfaced as-is and never retried here.
var (
	// ErrAuth means the token was rejected. Fatal for the whole search.
	ErrAuth = errors.New("github: authentication failed")

	// ErrRateLimit means the API quota is exhausted. Reported distinctly
	// so the caller can slow down or advise adding a token.
	ErrRateLimit = errors.New("github: rate limit exceeded")

	// ErrMalformedResponse means the API returned an unexpected shape.
	ErrMalformedResponse = errors.New("github: malformed response")
)
