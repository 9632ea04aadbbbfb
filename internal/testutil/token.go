package testutil

// DefaultToken is returned by a FixedToken created with an empty token.
const DefaultToken = "test-request-default"

// FixedToken generates the same request token every time.
//
// Every request of a scenario shares it, so golden snapshots stay
// byte-identical between runs. explain.FixedGenerator hands out a sequence
// instead and panics once it runs dry.
//
// Thread-safety: FixedToken is stateless and safe for concurrent use.
type FixedToken struct {
	token string
}

// NewFixedToken creates a fixed token generator.
//
// The token is typically set in the scenario YAML:
//
//	token: "test-request-00000000-0000-0000-0000-000000000001"
//
// If token is empty, Generate returns DefaultToken.
func NewFixedToken(token string) *FixedToken {
	if token == "" {
		token = DefaultToken
	}
	return &FixedToken{token: token}
}

// Generate returns the fixed token.
//
// Implements explain.TokenGenerator.
func (g *FixedToken) Generate() string {
	return g.token
}
