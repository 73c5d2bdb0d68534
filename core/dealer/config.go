package dealer

// Config holds configuration for the dealer platform API.
type Config struct {
	// BaseURL is the root of the dealer REST API.
	BaseURL string `mapstructure:"base_url" default:""`
	// TokenURL is the OAuth2 token endpoint. Defaults to BaseURL + /oauth/token
	// when left empty.
	TokenURL string `mapstructure:"token_url" default:""`
	// ClientID is the OAuth2 client id for the client-credentials flow.
	ClientID string `mapstructure:"client_id" default:""`
	// ClientSecret is the OAuth2 client secret.
	ClientSecret string `mapstructure:"client_secret" default:""`
	// DealerID optionally scopes calls to a specific dealer account.
	DealerID string `mapstructure:"dealer_id" default:""`
	// TimeoutSeconds is the per-call HTTP timeout.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"10"`
}
