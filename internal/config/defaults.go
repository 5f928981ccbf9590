package config

// DefaultEndpoint is the production tag authority endpoint.
const DefaultEndpoint = "https://data.bibletags.org/graphql"

// DefaultEmbeddingAppID identifies a standalone (non-embedded) install.
const DefaultEmbeddingAppID = "versetag"

// DefaultRateLimit is requests per minute against the authority.
const DefaultRateLimit = 60

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BaseDir: DefaultBaseDir(),
		Remote: RemoteConfig{
			Endpoint:       DefaultEndpoint,
			EmbeddingAppID: DefaultEmbeddingAppID,
			RateLimit:      DefaultRateLimit,
		},
	}
}
