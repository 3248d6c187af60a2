package config

const (
	defaultStashEndpoint       = "http://localhost:9999/graphql"
	defaultStashRequestTimeout = 30
	defaultPHashThreshold      = 0.10
	defaultTitleThreshold      = 0.85
	defaultDataDir             = "~/.local/share/stashdup"
	defaultLogDir              = "~/.local/share/stashdup/logs"
	defaultDashboardBind       = "127.0.0.1:9595"
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Stash: Stash{
			Endpoint:       defaultStashEndpoint,
			RequestTimeout: defaultStashRequestTimeout,
		},
		Matching: Matching{
			PHashDistanceThreshold:   defaultPHashThreshold,
			TitleSimilarityThreshold: defaultTitleThreshold,
			IdentifierDominance:      true,
		},
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Dashboard: Dashboard{
			Bind: defaultDashboardBind,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
