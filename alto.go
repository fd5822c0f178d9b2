// Package alto is the root of the Alto cloud SDK. It holds the environment
// based defaults (API key, endpoints, workspace) shared by every service
// client. Applications typically set ALTO_API_KEY and construct clients from
// the service packages (generation, multimodal, imagesynthesis,
// videosynthesis, tasks, realtime).
package alto

import "os"

// Version is the SDK release version, reported in the realtime User-Agent
// and by the CLI's --version flag.
const Version = "0.4.1"

// Environment variables read by the service clients at construction time.
const (
	EnvAPIKey       = "ALTO_API_KEY"
	EnvBaseURL      = "ALTO_API_BASE_URL"
	EnvWebsocketURL = "ALTO_WEBSOCKET_URL"
	EnvWorkspace    = "ALTO_WORKSPACE"
)

// Default endpoints used when the corresponding environment variables are
// unset.
const (
	DefaultBaseURL      = "https://api.alto.ai/v1"
	DefaultWebsocketURL = "wss://api.alto.ai/v1/realtime"
)

// APIKey returns the API key from the environment, or "" when unset.
func APIKey() string {
	return os.Getenv(EnvAPIKey)
}

// BaseURL returns the HTTP API base URL from the environment, falling back
// to DefaultBaseURL.
func BaseURL() string {
	if url := os.Getenv(EnvBaseURL); url != "" {
		return url
	}
	return DefaultBaseURL
}

// WebsocketURL returns the realtime endpoint from the environment, falling
// back to DefaultWebsocketURL.
func WebsocketURL() string {
	if url := os.Getenv(EnvWebsocketURL); url != "" {
		return url
	}
	return DefaultWebsocketURL
}

// Workspace returns the workspace identifier from the environment, or ""
// when the account's default workspace should be used.
func Workspace() string {
	return os.Getenv(EnvWorkspace)
}
