package tinygit

import (
	"net/http"

	"github.com/tinygit/tinygit/protocol/client"
)

// Option configures a remote connection during Clone.
type Option = client.Option

// WithBasicAuth sets the HTTP Basic Auth options.
// This is not a particularly secure method of authentication, so you probably want to recommend or require WithTokenAuth instead.
func WithBasicAuth(username, password string) Option {
	return client.WithBasicAuth(username, password)
}

// WithTokenAuth sets the Authorization header to the given token.
// We will not modify it for you. As such, if it needs a "Bearer" or "token" prefix, you must add that yourself.
func WithTokenAuth(token string) Option {
	return client.WithTokenAuth(token)
}

// WithHTTPClient sets a custom HTTP client to use for requests.
// This allows customization of timeouts, transport, and other HTTP client settings.
func WithHTTPClient(httpClient *http.Client) Option {
	return client.WithHTTPClient(httpClient)
}
