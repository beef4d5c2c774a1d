package client

import "net/http"

// Option configures a rawClient during construction via NewRawClient.
type Option func(*rawClient) error

// WithHTTPClient sets a custom HTTP client to use for requests.
// This allows customization of timeouts, transport, and other HTTP client settings.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *rawClient) error {
		if httpClient == nil {
			return nil
		}
		c.client = httpClient
		return nil
	}
}

// WithUserAgent overrides the User-Agent header sent with every request.
func WithUserAgent(userAgent string) Option {
	return func(c *rawClient) error {
		c.userAgent = userAgent
		return nil
	}
}
