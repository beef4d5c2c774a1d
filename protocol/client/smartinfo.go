package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/tinygit/tinygit/log"
	"github.com/tinygit/tinygit/protocol"
)

// SmartInfo retrieves reference and capability information from the remote Git repository
// using the Smart HTTP protocol.
//
// It sends a GET request to the $GIT_URL/info/refs endpoint with the specified service
// (e.g., "git-upload-pack") as a query parameter. This is required by the Git Smart
// Protocol v2 specification for repository discovery and capability negotiation.
//
// See:
//   - https://git-scm.com/docs/http-protocol#_smart_clients
//   - https://git-scm.com/docs/protocol-v2#_http_transport
//
// The caller is responsible for closing the returned reader.
func (c *rawClient) SmartInfo(ctx context.Context, service string) (io.ReadCloser, error) {
	u := c.base.JoinPath("info/refs")

	query := make(url.Values)
	query.Set("service", service)
	u.RawQuery = query.Encode()

	logger := log.FromContext(ctx)
	if logger != nil {
		logger.Debug("SmartInfo", "url", u.String(), "service", service)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}

	c.addDefaultHeaders(req)

	res, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		res.Body.Close()
		underlying := fmt.Errorf("got status code %d: %s", res.StatusCode, res.Status)
		if res.StatusCode >= 500 {
			return nil, protocol.NewServerUnavailableError(res.StatusCode, underlying)
		}
		return nil, underlying
	}

	if logger != nil {
		logger.Debug("SmartInfo response", "status", res.StatusCode, "statusText", res.Status)
	}
	return res.Body, nil
}
