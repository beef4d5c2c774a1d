package client

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/tinygit/tinygit/log"
	"github.com/tinygit/tinygit/protocol"
)

// UploadPack sends a POST request to the git-upload-pack endpoint.
// This endpoint is used to fetch objects and refs from the remote repository.
// The caller is responsible for closing the returned reader.
func (c *rawClient) UploadPack(ctx context.Context, data io.Reader) (io.ReadCloser, error) {
	// NOTE: This path is defined in the protocol-v2 spec as required under $GIT_URL/git-upload-pack.
	// See: https://git-scm.com/docs/protocol-v2#_http_transport
	u := c.base.JoinPath("git-upload-pack").String()

	logger := log.FromContext(ctx)
	if logger != nil {
		logger.Debug("Upload-pack", "url", u)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, data)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/x-git-upload-pack-request")
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
		logger.Debug("Upload-pack response", "status", res.StatusCode, "statusText", res.Status)
	}
	return res.Body, nil
}
