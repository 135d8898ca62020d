package adapters

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/larrybrager-personal/talking-pet-backend/application/ports/outbound"
	"github.com/larrybrager-personal/talking-pet-backend/domain"
	"github.com/rs/zerolog/log"
)

// HeadInfo describes a remote object without downloading it.
type HeadInfo struct {
	StatusCode  int
	ContentType string
	SizeBytes   int64
}

// ContentFetcher is the shared HTTP retrieval helper: artifact downloads
// for the mux step plus the header inspection the debug endpoint uses.
type ContentFetcher interface {
	outbound.BinaryFetcherPort
	Head(ctx context.Context, url string) (*HeadInfo, error)
}

type contentFetcher struct {
	client *http.Client
}

func NewContentFetcher(client *http.Client) ContentFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &contentFetcher{client: client}
}

// FetchBinary downloads the full body of a public artifact.
func (c *contentFetcher) FetchBinary(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, domain.NewPipelineError(domain.ProviderUnavailable, "failed to build download request", err)
	}

	res, err := c.client.Do(req)
	if err != nil {
		log.Error().Err(err).Str("url", url).Msg("Failed to download artifact")
		return nil, domain.NewPipelineError(domain.ProviderUnavailable, "artifact download failed", err)
	}
	defer closeBody(res.Body, url)

	if res.StatusCode != http.StatusOK {
		log.Error().Int("status", res.StatusCode).Str("url", url).Msg("Artifact download returned non-OK status")
		return nil, domain.NewPipelineError(domain.ProviderUnavailable, "artifact download returned status "+strconv.Itoa(res.StatusCode), nil)
	}

	payload, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, domain.NewPipelineError(domain.ProviderUnavailable, "failed to read artifact body", err)
	}
	return payload, nil
}

// Head inspects a URL's status, content type and size. Some hosts reject
// HEAD, so it falls back to a one-byte ranged GET.
func (c *contentFetcher) Head(ctx context.Context, url string) (*HeadInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return nil, domain.NewPipelineError(domain.ProviderUnavailable, "failed to build head request", err)
	}

	res, err := c.client.Do(req)
	if err == nil && res.StatusCode >= http.StatusBadRequest {
		closeBody(res.Body, url)
		res, err = c.rangedGet(ctx, url)
	} else if err != nil {
		res, err = c.rangedGet(ctx, url)
	}
	if err != nil {
		return nil, domain.NewPipelineError(domain.ProviderUnavailable, "head request failed", err)
	}
	defer closeBody(res.Body, url)

	size, _ := strconv.ParseInt(res.Header.Get("Content-Length"), 10, 64)
	return &HeadInfo{
		StatusCode:  res.StatusCode,
		ContentType: res.Header.Get("Content-Type"),
		SizeBytes:   size,
	}, nil
}

func (c *contentFetcher) rangedGet(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Range", "bytes=0-1")
	return c.client.Do(req)
}

func closeBody(body io.ReadCloser, url string) {
	if err := body.Close(); err != nil {
		log.Error().Err(err).Str("url", url).Msg("Failed to close response body")
	}
}
