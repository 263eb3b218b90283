package dashboard

import (
	"context"
	"strings"

	"FxSignals/internal/domain/models"
	xhttp "FxSignals/pkg/http"
)

// Fetcher retrieves one envelope from the signal endpoint.
type Fetcher interface {
	Fetch(ctx context.Context) (*models.ResponseEnvelope, error)
}

// HTTPFetcher calls GET {baseURL}/api/signals.
type HTTPFetcher struct {
	url    string
	client *xhttp.Client
}

func NewHTTPFetcher(baseURL string, client *xhttp.Client) *HTTPFetcher {
	if client == nil {
		client = xhttp.NewClient()
	}
	return &HTTPFetcher{url: strings.TrimRight(baseURL, "/") + "/api/signals", client: client}
}

func (f *HTTPFetcher) Fetch(ctx context.Context) (*models.ResponseEnvelope, error) {
	var env models.ResponseEnvelope
	if err := f.client.GetJSON(ctx, f.url, nil, &env); err != nil {
		return nil, err
	}
	return &env, nil
}
