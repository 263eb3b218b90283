package twelvedata

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"FxSignals/internal/domain/models"
	drepo "FxSignals/internal/domain/repository"
	xhttp "FxSignals/pkg/http"

	"github.com/go-playground/validator/v10"
)

const statusError = "error"

// Client implements a MarketDataSource backed by the Twelve Data REST API.
type Client struct {
	baseURL    string
	apiKey     string
	minCandles int
	http       *xhttp.Client
	validate   *validator.Validate
}

// New creates a new Twelve Data source. Responses with fewer than minCandles
// values are reported as ErrInsufficientData.
func New(baseURL, apiKey string, minCandles int, httpClient *xhttp.Client) *Client {
	if httpClient == nil {
		httpClient = xhttp.NewClient()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		minCandles: minCandles,
		http:       httpClient,
		validate:   validator.New(),
	}
}

type tdValue struct {
	Datetime string `json:"datetime" validate:"required"`
	Open     string `json:"open"`
	High     string `json:"high"`
	Low      string `json:"low"`
	Close    string `json:"close" validate:"required"`
}

type tdResponse struct {
	Status  string    `json:"status"`
	Code    int       `json:"code"`
	Message string    `json:"message"`
	Values  []tdValue `json:"values" validate:"dive"`
}

// GetCandles fetches the latest size candles for symbol, oldest first.
func (c *Client) GetCandles(ctx context.Context, symbol string, interval drepo.Interval, size int) ([]models.Candle, error) {
	var resp tdResponse
	err := c.http.GetJSON(ctx, c.baseURL+"/time_series", map[string][]string{
		"symbol":     {symbol},
		"interval":   {string(interval)},
		"outputsize": {strconv.Itoa(size)},
		"apikey":     {c.apiKey},
	}, &resp)
	if err != nil {
		var se *xhttp.StatusError
		if errors.As(err, &se) {
			return nil, fmt.Errorf("%w: %s: http %d", drepo.ErrUpstream, symbol, se.Code)
		}
		return nil, fmt.Errorf("twelvedata %s: %w", symbol, err)
	}

	if resp.Status == statusError {
		return nil, fmt.Errorf("%w: %s: code %d: %s", drepo.ErrUpstream, symbol, resp.Code, resp.Message)
	}
	if len(resp.Values) < c.minCandles {
		return nil, fmt.Errorf("%w: %s: %d of %d values", drepo.ErrInsufficientData, symbol, len(resp.Values), c.minCandles)
	}
	if err := c.validate.Struct(resp); err != nil {
		return nil, fmt.Errorf("%w: %s: invalid payload: %v", drepo.ErrUpstream, symbol, err)
	}

	candles, err := toCandles(resp.Values)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", symbol, err)
	}
	return candles, nil
}

// toCandles converts newest-first provider values into ascending candles.
func toCandles(values []tdValue) ([]models.Candle, error) {
	out := make([]models.Candle, len(values))
	for i, v := range values {
		closePx, err := strconv.ParseFloat(v.Close, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: close %q at %s", drepo.ErrUpstream, v.Close, v.Datetime)
		}
		out[len(values)-1-i] = models.Candle{
			Time:  v.Datetime,
			Open:  parseOr(v.Open, closePx),
			High:  parseOr(v.High, closePx),
			Low:   parseOr(v.Low, closePx),
			Close: closePx,
		}
	}
	return out, nil
}

func parseOr(s string, def float64) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return f
}
