package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/avast/retry-go"
)

// DefaultIPLocatorURL is the ip-api.com JSON endpoint.
const DefaultIPLocatorURL = "http://ip-api.com/json"

type ipAPIResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// IPLocator resolves the device's coarse position from its public IP. The
// lookup runs at most once; later calls return the first result.
type IPLocator struct {
	url      string
	client   *http.Client
	attempts uint
	delay    time.Duration

	once     sync.Once
	location string
	err      error
}

func NewIPLocator(url string) *IPLocator {
	if url == "" {
		url = DefaultIPLocatorURL
	}
	return &IPLocator{
		url:      url,
		client:   &http.Client{Timeout: 2 * time.Second},
		attempts: 3,
		delay:    500 * time.Millisecond,
	}
}

func (l *IPLocator) Location(ctx context.Context) (string, error) {
	l.once.Do(func() {
		l.location, l.err = l.lookup(ctx)
	})
	return l.location, l.err
}

func (l *IPLocator) lookup(ctx context.Context) (string, error) {
	var resp ipAPIResponse
	err := retry.Do(
		func() error {
			return l.fetch(ctx, &resp)
		},
		retry.Attempts(l.attempts),
		retry.Delay(l.delay),
		retry.DelayType(retry.BackOffDelay),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		if errors.Is(err, ErrNoLocation) {
			return "", err
		}
		return "", fmt.Errorf("%w: ip lookup failed: %v", ErrNoLocation, err)
	}
	return FormatCoordinates(resp.Lat, resp.Lon), nil
}

func (l *IPLocator) fetch(ctx context.Context, out *ipAPIResponse) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return retry.Unrecoverable(err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ip lookup returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return retry.Unrecoverable(fmt.Errorf("failed to decode ip lookup: %w", err))
	}
	if out.Status != "success" {
		return retry.Unrecoverable(fmt.Errorf("%w: %s", ErrNoLocation, out.Message))
	}
	return nil
}
