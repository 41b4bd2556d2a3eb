package clashroyale

import (
	"errors"
	"fmt"
	"time"

	"royalehelper/lib/telemetry"

	"github.com/go-resty/resty/v2"
)

var tracer = telemetry.Tracer("clashroyale")

const DefaultBaseURL = "https://api.clashroyale.com/v1"

// ErrMissingToken means the API token is absent from configuration.
// It is fatal to the single operation that needed the client, never
// silently swallowed.
var ErrMissingToken = errors.New("clash royale api token is not configured, add it to config.json5")

// ErrPlayerNotFound means the requested player tag does not exist
// upstream.
var ErrPlayerNotFound = errors.New("no player with this tag was found")

// ErrForbidden means the API rejected the token or the caller's IP is
// not whitelisted.
var ErrForbidden = errors.New("clash royale api access forbidden, check the token and its ip whitelist")

// APIError covers any other non-200 response.
type APIError struct {
	Status int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("clash royale api returned status %d", e.Status)
}

type Config struct {
	BaseUrl string `json:"base_url"`
	Token   string `json:"token"`
	// when non-empty, fetched player profiles are dumped here as a
	// debugging side artifact
	SnapshotDir string `json:"snapshot_dir"`
}

type Client struct {
	Http        *resty.Client
	snapshotDir string
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.Token == "" {
		return nil, ErrMissingToken
	}
	baseUrl := cfg.BaseUrl
	if baseUrl == "" {
		baseUrl = DefaultBaseURL
	}

	client := resty.New()
	client.SetBaseURL(baseUrl)
	client.SetHeader("authorization", fmt.Sprintf("Bearer %s", cfg.Token))
	client.SetHeader("accept", "application/json")
	client.SetTimeout(time.Second * 15)

	telemetry.InstrumentResty(client, "clashroyale/http")

	return &Client{
		Http:        client,
		snapshotDir: cfg.SnapshotDir,
	}, nil
}

func statusError(status int) error {
	if status == 404 {
		return ErrPlayerNotFound
	}
	if status == 403 {
		return ErrForbidden
	}
	return &APIError{Status: status}
}
