package statsroyale

import (
	"context"
	"fmt"
	"net/http/cookiejar"
	"time"

	"royalehelper/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
)

const DefaultURL = "https://statsroyale.com/decks/popular?type=path-of-legends"

type Client struct {
	Http *resty.Client
}

func NewClient() (*Client, error) {
	client := resty.New()
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.SetTimeout(time.Second * 20)

	telemetry.InstrumentResty(client, "scrapers/statsroyale/http")

	return &Client{Http: client}, nil
}

// FetchPopularDecks downloads the popular-decks page and returns its
// raw markup. Network failure is the only error surface: an empty or
// deckless page is the parser's concern, not the fetcher's.
func (c *Client) FetchPopularDecks(ctx context.Context, pageUrl string) (string, error) {
	if pageUrl == "" {
		pageUrl = DefaultURL
	}

	res, err := c.Http.R().
		SetContext(ctx).
		Get(pageUrl)
	if err != nil {
		return "", err
	}
	if res.StatusCode() != 200 {
		return "", fmt.Errorf("statsroyale returned status %d", res.StatusCode())
	}
	return res.String(), nil
}
