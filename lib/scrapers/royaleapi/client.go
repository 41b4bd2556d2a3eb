package royaleapi

import (
	"context"
	"fmt"
	"net/http/cookiejar"
	"time"

	"royalehelper/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
)

const DefaultURL = "https://royaleapi.com/decks/popular" +
	"?time=1d&sort=rating&size=30&players=PvP" +
	"&min_elixir=1&max_elixir=9&evo=None" +
	"&min_cycle_elixir=4&max_cycle_elixir=28" +
	"&mode=detail&type=Ranked&global_exclude=false"

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
	client.SetHeader("accept-language", "en-US,en;q=0.9")
	client.SetTimeout(time.Second * 25)

	telemetry.InstrumentResty(client, "scrapers/royaleapi/http")

	return &Client{Http: client}, nil
}

// FetchPopularDecks downloads the popular-decks page and returns its
// raw markup.
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
		return "", fmt.Errorf("royaleapi returned status %d", res.StatusCode())
	}
	return res.String(), nil
}
