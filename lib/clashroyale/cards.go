package clashroyale

import (
	"context"
	"encoding/json"
	"fmt"

	"go.opentelemetry.io/otel/codes"
)

// CatalogCard is one entry of the game's full card catalog.
type CatalogCard struct {
	ID                int64
	Name              string
	MaxLevel          *int64
	MaxEvolutionLevel *int64
	MaxStarLevel      *int64
	IconUrl           string
}

type catalogCardResponse struct {
	ID                *int64 `json:"id"`
	Name              string `json:"name"`
	MaxLevel          *int64 `json:"maxLevel"`
	MaxEvolutionLevel *int64 `json:"maxEvolutionLevel"`
	MaxStarLevel      *int64 `json:"maxStarLevel"`
	IconUrls          struct {
		Medium string `json:"medium"`
	} `json:"iconUrls"`
}

type cardsResponse struct {
	Items []catalogCardResponse `json:"items"`
}

// GetCards fetches the complete card catalog. Entries without an id
// or name are dropped rather than imported half-formed.
func (c *Client) GetCards(ctx context.Context) ([]CatalogCard, error) {
	ctx, span := tracer.Start(ctx, "GetCards")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		Get("/cards")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch cards")
		return nil, err
	}
	if res.StatusCode() != 200 {
		err = statusError(res.StatusCode())
		span.RecordError(err)
		span.SetStatus(codes.Error, "upstream rejected cards fetch")
		return nil, err
	}

	var data cardsResponse
	err = json.Unmarshal(res.Body(), &data)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to decode cards response")
		return nil, fmt.Errorf("failed to decode cards response: %w", err)
	}

	var cards []CatalogCard
	for _, item := range data.Items {
		if item.ID == nil || item.Name == "" {
			continue
		}
		cards = append(cards, CatalogCard{
			ID:                *item.ID,
			Name:              item.Name,
			MaxLevel:          item.MaxLevel,
			MaxEvolutionLevel: item.MaxEvolutionLevel,
			MaxStarLevel:      item.MaxStarLevel,
			IconUrl:           item.IconUrls.Medium,
		})
	}

	return cards, nil
}
