package clashroyale

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"

	"go.opentelemetry.io/otel/codes"
)

type PlayerCard struct {
	ID             int64
	Name           string
	Level          int64
	MaxLevel       *int64
	StarLevel      *int64
	EvolutionLevel *int64
}

// PlayerProfile is ephemeral: fetched per request, never persisted
// (apart from the optional debug snapshot artifact).
type PlayerProfile struct {
	Tag          string
	Name         string
	ExpLevel     int64
	Trophies     int64
	BestTrophies *int64
	Cards        []PlayerCard
}

// LevelByCardID builds the card id to level lookup the recommendation
// engine consumes.
func (p PlayerProfile) LevelByCardID() map[int64]int64 {
	levels := make(map[int64]int64, len(p.Cards))
	for _, card := range p.Cards {
		levels[card.ID] = card.Level
	}
	return levels
}

type playerCardResponse struct {
	ID             *int64 `json:"id"`
	Name           string `json:"name"`
	Level          int64  `json:"level"`
	MaxLevel       *int64 `json:"maxLevel"`
	StarLevel      *int64 `json:"starLevel"`
	EvolutionLevel *int64 `json:"evolutionLevel"`
}

type playerResponse struct {
	Tag          string               `json:"tag"`
	Name         string               `json:"name"`
	ExpLevel     int64                `json:"expLevel"`
	Trophies     int64                `json:"trophies"`
	BestTrophies *int64               `json:"bestTrophies"`
	Cards        []playerCardResponse `json:"cards"`
}

// GetPlayer fetches a player's profile by tag. The tag is normalized
// first, so user input may be passed directly. Not-found, forbidden
// and other upstream failures come back as distinguishable error
// kinds (ErrPlayerNotFound, ErrForbidden, *APIError).
func (c *Client) GetPlayer(ctx context.Context, rawTag string) (PlayerProfile, error) {
	ctx, span := tracer.Start(ctx, "GetPlayer")
	defer span.End()

	tag, err := NormalizeTag(rawTag)
	if err != nil {
		return PlayerProfile{}, err
	}

	res, err := c.Http.R().
		SetContext(ctx).
		Get(fmt.Sprintf("/players/%s", url.PathEscape(tag)))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch player")
		return PlayerProfile{}, err
	}
	if res.StatusCode() != 200 {
		err = statusError(res.StatusCode())
		span.RecordError(err)
		span.SetStatus(codes.Error, "upstream rejected player fetch")
		return PlayerProfile{}, err
	}

	var data playerResponse
	err = json.Unmarshal(res.Body(), &data)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to decode player response")
		return PlayerProfile{}, fmt.Errorf("failed to decode player response: %w", err)
	}

	snap := c.SaveSnapshot(data.Tag, res.Body())
	if snap.Saved {
		slog.DebugContext(ctx, "saved player snapshot", "path", snap.Path)
	} else if snap.Reason != "" {
		slog.DebugContext(ctx, "skipped player snapshot", "reason", snap.Reason)
	}

	profile := PlayerProfile{
		Tag:          data.Tag,
		Name:         data.Name,
		ExpLevel:     data.ExpLevel,
		Trophies:     data.Trophies,
		BestTrophies: data.BestTrophies,
	}
	if profile.Tag == "" {
		profile.Tag = tag
	}
	for _, raw := range data.Cards {
		if raw.ID == nil {
			continue
		}
		profile.Cards = append(profile.Cards, PlayerCard{
			ID:             *raw.ID,
			Name:           raw.Name,
			Level:          raw.Level,
			MaxLevel:       raw.MaxLevel,
			StarLevel:      raw.StarLevel,
			EvolutionLevel: raw.EvolutionLevel,
		})
	}

	return profile, nil
}
