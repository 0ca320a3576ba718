// Package flatten converts nested AniList media records into flat rows
// suitable for a tabular dataset. Scalar attributes become typed columns;
// nested collections are serialized as JSON text so no detail is lost.
package flatten

import (
	"encoding/json"

	"github.com/anidata/anilist-compiler/pkg/anilist"
)

// Record is one media entry reduced to a flat row. Nullable scalars are
// pointers (nil renders as an empty cell); collection columns hold JSON
// text and default to "[]" when the source field is absent.
type Record struct {
	ID                 int     `json:"id"`
	IDMal              *int    `json:"idMal"`
	TitleRomaji        *string `json:"title_romaji"`
	TitleEnglish       *string `json:"title_english"`
	TitleNative        *string `json:"title_native"`
	TitleUserPreferred *string `json:"title_userPreferred"`
	Type               *string `json:"type"`
	Format             *string `json:"format"`
	Status             *string `json:"status"`
	Description        *string `json:"description"`
	StartDateYear      *int    `json:"startDate_year"`
	StartDateMonth     *int    `json:"startDate_month"`
	StartDateDay       *int    `json:"startDate_day"`
	EndDateYear        *int    `json:"endDate_year"`
	EndDateMonth       *int    `json:"endDate_month"`
	EndDateDay         *int    `json:"endDate_day"`
	Season             *string `json:"season"`
	SeasonYear         *int    `json:"seasonYear"`
	SeasonInt          *int    `json:"seasonInt"`
	Episodes           *int    `json:"episodes"`
	Duration           *int    `json:"duration"`
	Chapters           *int    `json:"chapters"`
	Volumes            *int    `json:"volumes"`
	CountryOfOrigin    *string `json:"countryOfOrigin"`
	IsLicensed         *bool   `json:"isLicensed"`
	Source             *string `json:"source"`
	Hashtag            *string `json:"hashtag"`
	TrailerID          *string `json:"trailer_id"`
	TrailerSite        *string `json:"trailer_site"`
	TrailerThumbnail   *string `json:"trailer_thumbnail"`
	UpdatedAt          *int64  `json:"updatedAt"`
	CoverImageXL       *string `json:"coverImage_extraLarge"`
	CoverImageLarge    *string `json:"coverImage_large"`
	CoverImageMedium   *string `json:"coverImage_medium"`
	CoverImageColor    *string `json:"coverImage_color"`
	BannerImage        *string `json:"bannerImage"`
	Genres             string  `json:"genres"`
	Synonyms           string  `json:"synonyms"`
	Tags               string  `json:"tags"`
	AverageScore       *int    `json:"averageScore"`
	MeanScore          *int    `json:"meanScore"`
	Popularity         *int    `json:"popularity"`
	Favourites         *int    `json:"favourites"`
	Trending           *int    `json:"trending"`
	Rankings           string  `json:"rankings"`
	IsFavourite        *bool   `json:"isFavourite"`
	IsAdult            *bool   `json:"isAdult"`
	IsLocked           *bool   `json:"isLocked"`
	SiteURL            *string `json:"siteUrl"`
	ExternalLinks      string  `json:"externalLinks"`
	StreamingEpisodes  string  `json:"streamingEpisodes"`
	Relations          string  `json:"relations"`
	Characters         string  `json:"characters"`
	Staff              string  `json:"staff"`
	Studios            string  `json:"studios"`
	NextAiringEpisode  *string `json:"nextAiringEpisode"`
	AiringSchedule     string  `json:"airingSchedule"`
	Recommendations    string  `json:"recommendations"`
	Reviews            string  `json:"reviews"`
	ScoreDistribution  string  `json:"stats_scoreDistribution"`
	StatusDistribution string  `json:"stats_statusDistribution"`
}

// Flatten reduces one media record to a flat row. It is total: every
// optional access defaults to a safe empty value, so a record with no
// trailer, no cover image or no airing data still yields a complete,
// schema-consistent row.
func Flatten(m anilist.Media) Record {
	r := Record{
		ID:              m.ID,
		IDMal:           m.IDMal,
		Type:            m.Type,
		Format:          m.Format,
		Status:          m.Status,
		Description:     m.Description,
		Season:          m.Season,
		SeasonYear:      m.SeasonYear,
		SeasonInt:       m.SeasonInt,
		Episodes:        m.Episodes,
		Duration:        m.Duration,
		Chapters:        m.Chapters,
		Volumes:         m.Volumes,
		CountryOfOrigin: m.CountryOfOrigin,
		IsLicensed:      m.IsLicensed,
		Source:          m.Source,
		Hashtag:         m.Hashtag,
		UpdatedAt:       m.UpdatedAt,
		BannerImage:     m.BannerImage,
		AverageScore:    m.AverageScore,
		MeanScore:       m.MeanScore,
		Popularity:      m.Popularity,
		Favourites:      m.Favourites,
		Trending:        m.Trending,
		IsFavourite:     m.IsFavourite,
		IsAdult:         m.IsAdult,
		IsLocked:        m.IsLocked,
		SiteURL:         m.SiteURL,
	}

	if m.Title != nil {
		r.TitleRomaji = m.Title.Romaji
		r.TitleEnglish = m.Title.English
		r.TitleNative = m.Title.Native
		r.TitleUserPreferred = m.Title.UserPreferred
	}

	if m.StartDate != nil {
		r.StartDateYear = m.StartDate.Year
		r.StartDateMonth = m.StartDate.Month
		r.StartDateDay = m.StartDate.Day
	}

	if m.EndDate != nil {
		r.EndDateYear = m.EndDate.Year
		r.EndDateMonth = m.EndDate.Month
		r.EndDateDay = m.EndDate.Day
	}

	if m.Trailer != nil {
		r.TrailerID = m.Trailer.ID
		r.TrailerSite = m.Trailer.Site
		r.TrailerThumbnail = m.Trailer.Thumbnail
	}

	if m.CoverImage != nil {
		r.CoverImageXL = m.CoverImage.ExtraLarge
		r.CoverImageLarge = m.CoverImage.Large
		r.CoverImageMedium = m.CoverImage.Medium
		r.CoverImageColor = m.CoverImage.Color
	}

	r.Genres = jsonArray(m.Genres)
	r.Synonyms = jsonArray(m.Synonyms)
	r.Tags = jsonArray(m.Tags)
	r.Rankings = jsonArray(m.Rankings)
	r.ExternalLinks = jsonArray(m.ExternalLinks)
	r.StreamingEpisodes = jsonArray(m.StreamingEpisodes)

	r.Relations = jsonArray(relationEdges(m.Relations))
	r.Characters = jsonArray(characterEdges(m.Characters))
	r.Staff = jsonArray(staffEdges(m.Staff))
	r.Studios = jsonArray(studioEdges(m.Studios))
	r.Recommendations = jsonArray(recommendationEdges(m.Recommendations))
	r.Reviews = jsonArray(reviewEdges(m.Reviews))

	if raw := rawOrEmpty(m.NextAiringEpisode); raw != "" {
		r.NextAiringEpisode = &raw
	}

	r.AiringSchedule = emptyList
	if m.AiringSchedule != nil {
		if raw := rawOrEmpty(m.AiringSchedule.Nodes); raw != "" {
			r.AiringSchedule = raw
		}
	}

	r.ScoreDistribution = emptyList
	r.StatusDistribution = emptyList
	if m.Stats != nil {
		if raw := rawOrEmpty(m.Stats.ScoreDistribution); raw != "" {
			r.ScoreDistribution = raw
		}
		if raw := rawOrEmpty(m.Stats.StatusDistribution); raw != "" {
			r.StatusDistribution = raw
		}
	}

	return r
}

const emptyList = "[]"

// jsonArray serializes a slice as JSON text, rendering nil as "[]" so the
// column is always a valid JSON array.
func jsonArray[T any](items []T) string {
	if items == nil {
		items = []T{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return emptyList
	}
	return string(b)
}

// rawOrEmpty returns verbatim JSON text, or "" for absent/null payloads.
func rawOrEmpty(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	return string(raw)
}

func relationEdges(c *anilist.RelationConnection) []anilist.RelationEdge {
	if c == nil {
		return nil
	}
	return c.Edges
}

func characterEdges(c *anilist.CharacterConnection) []anilist.CharacterEdge {
	if c == nil {
		return nil
	}
	return c.Edges
}

func staffEdges(c *anilist.StaffConnection) []anilist.StaffEdge {
	if c == nil {
		return nil
	}
	return c.Edges
}

func studioEdges(c *anilist.StudioConnection) []anilist.StudioEdge {
	if c == nil {
		return nil
	}
	return c.Edges
}

func recommendationEdges(c *anilist.Recommendations) []anilist.RecommendationEdge {
	if c == nil {
		return nil
	}
	return c.Edges
}

func reviewEdges(c *anilist.Reviews) []anilist.ReviewEdge {
	if c == nil {
		return nil
	}
	return c.Edges
}
