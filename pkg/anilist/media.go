package anilist

import "encoding/json"

// Media is one anime record as returned by the AniList GraphQL API.
// Scalar fields that can be null are pointers; nested collections that the
// flattener serializes verbatim are kept as json.RawMessage so no detail is
// lost between the wire and the dataset.
type Media struct {
	ID    int     `json:"id"`
	IDMal *int    `json:"idMal"`
	Title *Title  `json:"title"`
	Type  *string `json:"type"`

	Format      *string `json:"format"`
	Status      *string `json:"status"`
	Description *string `json:"description"`

	StartDate *Date `json:"startDate"`
	EndDate   *Date `json:"endDate"`

	Season     *string `json:"season"`
	SeasonYear *int    `json:"seasonYear"`
	SeasonInt  *int    `json:"seasonInt"`

	Episodes *int `json:"episodes"`
	Duration *int `json:"duration"`
	Chapters *int `json:"chapters"`
	Volumes  *int `json:"volumes"`

	CountryOfOrigin *string `json:"countryOfOrigin"`
	IsLicensed      *bool   `json:"isLicensed"`
	Source          *string `json:"source"`
	Hashtag         *string `json:"hashtag"`

	Trailer   *Trailer `json:"trailer"`
	UpdatedAt *int64   `json:"updatedAt"`

	CoverImage  *CoverImage `json:"coverImage"`
	BannerImage *string     `json:"bannerImage"`

	Genres   []string `json:"genres"`
	Synonyms []string `json:"synonyms"`
	Tags     []Tag    `json:"tags"`

	AverageScore *int      `json:"averageScore"`
	MeanScore    *int      `json:"meanScore"`
	Popularity   *int      `json:"popularity"`
	Favourites   *int      `json:"favourites"`
	Trending     *int      `json:"trending"`
	Rankings     []Ranking `json:"rankings"`

	IsFavourite *bool `json:"isFavourite"`
	IsAdult     *bool `json:"isAdult"`
	IsLocked    *bool `json:"isLocked"`

	SiteURL           *string            `json:"siteUrl"`
	ExternalLinks     []ExternalLink     `json:"externalLinks"`
	StreamingEpisodes []StreamingEpisode `json:"streamingEpisodes"`

	Relations  *RelationConnection  `json:"relations"`
	Characters *CharacterConnection `json:"characters"`
	Staff      *StaffConnection     `json:"staff"`
	Studios    *StudioConnection    `json:"studios"`

	NextAiringEpisode json.RawMessage  `json:"nextAiringEpisode"`
	AiringSchedule    *AiringSchedule  `json:"airingSchedule"`
	Recommendations   *Recommendations `json:"recommendations"`
	Reviews           *Reviews         `json:"reviews"`
	Stats             *Stats           `json:"stats"`
}

// Title holds the localized title variants.
type Title struct {
	Romaji        *string `json:"romaji"`
	English       *string `json:"english"`
	Native        *string `json:"native"`
	UserPreferred *string `json:"userPreferred"`
}

// Date is an AniList fuzzy date; any component can be null.
type Date struct {
	Year  *int `json:"year"`
	Month *int `json:"month"`
	Day   *int `json:"day"`
}

// Trailer references the promotional video, absent for most older entries.
type Trailer struct {
	ID        *string `json:"id"`
	Site      *string `json:"site"`
	Thumbnail *string `json:"thumbnail"`
}

// CoverImage holds the cover art URLs and dominant color.
type CoverImage struct {
	ExtraLarge *string `json:"extraLarge"`
	Large      *string `json:"large"`
	Medium     *string `json:"medium"`
	Color      *string `json:"color"`
}

// Tag is one content tag with spoiler flags.
type Tag struct {
	ID               *int    `json:"id"`
	Name             *string `json:"name"`
	Description      *string `json:"description"`
	Category         *string `json:"category"`
	Rank             *int    `json:"rank"`
	IsGeneralSpoiler *bool   `json:"isGeneralSpoiler"`
	IsMediaSpoiler   *bool   `json:"isMediaSpoiler"`
	IsAdult          *bool   `json:"isAdult"`
}

// Ranking is one ranking entry (rated/popular, per year or all-time).
type Ranking struct {
	ID      *int    `json:"id"`
	Rank    *int    `json:"rank"`
	Type    *string `json:"type"`
	Format  *string `json:"format"`
	Year    *int    `json:"year"`
	Season  *string `json:"season"`
	AllTime *bool   `json:"allTime"`
	Context *string `json:"context"`
}

// ExternalLink is a link to an external site (official site, streaming, social).
type ExternalLink struct {
	ID         *int    `json:"id"`
	URL        *string `json:"url"`
	Site       *string `json:"site"`
	Type       *string `json:"type"`
	Language   *string `json:"language"`
	Color      *string `json:"color"`
	Icon       *string `json:"icon"`
	Notes      *string `json:"notes"`
	IsDisabled *bool   `json:"isDisabled"`
}

// StreamingEpisode is one legally streamable episode.
type StreamingEpisode struct {
	Title     *string `json:"title"`
	Thumbnail *string `json:"thumbnail"`
	URL       *string `json:"url"`
	Site      *string `json:"site"`
}

// RelationConnection links related media (sequels, adaptations, ...).
type RelationConnection struct {
	Edges []RelationEdge `json:"edges"`
}

// RelationEdge is one relation with its target node.
type RelationEdge struct {
	ID           *int         `json:"id"`
	RelationType *string      `json:"relationType"`
	Node         RelationNode `json:"node"`
}

// RelationNode is the related media itself.
type RelationNode struct {
	ID     *int            `json:"id"`
	Title  json.RawMessage `json:"title"`
	Type   *string         `json:"type"`
	Format *string         `json:"format"`
	Status *string         `json:"status"`
}

// CharacterConnection lists characters with their voice actors.
type CharacterConnection struct {
	Edges []CharacterEdge `json:"edges"`
}

// CharacterEdge is one character appearance.
type CharacterEdge struct {
	ID          *int            `json:"id"`
	Role        *string         `json:"role"`
	Name        json.RawMessage `json:"name"`
	VoiceActors json.RawMessage `json:"voiceActors"`
	Node        CharacterNode   `json:"node"`
}

// CharacterNode is the character record.
type CharacterNode struct {
	ID          *int            `json:"id"`
	Name        json.RawMessage `json:"name"`
	Image       json.RawMessage `json:"image"`
	Description *string         `json:"description"`
}

// StaffConnection lists production staff.
type StaffConnection struct {
	Edges []StaffEdge `json:"edges"`
}

// StaffEdge is one staff credit.
type StaffEdge struct {
	ID   *int      `json:"id"`
	Role *string   `json:"role"`
	Node StaffNode `json:"node"`
}

// StaffNode is the staff member record.
type StaffNode struct {
	ID         *int            `json:"id"`
	Name       json.RawMessage `json:"name"`
	LanguageV2 *string         `json:"languageV2"`
	Image      json.RawMessage `json:"image"`
}

// StudioConnection lists the producing studios.
type StudioConnection struct {
	Edges []StudioEdge `json:"edges"`
}

// StudioEdge is one studio credit.
type StudioEdge struct {
	ID     *int       `json:"id"`
	IsMain *bool      `json:"isMain"`
	Node   StudioNode `json:"node"`
}

// StudioNode is the studio record.
type StudioNode struct {
	ID                *int    `json:"id"`
	Name              *string `json:"name"`
	IsAnimationStudio *bool   `json:"isAnimationStudio"`
}

// AiringSchedule carries the episode airing times verbatim.
type AiringSchedule struct {
	Nodes json.RawMessage `json:"nodes"`
}

// Recommendations lists user recommendations for similar media.
type Recommendations struct {
	Edges []RecommendationEdge `json:"edges"`
}

// RecommendationEdge wraps one recommendation node.
type RecommendationEdge struct {
	Node RecommendationNode `json:"node"`
}

// RecommendationNode is one recommendation with its community rating.
type RecommendationNode struct {
	ID                  *int            `json:"id"`
	Rating              *int            `json:"rating"`
	MediaRecommendation json.RawMessage `json:"mediaRecommendation"`
}

// Reviews lists user reviews.
type Reviews struct {
	Edges []ReviewEdge `json:"edges"`
}

// ReviewEdge wraps one review node.
type ReviewEdge struct {
	Node ReviewNode `json:"node"`
}

// ReviewNode is one review summary with its scores.
type ReviewNode struct {
	ID      *int    `json:"id"`
	Summary *string `json:"summary"`
	Rating  *int    `json:"rating"`
	Score   *int    `json:"score"`
}

// Stats holds the community score and watch-status distributions.
type Stats struct {
	ScoreDistribution  json.RawMessage `json:"scoreDistribution"`
	StatusDistribution json.RawMessage `json:"statusDistribution"`
}

// PageInfo is the pagination metadata of one Page query.
type PageInfo struct {
	Total       int  `json:"total"`
	CurrentPage int  `json:"currentPage"`
	LastPage    int  `json:"lastPage"`
	HasNextPage bool `json:"hasNextPage"`
	PerPage     int  `json:"perPage"`
}

// Page is one page of media plus its pagination metadata.
type Page struct {
	PageInfo PageInfo `json:"pageInfo"`
	Media    []Media  `json:"media"`
}

// envelope is the GraphQL response wrapper.
type envelope struct {
	Data *struct {
		Page *Page `json:"Page"`
	} `json:"data"`
}
