package flatten

// columns is the fixed dataset schema, in the order rows are rendered.
var columns = []string{
	"id",
	"idMal",
	"title_romaji",
	"title_english",
	"title_native",
	"title_userPreferred",
	"type",
	"format",
	"status",
	"description",
	"startDate_year",
	"startDate_month",
	"startDate_day",
	"endDate_year",
	"endDate_month",
	"endDate_day",
	"season",
	"seasonYear",
	"seasonInt",
	"episodes",
	"duration",
	"chapters",
	"volumes",
	"countryOfOrigin",
	"isLicensed",
	"source",
	"hashtag",
	"trailer_id",
	"trailer_site",
	"trailer_thumbnail",
	"updatedAt",
	"coverImage_extraLarge",
	"coverImage_large",
	"coverImage_medium",
	"coverImage_color",
	"bannerImage",
	"genres",
	"synonyms",
	"tags",
	"averageScore",
	"meanScore",
	"popularity",
	"favourites",
	"trending",
	"rankings",
	"isFavourite",
	"isAdult",
	"isLocked",
	"siteUrl",
	"externalLinks",
	"streamingEpisodes",
	"relations",
	"characters",
	"staff",
	"studios",
	"nextAiringEpisode",
	"airingSchedule",
	"recommendations",
	"reviews",
	"stats_scoreDistribution",
	"stats_statusDistribution",
}

// Columns returns the dataset column names in row order.
func Columns() []string {
	out := make([]string, len(columns))
	copy(out, columns)
	return out
}

// Row renders the record as one table row, aligned with Columns().
// Absent scalars render as nil.
func (r Record) Row() []interface{} {
	return []interface{}{
		r.ID,
		opt(r.IDMal),
		opt(r.TitleRomaji),
		opt(r.TitleEnglish),
		opt(r.TitleNative),
		opt(r.TitleUserPreferred),
		opt(r.Type),
		opt(r.Format),
		opt(r.Status),
		opt(r.Description),
		opt(r.StartDateYear),
		opt(r.StartDateMonth),
		opt(r.StartDateDay),
		opt(r.EndDateYear),
		opt(r.EndDateMonth),
		opt(r.EndDateDay),
		opt(r.Season),
		opt(r.SeasonYear),
		opt(r.SeasonInt),
		opt(r.Episodes),
		opt(r.Duration),
		opt(r.Chapters),
		opt(r.Volumes),
		opt(r.CountryOfOrigin),
		opt(r.IsLicensed),
		opt(r.Source),
		opt(r.Hashtag),
		opt(r.TrailerID),
		opt(r.TrailerSite),
		opt(r.TrailerThumbnail),
		opt(r.UpdatedAt),
		opt(r.CoverImageXL),
		opt(r.CoverImageLarge),
		opt(r.CoverImageMedium),
		opt(r.CoverImageColor),
		opt(r.BannerImage),
		r.Genres,
		r.Synonyms,
		r.Tags,
		opt(r.AverageScore),
		opt(r.MeanScore),
		opt(r.Popularity),
		opt(r.Favourites),
		opt(r.Trending),
		r.Rankings,
		opt(r.IsFavourite),
		opt(r.IsAdult),
		opt(r.IsLocked),
		opt(r.SiteURL),
		r.ExternalLinks,
		r.StreamingEpisodes,
		r.Relations,
		r.Characters,
		r.Staff,
		r.Studios,
		opt(r.NextAiringEpisode),
		r.AiringSchedule,
		r.Recommendations,
		r.Reviews,
		r.ScoreDistribution,
		r.StatusDistribution,
	}
}

// opt unwraps an optional scalar for row rendering.
func opt[T any](p *T) interface{} {
	if p == nil {
		return nil
	}
	return *p
}
