package constants

import "time"

const (
	CheapSharkCacheTTL = 5 * time.Minute
	RAWGCacheTTL       = 5 * time.Minute
	GameSpotCacheTTL   = 10 * time.Minute
	SteamNewsCacheTTL  = 5 * time.Minute
)

const (
	CheapSharkMinInterval = 250 * time.Millisecond
	RAWGMinInterval       = 250 * time.Millisecond
	GameSpotMinInterval   = 2 * time.Second
	SteamNewsMinInterval  = 100 * time.Millisecond
)

const (
	ExternalAPITimeout = 10 * time.Second
	DatabaseTimeout    = 5 * time.Second
	RequestTimeout     = 30 * time.Second
)

const (
	DBMaxOpenConns    = 100
	DBMaxIdleConns    = 10
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	DealsPageSize        = 60
	DealAlternativeLimit = 4
	PricingPageSize      = 10
	PricingOptionLimit   = 5
	PricingTitleMatch    = 0.92

	GamesPageSize    = 20
	ScreenshotLimit  = 3
	GameTagLimit     = 5
	ReviewsPageSize  = 20
	ReviewImageFetch = 4

	NewsDefaultLimit = 50
	NewsMaxLimit     = 100
	NewsBatchSize    = 5
	NewsPerFeed      = 15
	NewsBatchDelay   = 100 * time.Millisecond
)

const (
	DealPlaceholderImage   = "/placeholder.svg?height=300&width=400"
	GameListPlaceholder    = "/placeholder.svg?height=300&width=400"
	GameDetailPlaceholder  = "/placeholder.svg?height=400&width=600"
	ReviewPlaceholderImage = "/placeholder.svg?height=200&width=300"
)

const UserAgent = "GameHub/1.0"

// Steam app ids polled for the news feed when no feed file is configured.
var DefaultNewsFeeds = []string{
	"730", "440", "570", "1172470", "271590", "1085660", "252490", "1938090", "1245620",
	"1091500", "413150", "892970", "1086940", "1203220", "1517290", "1174180", "1237970",
	"1599340", "1222670", "1449850", "1426210", "1240440", "1328670", "1313860", "1517950",
	"1174370", "1145360", "1097150", "1203630", "1449560", "1623730", "1966720", "1817070",
	"1888930", "1811260", "1172620",
}
