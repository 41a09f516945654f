package consts

const (
	// inbound query parameters
	ParamStartDate   = "start_date"
	ParamEndDate     = "end_date"
	ParamDate        = "date"
	ParamThumbs      = "thumbs"
	ParamHd          = "hd"
	ParamConceptTags = "concept_tags"
	ParamCount       = "count"
	ParamDetailed    = "detailed"
	ParamLatitude    = "latitude"
	ParamLongitude   = "longitude"
	ParamDim         = "dim"

	ParamMostAccurateOnly  = "mostAccurateOnly"
	ParamCompleteEntryOnly = "completeEntryOnly"
	ParamSpeed             = "speed"
	ParamHalfAngle         = "halfAngle"
	ParamCatalog           = "catalog"
	ParamKeyword           = "keyword"
	ParamLocation          = "location"
	ParamType              = "type"

	// upstream names that differ from the inbound ones
	UpstreamStartDate = "startDate"
	UpstreamEndDate   = "endDate"
	UpstreamLat       = "lat"
	UpstreamLon       = "lon"

	TimeFormat = "2006-01-02"

	ApiKey = "api_key"

	// environment
	EnvApiKey          = "NASA_API_KEY"
	Token              = "TOKEN"
	EnvAppPort         = "APP_PORT"
	EnvNasaURL         = "NASA_API_URL"
	EnvEpicURL         = "EPIC_API_URL"
	EnvNeoLookup       = "NEO_LOOKUP_STRATEGY"
	EnvClientTimeout   = "HTTP_CLIENT_TIMEOUT"
	EnvRateLimitRPS    = "RATE_LIMIT_RPS"
	EnvRateLimitBurst  = "RATE_LIMIT_BURST"
	EnvArchiveSchedule = "APOD_ARCHIVE_SCHEDULE"
	EnvLogLevel        = "LOG_LEVEL"

	EnvDBHost     = "DB_HOST"
	EnvDBPort     = "DB_PORT"
	EnvDBUsername = "DB_USERNAME"
	EnvDBPassword = "DB_PASSWORD"
	EnvDBName     = "DB_NAME"
	EnvDBSSLMode  = "DB_SSLMODE"

	DefaultNasaURL = "https://api.nasa.gov"
	DefaultEpicURL = "https://epic.gsfc.nasa.gov"
	DefaultPort    = "8080"

	// upstream paths
	PathApod       = "/planetary/apod"
	PathNeoFeed    = "/neo/rest/v1/feed"
	PathNeoBrowse  = "/neo/rest/v1/neo/browse/"
	PathDonki      = "/DONKI/"
	PathEarthImage = "/planetary/earth/imagery"
	PathEarthAsset = "/planetary/earth/assets"
	PathEpicApi    = "/api"
	PathEpicArch   = "/archive/"

	True  = "true"
	False = "false"
)
