package config

const (
	defaultConfigPath            = "~/.config/mediaparse/config.toml"
	defaultCacheDir              = "~/.cache/mediaparse"
	cacheFileName                = "wikidata-cache.json"
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
	defaultLeftoverPolicy        = LeftoverSinglePrimary
	defaultWikidataEndpoint      = "https://www.wikidata.org/w/api.php"
	defaultWikidataUserAgent     = "MediaParser/1.0"
	defaultWikidataLanguage      = "en"
	defaultMinConfidence         = 70
	defaultRequestIntervalMS     = 500
	defaultWikidataTimeoutSecond = 15
	defaultWikidataMaxRetries    = 3
	defaultWikidataSaveEvery     = 25
)

// Leftover URL policies accepted by finalize.leftover_policy.
const (
	LeftoverSinglePrimary = "single_primary"
	LeftoverDistribute    = "distribute"
)

const (
	defaultTitleWithYearPattern = `([^\n()"]+?)\s*\(((?:19|20)\d{2})(?:\s*[-–]\s*\d{2,4})?\)`
	defaultQuotedTitlePattern   = `"([^"\n]{2,})"`
	defaultYearPattern          = `\b((?:19|20)\d{2})\b`
	defaultSeasonEpisodePattern = `\bs\d{1,2}\s*e\d{1,3}\b|\bseasons?\s*\d+(?:\s*[-–]\s*\d+)?(?:\s*,?\s*episodes?\s*\d+)?`
	defaultURLPattern           = `https?://[^\s<>"]+`
	defaultResolutionPattern    = `\b(?:480|576|720|1080|2160)p\b|\b4k\b`
)

func defaultQualityKeywords() []string {
	return []string{
		"4K", "UHD", "2160p", "1080p", "720p", "HDR", "Dolby Vision", "Atmos",
		"Remux", "BluRay", "Blu-ray", "WEB-DL", "WEBRip", "HEVC", "x265", "DTS-HD", "DVD",
	}
}

func defaultTypeKeywords() []TypeKeywords {
	return []TypeKeywords{
		{Type: "game", Keywords: []string{"video game", "game", "steam", "gog.com", "nintendo", "playstation"}},
		{Type: "documentary", Keywords: []string{"documentary", "docuseries"}},
		{Type: "tv_film", Keywords: []string{"tv film", "tv movie", "made-for-tv"}},
		{Type: "tv_series", Keywords: []string{"tv series", "miniseries", "season", "episodes"}},
		{Type: "film", Keywords: []string{"film", "movie"}},
	}
}

func defaultTitleStopwords() []string {
	return []string{
		"download", "downloads", "download links", "link", "links", "here", "mirror",
		"mirrors", "thread", "enjoy", "watch", "the", "a", "an", "---quoted tweet---",
	}
}

func defaultBlockDelimiters() []string {
	return []string{
		`\n\s*\n`,
		`\n---quoted tweet---\n`,
		`\n\s*[-•*▪►➤]\s+`,
		`\n\s*\d{1,2}[.)]\s+`,
	}
}

func defaultURLDomains() []string {
	return []string{
		"mega.nz", "drive.google.com", "mediafire.com", "pixeldrain.com", "gofile.io",
		"transfer.it", "archive.org", "vk.com", "1fichier.com", "terabox.com", "magnet:",
	}
}

func defaultBoilerplateOpeners() []string {
	return []string{
		"download link", "links below", "link below", "link in bio", "all links",
		"mirror", "password", "extract and enjoy",
	}
}

func defaultWatchTriggers() []string {
	return []string{
		"watch list", "watchlist", "want to watch", "must watch", "must-watch",
		"first watches", "now watching", "currently watching", "recommend",
	}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		RegexPatterns: RegexPatterns{
			TitleWithYear: defaultTitleWithYearPattern,
			QuotedTitle:   defaultQuotedTitlePattern,
			Year:          defaultYearPattern,
			SeasonEpisode: defaultSeasonEpisodePattern,
			URL:           defaultURLPattern,
			Resolution:    defaultResolutionPattern,
		},
		QualityKeywords:    defaultQualityKeywords(),
		TypeKeywords:       defaultTypeKeywords(),
		TitleStopwords:     defaultTitleStopwords(),
		BlockDelimiters:    defaultBlockDelimiters(),
		URLDomains:         defaultURLDomains(),
		BoilerplateOpeners: defaultBoilerplateOpeners(),
		WatchList: WatchList{
			Triggers: defaultWatchTriggers(),
		},
		Finalize: Finalize{
			LeftoverPolicy: defaultLeftoverPolicy,
		},
		Wikidata: Wikidata{
			Enabled:           false,
			CacheDir:          defaultCacheDir,
			MinConfidence:     defaultMinConfidence,
			Endpoint:          defaultWikidataEndpoint,
			UserAgent:         defaultWikidataUserAgent,
			Language:          defaultWikidataLanguage,
			RequestIntervalMS: defaultRequestIntervalMS,
			TimeoutSeconds:    defaultWikidataTimeoutSecond,
			MaxRetries:        defaultWikidataMaxRetries,
			SaveEvery:         defaultWikidataSaveEvery,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
