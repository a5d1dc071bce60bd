package config

import "time"

// Config is the root application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Lexicon  LexiconConfig  `yaml:"lexicon"`
	Media    MediaConfig    `yaml:"media"`
	Cleanup  CleanupConfig  `yaml:"cleanup"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	MigrateOnStart  bool          `yaml:"migrate_on_start"   env:"DATABASE_MIGRATE_ON_START"   env-default:"true"`
}

// LexiconConfig holds lexical content settings.
type LexiconConfig struct {
	BaseLang           string `yaml:"base_lang"            env:"LEXICON_BASE_LANG"            env-default:"de"`
	LangsRaw           string `yaml:"langs"                env:"LEXICON_LANGS"                env-default:"en,uk,ru,tr,ar,pl,ro,fr,es,it"`
	MaxMeaningsPerWord int    `yaml:"max_meanings_per_word" env:"LEXICON_MAX_MEANINGS_PER_WORD" env-default:"50"`
	MaxCardsPerMeaning int    `yaml:"max_cards_per_meaning" env:"LEXICON_MAX_CARDS_PER_MEANING" env-default:"50"`

	// WordLinkPattern builds the link target for resolved
	// synonym/antonym tokens; %d is the word id.
	WordLinkPattern string `yaml:"word_link_pattern" env:"LEXICON_WORD_LINK_PATTERN" env-default:"/words/%d/view"`

	// Langs is parsed and canonicalized from LangsRaw during validation.
	Langs []string `yaml:"-" env:"-"`
}

// MediaConfig holds attachment resolver settings. An empty base URL
// selects the static stub resolver.
type MediaConfig struct {
	BaseURL    string        `yaml:"base_url"    env:"MEDIA_BASE_URL"`
	Timeout    time.Duration `yaml:"timeout"     env:"MEDIA_TIMEOUT"     env-default:"5s"`
	URLPattern string        `yaml:"url_pattern" env:"MEDIA_URL_PATTERN" env-default:"/media/%d"`
}

// CleanupConfig holds legacy cleanup reporter settings.
type CleanupConfig struct {
	ReportSchedule string `yaml:"report_schedule" env:"CLEANUP_REPORT_SCHEDULE" env-default:"@daily"`
	Enabled        bool   `yaml:"enabled"         env:"CLEANUP_ENABLED"         env-default:"true"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}
