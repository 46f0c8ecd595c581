package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone  = "UTC"
	configPathEnv    = "ROLE_MATCHER_CONFIG"
	databaseDSNEnv   = "DATABASE_DSN"
	telegramTokenEnv = "TELEGRAM_BOT_TOKEN"
	telegramChatEnv  = "TELEGRAM_CHAT_ID"
)

// Config holds high-level settings required across the application.
type Config struct {
	Database      DatabaseConfig     `yaml:"database"`
	Logging       LoggingConfig      `yaml:"logging"`
	Scheduler     SchedulerConfig    `yaml:"scheduler"`
	Companies     []CompanyConfig    `yaml:"companies"`
	Scoring       ScoringConfig      `yaml:"scoring"`
	Notifications NotificationConfig `yaml:"notifications"`
}

// DatabaseConfig describes Postgres connection details.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// LoggingConfig controls log verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// SchedulerConfig defines when refresh cycles run.
type SchedulerConfig struct {
	CronExpression string         `yaml:"cronExpression"`
	Timezone       string         `yaml:"timezone"`
	location       *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// CompanyConfig describes a single monitored careers system.
type CompanyConfig struct {
	Name       string `yaml:"name"`
	CareersURL string `yaml:"careersUrl"`
	Adapter    string `yaml:"adapter"`
}

// NotificationConfig encapsulates outbound channels.
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to send digest messages.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// ScoringConfig groups the weights, keyword tiers, and geography preferences
// consumed by the extractor and scoring engine.
type ScoringConfig struct {
	Weights   ScoringWeights  `yaml:"weights"`
	Keywords  KeywordConfig   `yaml:"keywords"`
	Geography GeographyConfig `yaml:"geography"`
}

// ScoringWeights are the per-dimension contributions to the 0-100 fit score.
type ScoringWeights struct {
	Seniority      int `yaml:"seniority"`
	PnL            int `yaml:"pnl"`
	Transformation int `yaml:"transformation"`
	Industry       int `yaml:"industry"`
	Geo            int `yaml:"geo"`
	BannedPenalty  int `yaml:"bannedPenalty"`
}

// KeywordConfig holds the tiered keyword lists for each extraction dimension.
// Matching is case-insensitive substring search in list order.
type KeywordConfig struct {
	SeniorityVP             []string `yaml:"seniorityVp"`
	SenioritySeniorDirector []string `yaml:"senioritySeniorDirector"`
	SeniorityDirector       []string `yaml:"seniorityDirector"`
	PnLStrong               []string `yaml:"pnlStrong"`
	PnLMedium               []string `yaml:"pnlMedium"`
	Transformation          []string `yaml:"transformation"`
	IndustryStrong          []string `yaml:"industryStrong"`
	IndustryAdjacent        []string `yaml:"industryAdjacent"`
}

// GeographyConfig lists preferred and banned geographies. The two lists are
// checked independently: a location can match both.
type GeographyConfig struct {
	Preferred []string `yaml:"preferred"`
	Banned    []string `yaml:"banned"`
}

// Load reads YAML configuration (if present), applies environment overrides,
// and validates the result. Invalid configuration is a startup failure.
func Load() (Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		var fileCfg Config
		if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
		cfg = mergeConfig(cfg, fileCfg)
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks the structural invariants the pipeline depends on.
func (c Config) Validate() error {
	if c.Database.DSN == "" {
		return fmt.Errorf("config: database.dsn is required")
	}
	if len(c.Companies) == 0 {
		return fmt.Errorf("config: at least one company is required")
	}
	for _, company := range c.Companies {
		if company.Name == "" || company.CareersURL == "" || company.Adapter == "" {
			return fmt.Errorf("config: company %q must set name, careersUrl, and adapter", company.Name)
		}
	}
	w := c.Scoring.Weights
	weights := map[string]int{
		"seniority":      w.Seniority,
		"pnl":            w.PnL,
		"transformation": w.Transformation,
		"industry":       w.Industry,
		"geo":            w.Geo,
		"bannedPenalty":  w.BannedPenalty,
	}
	for name, value := range weights {
		if value < 0 {
			return fmt.Errorf("config: scoring weight %s must not be negative", name)
		}
	}
	kw := c.Scoring.Keywords
	required := map[string][]string{
		"seniorityVp":       kw.SeniorityVP,
		"seniorityDirector": kw.SeniorityDirector,
		"pnlStrong":         kw.PnLStrong,
		"transformation":    kw.Transformation,
		"industryStrong":    kw.IndustryStrong,
	}
	for name, list := range required {
		if len(list) == 0 {
			return fmt.Errorf("config: keyword list %s must not be empty", name)
		}
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}

	if v := os.Getenv(telegramChatEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Scheduler.location = loc
}

func mergeConfig(base, override Config) Config {
	if override.Database.DSN != "" {
		base.Database = override.Database
	}

	if override.Logging.Level != "" {
		base.Logging = override.Logging
	}

	if override.Scheduler.CronExpression != "" {
		base.Scheduler.CronExpression = override.Scheduler.CronExpression
	}
	if override.Scheduler.Timezone != "" {
		base.Scheduler.Timezone = override.Scheduler.Timezone
	}

	if len(override.Companies) > 0 {
		base.Companies = override.Companies
	}

	if override.Notifications.Telegram.BotToken != "" {
		base.Notifications.Telegram.BotToken = override.Notifications.Telegram.BotToken
	}
	if override.Notifications.Telegram.ChatID != "" {
		base.Notifications.Telegram.ChatID = override.Notifications.Telegram.ChatID
	}

	base.Scoring = mergeScoring(base.Scoring, override.Scoring)

	return base
}

func mergeScoring(base, override ScoringConfig) ScoringConfig {
	if override.Weights != (ScoringWeights{}) {
		base.Weights = override.Weights
	}

	kw := &base.Keywords
	if len(override.Keywords.SeniorityVP) > 0 {
		kw.SeniorityVP = override.Keywords.SeniorityVP
	}
	if len(override.Keywords.SenioritySeniorDirector) > 0 {
		kw.SenioritySeniorDirector = override.Keywords.SenioritySeniorDirector
	}
	if len(override.Keywords.SeniorityDirector) > 0 {
		kw.SeniorityDirector = override.Keywords.SeniorityDirector
	}
	if len(override.Keywords.PnLStrong) > 0 {
		kw.PnLStrong = override.Keywords.PnLStrong
	}
	if len(override.Keywords.PnLMedium) > 0 {
		kw.PnLMedium = override.Keywords.PnLMedium
	}
	if len(override.Keywords.Transformation) > 0 {
		kw.Transformation = override.Keywords.Transformation
	}
	if len(override.Keywords.IndustryStrong) > 0 {
		kw.IndustryStrong = override.Keywords.IndustryStrong
	}
	if len(override.Keywords.IndustryAdjacent) > 0 {
		kw.IndustryAdjacent = override.Keywords.IndustryAdjacent
	}

	if len(override.Geography.Preferred) > 0 {
		base.Geography.Preferred = override.Geography.Preferred
	}
	if len(override.Geography.Banned) > 0 {
		base.Geography.Banned = override.Geography.Banned
	}

	return base
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Logging:   LoggingConfig{Level: "info"},
		Scheduler: SchedulerConfig{CronExpression: "0 */6 * * *", Timezone: defaultTimezone, location: tz},
		Scoring: ScoringConfig{
			Weights: ScoringWeights{
				Seniority:      30,
				PnL:            20,
				Transformation: 20,
				Industry:       20,
				Geo:            10,
				BannedPenalty:  10,
			},
			Keywords: KeywordConfig{
				SeniorityVP:             []string{"vp", "vice president"},
				SenioritySeniorDirector: []string{"senior director", "sr director", "sr. director"},
				SeniorityDirector:       []string{"director"},
				PnLStrong: []string{
					"p&l", "p & l", "profit and loss",
					"profitability", "ebitda",
					"budget control", "cost reduction",
					"financial accountability",
				},
				PnLMedium: []string{
					"commercial growth", "revenue targets",
					"portfolio margin", "revenue growth",
					"business results", "financial performance",
				},
				Transformation: []string{
					"digital transformation",
					"erp modernization", "erp implementation",
					"post-acquisition integration", "post acquisition integration",
					"operational transformation",
					"technology roadmap",
					"business transformation",
					"modernization", "digitalization",
					"system integration",
				},
				IndustryStrong: []string{
					"industrial iot", "iiot",
					"factory automation", "manufacturing automation",
					"electrification", "ev batteries", "battery",
					"energy systems", "energy storage",
					"regulated environments", "regulated industry",
					"industry 4.0", "smart manufacturing",
					"industrial ai", "predictive maintenance",
					"scada", "plc", "mes",
				},
				IndustryAdjacent: []string{
					"enterprise software", "saas platform",
					"cloud infrastructure", "data analytics",
					"machine learning", "artificial intelligence",
				},
			},
			Geography: GeographyConfig{
				Preferred: []string{"latam", "latin america", "mexico", "brazil", "multi-country"},
			},
		},
	}
}
