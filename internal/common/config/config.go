package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"

	"vocab-progress-backend/internal/common/validation"
)

type Config struct {
	Debug bool `env:"DEBUG" envDefault:"false"`

	Server   ServerConfig
	Redis    RedisConfig
	Postgres PostgresConfig
	Telegram TelegramConfig
	Storage  StorageConfig
	Rewards  RewardsConfig
	Content  ContentConfig
	Events   EventsConfig
}

type ServerConfig struct {
	Port    int      `env:"PORT" envDefault:"8080"`
	Origins []string `env:"ORIGIN" envSeparator:"," envDefault:"http://localhost:3000"`
}

type RedisConfig struct {
	Host     string `env:"REDIS_HOST" envDefault:"localhost"`
	Port     int    `env:"REDIS_PORT" envDefault:"6379"`
	Password string `env:"REDIS_PASSWORD" envDefault:""`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type PostgresConfig struct {
	Host            string        `env:"POSTGRES_HOST" envDefault:"localhost"`
	Port            int           `env:"POSTGRES_PORT" envDefault:"5432"`
	User            string        `env:"POSTGRES_USER" envDefault:"postgres"`
	Password        string        `env:"POSTGRES_PASSWORD" envDefault:""`
	Database        string        `env:"POSTGRES_DB" envDefault:"vocab_progress"`
	SSLMode         string        `env:"POSTGRES_SSLMODE" envDefault:"disable"`
	MaxOpenConns    int           `env:"POSTGRES_MAX_OPEN_CONNS" envDefault:"10"`
	MaxIdleConns    int           `env:"POSTGRES_MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"POSTGRES_CONN_MAX_LIFETIME" envDefault:"30m"`
	AutoMigrate     bool          `env:"DB_AUTO_MIGRATE" envDefault:"true"`
}

// GetDSN собирает строку подключения для lib/pq
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode)
}

type TelegramConfig struct {
	BotToken string `env:"BOT_TOKEN"`
	// Required rejects requests without valid init-data instead of falling back to client ids.
	Required    bool          `env:"TELEGRAM_REQUIRED" envDefault:"false"`
	InitDataTTL time.Duration `env:"INIT_DATA_TTL" envDefault:"24h"`
}

type StorageConfig struct {
	Key        string        `env:"STORAGE_KEY" envDefault:"tzamrot_game_state"`
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"720h"`
	// Durable selects the durable backend: "postgres" or "memory".
	Durable string `env:"DURABLE_BACKEND" envDefault:"postgres"`
}

type RewardsConfig struct {
	LevelOrder             []string       `env:"LEVEL_ORDER" envSeparator:"," envDefault:"FLASHCARDS,IMAGE_QUIZ,MEMORY,SPELLING,ODD_ONE_OUT,QUIZ,SENTENCE_BUILDER,STORY_READING,WORD_INVADERS"`
	PassThreshold          int            `env:"PASS_THRESHOLD" envDefault:"5"`
	MaxScore               int            `env:"MAX_SCORE" envDefault:"1000"`
	DefaultMultiplier      int            `env:"REWARD_MULTIPLIER" envDefault:"1"`
	Multipliers            map[string]int `env:"REWARD_MULTIPLIERS" envSeparator:"," envKeyValSeparator:":"`
	LifetimeCaps           map[string]int `env:"REWARD_LIFETIME_CAPS" envSeparator:"," envKeyValSeparator:":" envDefault:"FLASHCARDS:10"`
	FirstClearBonusMinutes int            `env:"FIRST_CLEAR_BONUS_MINUTES" envDefault:"10"`
}

type ContentConfig struct {
	ExamDate      time.Time `env:"EXAM_DATE" envDefault:"2026-01-07T10:00:00+02:00"`
	QuizSize      int       `env:"QUIZ_SIZE" envDefault:"10"`
	OddOneOutSize int       `env:"ODD_ONE_OUT_SIZE" envDefault:"5"`
}

type EventsConfig struct {
	Enabled bool   `env:"EVENTS_ENABLED" envDefault:"true"`
	Stream  string `env:"EVENTS_STREAM" envDefault:"progress:events"`
	MaxLen  int64  `env:"EVENTS_MAXLEN" envDefault:"10000"`
	Buffer  int    `env:"EVENTS_BUFFER" envDefault:"256"`
}

func Load() (*Config, error) {
	// .env опционален: в production переменные задаются напрямую
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func (c *Config) validate() error {
	if len(c.Rewards.LevelOrder) == 0 {
		return fmt.Errorf("LEVEL_ORDER must list at least one level")
	}
	for _, level := range c.Rewards.LevelOrder {
		if err := validation.ValidateLevelName(level); err != nil {
			return fmt.Errorf("LEVEL_ORDER: %w", err)
		}
	}
	if err := validation.ValidateNonNegativeInt(int64(c.Rewards.PassThreshold), "PASS_THRESHOLD"); err != nil {
		return err
	}
	if c.Rewards.MaxScore <= 0 {
		return fmt.Errorf("MAX_SCORE must be positive")
	}
	if err := validation.ValidateNonNegativeInt(int64(c.Rewards.DefaultMultiplier), "REWARD_MULTIPLIER"); err != nil {
		return err
	}
	if err := validation.ValidateNonNegativeInt(int64(c.Rewards.FirstClearBonusMinutes), "FIRST_CLEAR_BONUS_MINUTES"); err != nil {
		return err
	}
	for level, m := range c.Rewards.Multipliers {
		if err := validation.ValidateNonNegativeInt(int64(m), "REWARD_MULTIPLIERS "+level); err != nil {
			return err
		}
	}
	for level, limit := range c.Rewards.LifetimeCaps {
		if err := validation.ValidateNonNegativeInt(int64(limit), "REWARD_LIFETIME_CAPS "+level); err != nil {
			return err
		}
	}
	switch c.Storage.Durable {
	case "postgres", "memory":
	default:
		return fmt.Errorf("DURABLE_BACKEND must be postgres or memory, got %q", c.Storage.Durable)
	}
	if c.Telegram.Required && c.Telegram.BotToken == "" {
		return fmt.Errorf("TELEGRAM_REQUIRED needs BOT_TOKEN")
	}
	return nil
}
