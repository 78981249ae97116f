package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/jose-valero/signals-janitor/internal/domain"
)

// MigratedTable es la única tabla que crean las migraciones embebidas.
const MigratedTable = "signals"

type Config struct {
	DatabaseURL  string        `env:"DATABASE_URL,required,notEmpty"`
	SignalsTable string        `env:"SIGNALS_TABLE" envDefault:"signals"` // con otra tabla, el esquema lo maneja quien la creó
	Policy       domain.Policy `env:"POLICY" envDefault:"age"` // age | status
	CountRows    bool          `env:"COUNT_ROWS" envDefault:"true"`
	DBMaxConns   int32         `env:"DB_MAX_CONNS" envDefault:"4"`

	// solo sweeperd
	SweepSchedule string `env:"SWEEP_SCHEDULE" envDefault:"*/20 * * * *"`
	HTTPAddr      string `env:"HTTP_ADDR" envDefault:":8080"`
	AutoMigrate   bool   `env:"AUTO_MIGRATE" envDefault:"false"`

	// opcionales: alertas de fallo
	DiscordWebhookID    string `env:"DISCORD_WEBHOOK_ID"`
	DiscordWebhookToken string `env:"DISCORD_WEBHOOK_TOKEN"`
}

// Load lee el entorno (main ya cargó .env con godotenv).
func Load() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, cfg.validate()
}

// LoadFrom es lo mismo que Load pero con un entorno explícito (tests).
func LoadFrom(environ map[string]string) (Config, error) {
	cfg, err := env.ParseAsWithOptions[Config](env.Options{Environment: environ})
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, cfg.validate()
}

// validate: AUTO_MIGRATE con otra tabla dejaría a sweeperd barriendo una tabla que nadie creó.
func (c Config) validate() error {
	if c.AutoMigrate && c.SignalsTable != MigratedTable {
		return fmt.Errorf("config: AUTO_MIGRATE only creates table %q, got SIGNALS_TABLE=%q", MigratedTable, c.SignalsTable)
	}
	return nil
}

func (c Config) DiscordEnabled() bool {
	return c.DiscordWebhookID != "" && c.DiscordWebhookToken != ""
}
