package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/bcdannyboy/lattice/models"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultSpot     = 120
	defaultStrike   = 120
	defaultMaturity = 1
	defaultRate     = 0.04
	defaultSteps    = 3
	defaultUp       = 1.2
	defaultKind     = models.Call
)

// Pricing holds the lattice inputs.
type Pricing struct {
	Spot     float64
	Strike   float64
	Maturity float64
	Rate     float64
	Steps    int
	Up       float64
	Down     float64
	Kind     models.OptionKind
}

type TradierConfig struct {
	Token   string
	BaseURL string
}

type SlackConfig struct {
	AppToken string
	BotToken string
}

type Config struct {
	Pricing Pricing
	Tradier TradierConfig
	Slack   SlackConfig
}

func Defaults() Config {
	return Config{
		Pricing: Pricing{
			Spot:     defaultSpot,
			Strike:   defaultStrike,
			Maturity: defaultMaturity,
			Rate:     defaultRate,
			Steps:    defaultSteps,
			Up:       defaultUp,
			Down:     1 / defaultUp,
			Kind:     defaultKind,
		},
	}
}

// Load layers the defaults, the optional YAML file at path and the
// environment (including a .env file in the working directory, if present).
// A source that sets up without down gets d = 1/u.
func Load(path string) (Config, error) {
	cfg := Defaults()

	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

type fileConfig struct {
	Pricing struct {
		Spot     *float64 `yaml:"spot"`
		Strike   *float64 `yaml:"strike"`
		Maturity *float64 `yaml:"maturity"`
		Rate     *float64 `yaml:"rate"`
		Steps    *int     `yaml:"steps"`
		Up       *float64 `yaml:"up"`
		Down     *float64 `yaml:"down"`
		Kind     *string  `yaml:"kind"`
	} `yaml:"pricing"`
	Tradier struct {
		BaseURL string `yaml:"base_url"`
	} `yaml:"tradier"`
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var file fileConfig
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	p := file.Pricing
	setFloat(&cfg.Pricing.Spot, p.Spot)
	setFloat(&cfg.Pricing.Strike, p.Strike)
	setFloat(&cfg.Pricing.Maturity, p.Maturity)
	setFloat(&cfg.Pricing.Rate, p.Rate)
	if p.Steps != nil {
		cfg.Pricing.Steps = *p.Steps
	}
	setFactors(&cfg.Pricing, p.Up, p.Down)
	if p.Kind != nil {
		kind, err := models.ParseOptionKind(*p.Kind)
		if err != nil {
			return fmt.Errorf("parse config %s: %w", path, err)
		}
		cfg.Pricing.Kind = kind
	}

	if file.Tradier.BaseURL != "" {
		cfg.Tradier.BaseURL = file.Tradier.BaseURL
	}
	return nil
}

func applyEnv(cfg *Config) error {
	values := make(map[string]*float64)
	for _, key := range []string{"LATTICE_SPOT", "LATTICE_STRIKE", "LATTICE_MATURITY", "LATTICE_RATE", "LATTICE_UP", "LATTICE_DOWN"} {
		v, err := getFloat(key)
		if err != nil {
			return err
		}
		values[key] = v
	}
	setFloat(&cfg.Pricing.Spot, values["LATTICE_SPOT"])
	setFloat(&cfg.Pricing.Strike, values["LATTICE_STRIKE"])
	setFloat(&cfg.Pricing.Maturity, values["LATTICE_MATURITY"])
	setFloat(&cfg.Pricing.Rate, values["LATTICE_RATE"])
	setFactors(&cfg.Pricing, values["LATTICE_UP"], values["LATTICE_DOWN"])

	if value, ok := lookup("LATTICE_STEPS"); ok {
		steps, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("convert LATTICE_STEPS value %q to int: %w", value, err)
		}
		cfg.Pricing.Steps = steps
	}

	if value, ok := lookup("LATTICE_KIND"); ok {
		kind, err := models.ParseOptionKind(value)
		if err != nil {
			return fmt.Errorf("parse LATTICE_KIND: %w", err)
		}
		cfg.Pricing.Kind = kind
	}

	cfg.Tradier.Token = getString("TRADIER_KEY", cfg.Tradier.Token)
	cfg.Tradier.BaseURL = getString("TRADIER_BASE_URL", cfg.Tradier.BaseURL)
	cfg.Slack.AppToken = getString("SLACK_APP_TOKEN", cfg.Slack.AppToken)
	cfg.Slack.BotToken = getString("SLACK_BOT_TOKEN", cfg.Slack.BotToken)
	return nil
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func setFactors(p *Pricing, up, down *float64) {
	if up != nil {
		p.Up = *up
		if down == nil && *up != 0 {
			p.Down = 1 / *up
		}
	}
	setFloat(&p.Down, down)
}

func lookup(key string) (string, bool) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return "", false
	}
	return value, true
}

func getString(key, fallback string) string {
	if value, ok := lookup(key); ok {
		return value
	}
	return fallback
}

func getFloat(key string) (*float64, error) {
	value, ok := lookup(key)
	if !ok {
		return nil, nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("convert %s value %q to float: %w", key, value, err)
	}
	return &parsed, nil
}
