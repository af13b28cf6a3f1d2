package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Quiz struct {
		BankID              string `yaml:"bank_id"`
		BankFile            string `yaml:"bank_file"`
		BankTTL             string `yaml:"bank_ttl"`
		QuestionsPerAttempt int    `yaml:"questions_per_attempt"`
		SuccessPercent      int    `yaml:"success_percent"`
		PassPercent         int    `yaml:"pass_percent"`
	} `yaml:"quiz"`
	History struct {
		Key        string `yaml:"key"`
		AudioKey   string `yaml:"audio_key"`
		MaxEntries int    `yaml:"max_entries"`
	} `yaml:"history"`
}

// Load reads YAML config from path and fills in defaults.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// ApplyDefaults fills every unset field with its default.
func (c *Config) ApplyDefaults() {
	setDefault(&c.Log.Level, "info")
	setDefault(&c.Log.Format, "json")
	setDefault(&c.Quiz.BankID, "animation")
	setDefaultInt(&c.Quiz.QuestionsPerAttempt, 5)
	setDefaultInt(&c.Quiz.SuccessPercent, 80)
	setDefaultInt(&c.Quiz.PassPercent, 60)
	setDefault(&c.History.Key, "quizHistory")
	setDefault(&c.History.AudioKey, "quizMusicEnabled")
	setDefaultInt(&c.History.MaxEntries, 20)
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}

func setDefault(field *string, value string) {
	if *field == "" {
		*field = value
	}
}

func setDefaultInt(field *int, value int) {
	if *field <= 0 {
		*field = value
	}
}
