package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port           string        `mapstructure:"port"`
	WebhookURL     string        `mapstructure:"N8N_WEBHOOK_URL"`
	PollInterval   time.Duration `mapstructure:"poll_interval"`
	ReplyTimeout   time.Duration `mapstructure:"reply_timeout"`
	UploadMaxBytes int64         `mapstructure:"upload_max_bytes"`
	Drive          DriveConfig   `mapstructure:"drive"`
}

type DriveConfig struct {
	FolderID    string `mapstructure:"GOOGLE_DRIVE_FOLDER_ID"`
	ClientEmail string `mapstructure:"GOOGLE_CLIENT_EMAIL"`
	PrivateKey  string `mapstructure:"GOOGLE_PRIVATE_KEY"`
}

func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	v.SetDefault("port", "3000")
	v.SetDefault("poll_interval", "2s")
	v.SetDefault("reply_timeout", "2m")
	v.SetDefault("upload_max_bytes", 10<<20)

	// Secrets come from the environment, never from the config file.
	v.AutomaticEnv()
	v.BindEnv("N8N_WEBHOOK_URL")
	v.BindEnv("drive.GOOGLE_DRIVE_FOLDER_ID", "GOOGLE_DRIVE_FOLDER_ID")
	v.BindEnv("drive.GOOGLE_CLIENT_EMAIL", "GOOGLE_CLIENT_EMAIL")
	v.BindEnv("drive.GOOGLE_PRIVATE_KEY", "GOOGLE_PRIVATE_KEY")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}
