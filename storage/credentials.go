package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	ProductionURL = "https://api.gemini.com"
	SandboxURL    = "https://api.sandbox.gemini.com"
)

type environmentSettings struct {
	APIURL              string  `yaml:"api_url"`
	ClientKey           string  `yaml:"client_key"`
	ClientSecret        string  `yaml:"client_secret"`
	SNSTopic            string  `yaml:"sns_topic"`
	AWSAccessKeyID      string  `yaml:"aws_access_key_id"`
	AWSSecretAccessKey  string  `yaml:"aws_secret_access_key"`
	AWSRegion           string  `yaml:"aws_region"`
	TelegramBotAPIToken string  `yaml:"telegram_bot_api_token"`
	TelegramChatIDs     []int64 `yaml:"telegram_chat_ids"`
	DatabaseDSN         string  `yaml:"database_dsn"`
}

type settingsFile struct {
	LogLevel   string              `yaml:"log_level"`
	Production environmentSettings `yaml:"production"`
	Sandbox    environmentSettings `yaml:"sandbox"`
}

// Credentials holds the settings of the selected environment.
type Credentials struct {
	sandbox  bool
	logLevel string
	settings environmentSettings
}

// LoadCredentials reads the production or sandbox section of the settings file,
// then lets .env files and environment variables override it.
func LoadCredentials(path string, sandbox bool) (*Credentials, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var file settingsFile

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read settings %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse settings %s: %w", path, err)
		}
	}

	credentials := Credentials{sandbox: sandbox, logLevel: file.LogLevel, settings: file.Production}
	if sandbox {
		credentials.settings = file.Sandbox
	}

	if err := credentials.overrideWithEnv(); err != nil {
		return nil, err
	}

	if credentials.settings.APIURL == "" {
		credentials.settings.APIURL = ProductionURL
		if sandbox {
			credentials.settings.APIURL = SandboxURL
		}
	}
	credentials.settings.APIURL = strings.TrimRight(credentials.settings.APIURL, "/")

	if err := credentials.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings in %s: %w", path, err)
	}

	return &credentials, nil
}

func (credentials *Credentials) overrideWithEnv() error {
	overrides := map[string]*string{
		"GEMINI_API_URL":         &credentials.settings.APIURL,
		"GEMINI_API_KEY":         &credentials.settings.ClientKey,
		"GEMINI_API_SECRET":      &credentials.settings.ClientSecret,
		"SNS_TOPIC":              &credentials.settings.SNSTopic,
		"AWS_ACCESS_KEY_ID":      &credentials.settings.AWSAccessKeyID,
		"AWS_SECRET_ACCESS_KEY":  &credentials.settings.AWSSecretAccessKey,
		"AWS_REGION":             &credentials.settings.AWSRegion,
		"TELEGRAM_BOT_API_TOKEN": &credentials.settings.TelegramBotAPIToken,
		"DATABASE_DSN":           &credentials.settings.DatabaseDSN,
		"LOG_LEVEL":              &credentials.logLevel,
	}
	for keyName, target := range overrides {
		if value := os.Getenv(keyName); value != "" {
			*target = value
		}
	}

	if value := os.Getenv("TELEGRAM_CHAT_IDS"); value != "" {
		var chatIDs []int64
		for _, field := range strings.Split(value, ",") {
			chatID, err := strconv.ParseInt(strings.TrimSpace(field), 10, 64)
			if err != nil {
				return fmt.Errorf("TELEGRAM_CHAT_IDS: %w", err)
			}
			chatIDs = append(chatIDs, chatID)
		}
		credentials.settings.TelegramChatIDs = chatIDs
	}

	return nil
}

func (credentials *Credentials) Validate() error {
	if credentials.settings.ClientKey == "" {
		return errors.New("client_key is required")
	}
	if credentials.settings.ClientSecret == "" {
		return errors.New("client_secret is required")
	}
	if credentials.settings.SNSTopic != "" && credentials.settings.AWSRegion == "" {
		return errors.New("aws_region is required with sns_topic")
	}
	if credentials.settings.TelegramBotAPIToken != "" && len(credentials.settings.TelegramChatIDs) == 0 {
		return errors.New("telegram_chat_ids is required with telegram_bot_api_token")
	}
	return nil
}

func (credentials *Credentials) IsSandbox() bool {
	return credentials.sandbox
}

func (credentials *Credentials) GetLogLevel() string {
	return credentials.logLevel
}

func (credentials *Credentials) GetGeminiAPIKey() string {
	return credentials.settings.ClientKey
}

func (credentials *Credentials) GetGeminiAPISecret() string {
	return credentials.settings.ClientSecret
}

func (credentials *Credentials) GetHTTPUrl() string {
	return credentials.settings.APIURL
}

func (credentials *Credentials) GetSNSTopic() string {
	return credentials.settings.SNSTopic
}

func (credentials *Credentials) GetAWSAccessKeyID() string {
	return credentials.settings.AWSAccessKeyID
}

func (credentials *Credentials) GetAWSSecretAccessKey() string {
	return credentials.settings.AWSSecretAccessKey
}

func (credentials *Credentials) GetAWSRegion() string {
	return credentials.settings.AWSRegion
}

func (credentials *Credentials) GetTelegramBotAPIToken() string {
	return credentials.settings.TelegramBotAPIToken
}

func (credentials *Credentials) GetTelegramChatIDs() []int64 {
	return credentials.settings.TelegramChatIDs
}

func (credentials *Credentials) GetDatabaseDSN() string {
	return credentials.settings.DatabaseDSN
}
