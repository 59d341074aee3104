// Load YAML config
// Override with env vars (.env is the caller's business)
// Validate credentials up front
// Provide default values

package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/davidread/jobadscrape/internal/errs"

	"gopkg.in/yaml.v3"
)

// Search is one saved search on the job site. Department and role
// category are the site's own numeric filter codes.
type Search struct {
	Department   string `yaml:"department"`
	RoleCategory string `yaml:"role_category,omitempty"`
	OutputFolder string `yaml:"output_folder"`
}

type Repo struct {
	Owner  string `yaml:"owner"`
	Name   string `yaml:"name"`
	Branch string `yaml:"branch"`
}

type Config struct {
	BaseURL       string   `yaml:"base_url"`
	UserAgent     string   `yaml:"user_agent"`
	RequestRate   float64  `yaml:"request_rate"`
	SpreadsheetID string   `yaml:"spreadsheet_id"`
	SheetRange    string   `yaml:"sheet_range"`
	Repo          Repo     `yaml:"repo"`
	Searches      []Search `yaml:"searches"`

	// Secrets, env only
	GitHubToken        string
	ServiceAccountJSON []byte
	TelegramToken      string
	TelegramChatID     int64
}

const defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10.15; rv:133.0) Gecko/20100101 Firefox/133.0"

// Load reads the YAML config file and the environment. Missing publish
// credentials fail here, before any network call is made. Loading a
// .env file, if any, is left to the entry point so Load reads only
// what the process environment already holds.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	// Override with env vars
	if v := os.Getenv("JOBSCRAPE_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	cfg.GitHubToken = os.Getenv("GITHUB_TOKEN")
	cfg.ServiceAccountJSON = []byte(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	cfg.TelegramToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
		}
		cfg.TelegramChatID = id
	}

	// Set default values if not set
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://www.civilservicejobs.service.gov.uk"
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.RequestRate <= 0 {
		cfg.RequestRate = 1
	}
	if cfg.SheetRange == "" {
		cfg.SheetRange = "Sheet1"
	}
	if cfg.Repo.Branch == "" {
		cfg.Repo.Branch = "main"
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.GitHubToken == "" {
		return fmt.Errorf("%w: GITHUB_TOKEN is required", errs.ErrAuth)
	}
	if len(c.ServiceAccountJSON) == 0 {
		return fmt.Errorf("%w: GOOGLE_SERVICE_ACCOUNT_JSON is required", errs.ErrAuth)
	}
	if c.SpreadsheetID == "" {
		return fmt.Errorf("spreadsheet_id is required")
	}
	if c.Repo.Owner == "" || c.Repo.Name == "" {
		return fmt.Errorf("repo.owner and repo.name are required")
	}
	if len(c.Searches) == 0 {
		return fmt.Errorf("at least one search is required")
	}
	for i, s := range c.Searches {
		if s.Department == "" {
			return fmt.Errorf("searches[%d]: department is required", i)
		}
		if s.OutputFolder == "" {
			return fmt.Errorf("searches[%d]: output_folder is required", i)
		}
	}
	return nil
}

// TelegramEnabled reports whether the optional run-summary bot is configured.
func (c *Config) TelegramEnabled() bool {
	return c.TelegramToken != "" && c.TelegramChatID != 0
}
