package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/skillmatch/internal/filtering"
)

const (
	app = "skillmatch"
)

type Config struct {
	Catalog    string          `mapstructure:"catalog" validate:"required"`
	Variations string          `mapstructure:"variations"`
	Matching   *MatchingConfig `mapstructure:"matching" validate:"required"`
	Filters    *FiltersConfig  `mapstructure:"filters" validate:"required"`
	AI         *AIConfig       `mapstructure:"ai" validate:"required"`
}

type MatchingConfig struct {
	Threshold float64 `mapstructure:"threshold" validate:"gte=0,lte=1"`
	MinScore  float64 `mapstructure:"min-score" validate:"gte=0,lte=100"`
	Limit     int     `mapstructure:"limit" validate:"gte=1"`
	Workers   int     `mapstructure:"workers" validate:"gte=0"`
}

type FiltersConfig struct {
	Locations     []string `mapstructure:"locations"`
	Levels        []string `mapstructure:"levels"`
	Sizes         []string `mapstructure:"sizes"`
	Industries    []string `mapstructure:"industries"`
	MaxExperience float64  `mapstructure:"max-experience" validate:"gte=0"`
}

type AIConfig struct {
	Provider string        `mapstructure:"provider" validate:"oneof=gemini"`
	Gemini   *GeminiConfig `mapstructure:"gemini" validate:"required"`
}

type GeminiConfig struct {
	APIKey       string `mapstructure:"api-key" json:"-"`
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model" validate:"required"`
	MaxRetries   int    `mapstructure:"max-retries" validate:"gte=0"`
	MaxLogLength int    `mapstructure:"max-log-length" validate:"gte=0"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "skillmatch matches the skills of a resume against a job catalog",
	}
)

// Execute executes the root command. SIGINT and SIGTERM cancel in-flight requests.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is skillmatch.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))

	setDefaults(viper.GetViper())

	if err := bindEnv(viper.GetViper()); err != nil {
		log.Fatalf("binding environment variables: %v", err)
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("catalog", "processed_jobs.xlsx")
	v.SetDefault("variations", "")
	v.SetDefault("matching.threshold", 0.8)
	v.SetDefault("matching.min-score", 30)
	v.SetDefault("matching.limit", 10)
	v.SetDefault("matching.workers", 0)
	v.SetDefault("filters.locations", []string{})
	v.SetDefault("filters.levels", []string{})
	v.SetDefault("filters.sizes", []string{})
	v.SetDefault("filters.industries", []string{})
	v.SetDefault("filters.max-experience", 20)
	v.SetDefault("ai.provider", "gemini")
	v.SetDefault("ai.gemini.api-key", "")
	v.SetDefault("ai.gemini.api-key-file", "")
	v.SetDefault("ai.gemini.model", "gemini-2.5-flash")
	v.SetDefault("ai.gemini.max-retries", 3)
	v.SetDefault("ai.gemini.max-log-length", 200)
}

func bindEnv(v *viper.Viper) error {
	v.SetEnvPrefix(strings.ToUpper(app))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.BindEnv("ai.gemini.api-key", "GEMINI_API_KEY"); err != nil {
		return err
	}
	return v.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE")
}

func initConfig() {
	// .env is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("loading .env: %v", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			// We can't proceed if the config file parsed with error.
			log.Fatal(err)
		}
	}
}

// bindFlags binds command flags to config keys. It runs in PreRun so that
// commands sharing a flag name do not steal each other's binding.
func bindFlags(cmd *cobra.Command, keys map[string]string) error {
	for flag, key := range keys {
		if err := viper.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return fmt.Errorf("binding flag %q: %w", flag, err)
		}
	}
	return nil
}

func getConfig() (*Config, error) {
	return loadConfig(viper.GetViper())
}

func loadConfig(v *viper.Viper) (*Config, error) {
	var config *Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	if config == nil {
		return nil, errors.New("config is empty")
	}

	if err := validator.New().Struct(config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}

// attempts counts the first request on top of the configured retries.
func (g *GeminiConfig) attempts() int {
	return g.MaxRetries + 1
}

func (c *Config) filterConfig() *filtering.Config {
	return &filtering.Config{
		Locations:     c.Filters.Locations,
		Levels:        c.Filters.Levels,
		Sizes:         c.Filters.Sizes,
		Industries:    c.Filters.Industries,
		MaxExperience: c.Filters.MaxExperience,
		Matching: &filtering.MatchingConfig{
			Threshold: c.Matching.Threshold,
			MinScore:  c.Matching.MinScore,
			Workers:   c.Matching.Workers,
		},
	}
}
