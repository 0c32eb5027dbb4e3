package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"alfredoptarigan/interview-copilot/internal/catalog"
	"alfredoptarigan/interview-copilot/internal/config"
	"alfredoptarigan/interview-copilot/internal/logger"
	"alfredoptarigan/interview-copilot/internal/services"
)

const (
	app = "interviewctl"
)

// CLIConfig holds the settings read from interviewctl.yaml and flags.
// Service credentials still come from the environment, see config.Load.
type CLIConfig struct {
	Candidate     string   `mapstructure:"candidate"`
	JobID         string   `mapstructure:"job-id"`
	ResumeID      string   `mapstructure:"resume-id"`
	Categories    []string `mapstructure:"categories"`
	PerCategory   int      `mapstructure:"per-category"`
	TimeLimit     string   `mapstructure:"time-limit"`
	TranscriptDir string   `mapstructure:"transcript-dir"`
	EnvFile       string   `mapstructure:"env-file"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:          app,
		Short:        "interviewctl indexes the question catalog and runs screening interviews in the terminal",
		SilenceUsage: true,
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is interviewctl.yaml in current directory)")
	rootCmd.PersistentFlags().String("env-file", ".env", "dotenv file with service credentials")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("env-file", rootCmd.PersistentFlags().Lookup("env-file"))
	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// The config file is optional unless it was named explicitly.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*CLIConfig, error) {
	var cliConfig CLIConfig
	if err := viper.Unmarshal(&cliConfig); err != nil {
		return nil, fmt.Errorf("failed to read %s config: %w", app, err)
	}
	return &cliConfig, nil
}

func newLogger() *zap.Logger {
	l, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	return l
}

// backends are the retrieval services shared by ingest and interview.
type backends struct {
	cfg     *config.Config
	catalog *catalog.Catalog
	gemini  services.GeminiService
	qdrant  services.QdrantService
}

func connect(ctx context.Context, cliConfig *CLIConfig, log *zap.Logger) (*backends, error) {
	cfg := config.Load(cliConfig.EnvFile)

	cat, err := catalog.Load(cfg.Interview.CatalogPath)
	if err != nil {
		return nil, err
	}

	gemini, err := services.NewGeminiService(ctx, services.GeminiOptions{
		APIKey:     cfg.Gemini.APIKey,
		Model:      cfg.Gemini.Model,
		EmbedModel: cfg.Gemini.EmbedModel,
	}, log)
	if err != nil {
		return nil, err
	}

	qdrant, err := services.NewQdrantService(cfg.Qdrant.URL, cfg.Qdrant.APIKey, cfg.Qdrant.Collection, cfg.Qdrant.VectorSize, log)
	if err != nil {
		return nil, err
	}
	if err := qdrant.InitCollection(ctx); err != nil {
		return nil, err
	}

	return &backends{cfg: cfg, catalog: cat, gemini: gemini, qdrant: qdrant}, nil
}
