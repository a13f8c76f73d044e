package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ashwinyue/next-mentor/internal/config"
	"github.com/ashwinyue/next-mentor/internal/database"
	"github.com/ashwinyue/next-mentor/internal/logger"
)

// Version 构建时通过 ldflags 注入
var Version = "dev"

type rootOptions struct {
	configPath string
	envFile    string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "next-mentor",
		Short:         "Mentor-style AI replies with a human approval queue",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	defaultConfig := os.Getenv("CONFIG_PATH")
	if defaultConfig == "" {
		defaultConfig = "./configs/config.yaml"
	}
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", defaultConfig, "path to config file")
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "path to .env file")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newMigrateCmd(opts))
	cmd.AddCommand(newDemoCmd(opts))
	cmd.AddCommand(newPasscodeCmd())
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "next-mentor %s\n", Version)
		},
	}
}

// bootstrap 加载 .env、配置和日志器
func bootstrap(opts *rootOptions) (*config.Config, *zap.Logger, error) {
	if opts.envFile != "" {
		if err := godotenv.Load(opts.envFile); err != nil && !os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("failed to load env file: %w", err)
		}
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, nil, err
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

// openDatabase 打开数据库，调用方负责关闭
func openDatabase(opts *rootOptions) (*config.Config, *zap.Logger, *database.DB, error) {
	cfg, log, err := bootstrap(opts)
	if err != nil {
		return nil, nil, nil, err
	}

	db, err := database.New(cfg, log)
	if err != nil {
		_ = log.Sync()
		return nil, nil, nil, err
	}
	return cfg, log, db, nil
}

func execute(cmd *cobra.Command) int {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(execute(newRootCmd()))
}
