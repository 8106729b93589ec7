package cli

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"multab/internal/config"
)

type options struct {
	configPath string
	store      string
	dataDir    string
}

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	_ = godotenv.Load()

	envConfig := os.Getenv("MULTAB_CONFIG")
	if envConfig == "" {
		envConfig = config.DefaultPath()
	}

	opts := &options{}
	cmd := &cobra.Command{
		Use:          "multab",
		Short:        "Multiplication table trainer that drills your weakest products first",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", envConfig, "path to YAML config")
	cmd.PersistentFlags().StringVar(&opts.store, "store", os.Getenv("MULTAB_STORE"), "storage driver: file, sqlite or memory")
	cmd.PersistentFlags().StringVar(&opts.dataDir, "data-dir", os.Getenv("MULTAB_DATA_DIR"), "directory holding profiles")
	cmd.AddCommand(newPlayCmd(opts))
	cmd.AddCommand(newTableCmd(opts))
	cmd.AddCommand(newUsersCmd(opts))
	cmd.AddCommand(newMigrateCmd(opts))
	return cmd
}
