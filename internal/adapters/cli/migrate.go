package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mertbeyaz/battleship-go/internal/infrastructure/config"
	"github.com/mertbeyaz/battleship-go/internal/infrastructure/database"
)

// NewMigrateCommand creates the migrate command. serve migrates on
// boot as well; this exists for deployments that run schema changes
// separately from the server process.
func NewMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			db, err := database.NewConnection(&cfg.Database)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer database.Close(db)

			if err := database.AutoMigrate(db); err != nil {
				return fmt.Errorf("failed to migrate schema: %w", err)
			}

			fmt.Printf("Schema migrated (%s)\n", cfg.Database.Type)
			return nil
		},
	}
}
