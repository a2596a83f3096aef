package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/codemauri/taskify/pkg/audit"
	"github.com/codemauri/taskify/pkg/repositories"
	"github.com/codemauri/taskify/pkg/seed"
	"github.com/codemauri/taskify/pkg/services"
)

func newSeedCmd() *cobra.Command {
	var file, email, password string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load demo data",
		Long: `Create a demo account with sample projects and tasks.

Without --file the built-in dataset is used (demo@taskify.com / password123).
Seeding is skipped when the account already exists.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := loadDataset(file)
			if err != nil {
				return err
			}
			if email != "" {
				ds.User.Email = email
			}
			if password != "" {
				ds.User.Password = password
			}

			rt, err := openRuntime(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			auditor := audit.NewSecurityAuditor(rt.logger)
			projectRepo := repositories.NewProjectRepository(rt.db)
			taskRepo := repositories.NewTaskRepository(rt.db)
			statusRepo := repositories.NewTaskStatusRepository(rt.db)

			seeder := seed.NewSeeder(
				services.NewUserService(repositories.NewUserRepository(rt.db), rt.logger),
				services.NewProjectService(projectRepo, taskRepo, auditor, rt.logger),
				services.NewTaskService(rt.db, projectRepo, taskRepo, statusRepo, auditor, rt.logger),
				rt.logger,
			)

			result, err := seeder.Load(cmd.Context(), ds)
			if err != nil {
				return err
			}
			if result.Skipped {
				cmd.Println(result.Summary())
				return nil
			}
			cmd.Println("Seeded " + result.Summary())
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML dataset to load instead of the built-in demo")
	cmd.Flags().StringVar(&email, "email", "", "override the dataset's account email")
	cmd.Flags().StringVar(&password, "password", "", "override the dataset's account password")
	return cmd
}

func loadDataset(path string) (*seed.Dataset, error) {
	if path == "" {
		return seed.Demo()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return seed.Parse(data)
}
