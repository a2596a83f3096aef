// Package seed loads demo data through the regular services, so seeded rows
// pass the same validation and sanitization as user input.
package seed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/jinzhu/inflection"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/codemauri/taskify/pkg/apperrors"
	"github.com/codemauri/taskify/pkg/services"
)

//go:embed demo.yaml
var demoYAML []byte

// Dataset is the YAML shape of a seed file.
type Dataset struct {
	User     UserSeed      `yaml:"user"`
	Projects []ProjectSeed `yaml:"projects"`
}

type UserSeed struct {
	Email    string `yaml:"email"`
	Name     string `yaml:"name"`
	Password string `yaml:"password"`
}

type ProjectSeed struct {
	Title       string     `yaml:"title"`
	Description string     `yaml:"description"`
	Tasks       []TaskSeed `yaml:"tasks"`
}

// TaskSeed names its status rather than using an id.
type TaskSeed struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Status      string `yaml:"status"`
}

// Result counts what a Load created.
type Result struct {
	Email    string
	Skipped  bool
	Projects int
	Tasks    int
}

// Summary renders the result for humans, e.g. "3 projects and 9 tasks".
func (r Result) Summary() string {
	if r.Skipped {
		return fmt.Sprintf("%s already exists; nothing seeded", r.Email)
	}
	return fmt.Sprintf("%s and %s for %s", Quantity(r.Projects, "project"), Quantity(r.Tasks, "task"), r.Email)
}

// Quantity formats n with noun pluralized to match, e.g. "1 task" or
// "3 task statuses".
func Quantity(n int, noun string) string {
	if n != 1 {
		noun = inflection.Plural(noun)
	}
	return fmt.Sprintf("%d %s", n, noun)
}

// Demo returns the embedded demo dataset.
func Demo() (*Dataset, error) {
	return Parse(demoYAML)
}

// Parse decodes a YAML dataset.
func Parse(data []byte) (*Dataset, error) {
	var ds Dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("failed to parse seed data: %w", err)
	}
	if ds.User.Email == "" {
		return nil, errors.New("seed data has no user email")
	}
	return &ds, nil
}

// Seeder writes a Dataset through the services.
type Seeder struct {
	users    services.UserService
	projects services.ProjectService
	tasks    services.TaskService
	logger   *zap.Logger
}

func NewSeeder(users services.UserService, projects services.ProjectService, tasks services.TaskService, logger *zap.Logger) *Seeder {
	return &Seeder{users: users, projects: projects, tasks: tasks, logger: logger}
}

// Load registers the dataset's user and creates its projects and tasks.
// If the user already exists nothing is written.
func (s *Seeder) Load(ctx context.Context, ds *Dataset) (Result, error) {
	result := Result{Email: ds.User.Email}

	statusIDs, err := s.statusIDs(ctx)
	if err != nil {
		return result, err
	}
	// Resolve every status before writing anything.
	for _, p := range ds.Projects {
		for _, t := range p.Tasks {
			if _, ok := statusIDs[strings.ToLower(t.Status)]; !ok {
				return result, fmt.Errorf("task %q: unknown status %q", t.Title, t.Status)
			}
		}
	}

	user, err := s.users.Register(ctx, ds.User.Email, ds.User.Name, ds.User.Password)
	if errors.Is(err, apperrors.ErrConflict) {
		s.logger.Info("Seed user already exists, skipping", zap.String("email", ds.User.Email))
		result.Skipped = true
		return result, nil
	}
	if err != nil {
		return result, fmt.Errorf("failed to register seed user: %w", err)
	}

	for _, p := range ds.Projects {
		project, err := s.projects.Create(ctx, user.ID, p.Title, optional(p.Description))
		if err != nil {
			return result, fmt.Errorf("failed to create project %q: %w", p.Title, err)
		}
		result.Projects++

		for _, t := range p.Tasks {
			statusID := statusIDs[strings.ToLower(t.Status)]
			if _, err := s.tasks.Create(ctx, user.ID, project.ID, t.Title, statusID, optional(t.Description)); err != nil {
				return result, fmt.Errorf("failed to create task %q: %w", t.Title, err)
			}
			result.Tasks++
		}
	}

	s.logger.Info("Seeded demo data",
		zap.String("user_id", user.ID.String()),
		zap.Int("projects", result.Projects),
		zap.Int("tasks", result.Tasks))
	return result, nil
}

func (s *Seeder) statusIDs(ctx context.Context) (map[string]int, error) {
	statuses, err := s.tasks.ListStatuses(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list task statuses: %w", err)
	}
	ids := make(map[string]int, len(statuses))
	for _, st := range statuses {
		ids[strings.ToLower(st.Name)] = st.ID
	}
	return ids, nil
}

func optional(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}
