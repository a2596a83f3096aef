// Package services holds taskify's business logic: validation,
// sanitization and the ownership checks that guard every project and task.
package services

import (
	"context"
	"strings"

	"github.com/codemauri/taskify/pkg/apperrors"
)

// Transactor runs fn in a single database transaction. Repository calls
// made with the ctx passed to fn join it. *database.DB satisfies it.
type Transactor interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// requireTitle trims title and rejects empty values.
func requireTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", apperrors.NewValidationError("title", "is required")
	}
	return title, nil
}
