package services

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/codemauri/taskify/pkg/models"
)

// richText is the allow-list policy applied to every stored description.
var richText = bluemonday.UGCPolicy()

// sanitizeDescription strips disallowed markup. Empty or whitespace-only
// results are stored as NULL.
func sanitizeDescription(desc *string) *string {
	if desc == nil {
		return nil
	}
	clean := strings.TrimSpace(richText.Sanitize(*desc))
	if clean == "" {
		return nil
	}
	return &clean
}

// normalizeDescriptionUpdate applies sanitizeDescription to a supplied
// description, turning "" into an explicit null.
func normalizeDescriptionUpdate(o models.Optional[string]) models.Optional[string] {
	if !o.Set || o.Null {
		return o
	}
	if clean := sanitizeDescription(&o.Value); clean != nil {
		return models.Some(*clean)
	}
	return models.Null[string]()
}
