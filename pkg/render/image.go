package render

import (
	"strings"

	"github.com/distribution/reference"

	apperrors "github.com/sitemirror/sitemirror/pkg/errors"
)

// NormalizeImage validates the node image as a container image reference and
// returns its familiar form. References without a tag get the "latest" tag,
// matching what the container runtime would pull.
func NormalizeImage(image string) (string, error) {
	trimmed := strings.TrimSpace(image)
	if trimmed == "" {
		return "", apperrors.New(apperrors.ErrCodeInvalidRequest, "node image is required")
	}

	named, err := reference.ParseNormalizedNamed(trimmed)
	if err != nil {
		return "", apperrors.WrapWithContext(apperrors.ErrCodeInvalidRequest,
			"invalid node image reference", err, map[string]interface{}{
				"image": trimmed,
			})
	}

	return reference.FamiliarString(reference.TagNameOnly(named)), nil
}
