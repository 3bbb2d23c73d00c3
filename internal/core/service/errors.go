package service

import (
	"errors"
	"fmt"

	"github.com/offranel/storefront/internal/core/domain"
)

// unavailable tags err as a backend failure unless an adapter already did so.
func unavailable(err error) error {
	if errors.Is(err, domain.ErrBackendUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrBackendUnavailable, err)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidInput, fmt.Sprintf(format, args...))
}
