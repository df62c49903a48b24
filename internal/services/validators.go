package services

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"bugbot/internal/domain"
	"bugbot/internal/lang"
	"bugbot/internal/ports"
)

// VersionString rejects answers that do not look like a version number.
// Length is checked before digit presence so an over-long answer always gets
// the length message.
func VersionString(text string) error {
	if strings.Contains(text, "latest") {
		return errors.New(lang.LatestNotAllowed)
	}
	if len(text) > domain.MaxVersionLength {
		return errors.New(lang.VersionTooLong)
	}
	if !strings.ContainsFunc(text, unicode.IsDigit) {
		return errors.New(lang.NoNumbers)
	}
	return nil
}

// MaxLength returns a validator enforcing a per-field character cap
func MaxLength(max int) ports.Validator {
	return func(text string) error {
		if len([]rune(text)) > max {
			return fmt.Errorf(lang.TextTooLongFmt, max)
		}
		return nil
	}
}
