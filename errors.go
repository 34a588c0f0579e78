package wordcloud

import (
	"fmt"

	"github.com/pkg/errors"
)

// ConfigError reports an option which cannot be used to build a word cloud.
// It is returned eagerly, when the tokenizer, the layouter or the processor is configured.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func configErrorf(field, format string, args ...any) error {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// IsConfigError reports whether err (or any error it wraps) is a configuration error.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
