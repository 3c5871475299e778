package remote

import (
	"net/url"

	"codeberg.org/mutker/kweeb/internal/errors"
)

const defaultTable = "metrics"

type Config struct {
	URL    string
	APIKey string
	Table  string
}

func (c Config) Validate() error {
	errFactory := errors.New()

	if c.URL == "" {
		return errFactory.WithMessage(ErrInvalidConfig, "remote url is required")
	}
	u, err := url.Parse(c.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errFactory.WithData(ErrInvalidConfig, c.URL)
	}
	if c.APIKey == "" {
		return errFactory.WithMessage(ErrInvalidConfig, "remote api key is required")
	}
	return nil
}

func (c Config) table() string {
	if c.Table == "" {
		return defaultTable
	}
	return c.Table
}
