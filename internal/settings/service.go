package settings

import (
	"context"
	"fmt"

	"github.com/GOLDhjy/GCompare/internal/logging"
	"github.com/GOLDhjy/GCompare/internal/storage/catalog"
)

// Keys stored in the settings table.
const (
	KeyTheme            = "theme"
	KeyIgnoreWhitespace = "ignore_whitespace"
	KeyWordWrap         = "word_wrap"
)

var themes = map[string]bool{"system": true, "light": true, "dark": true}

// Service persists user preferences in the catalog database.
type Service struct {
	repo   *catalog.Repository
	logger logging.Logger
}

func NewService(repo *catalog.Repository, logger logging.Logger) *Service {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Service{repo: repo, logger: logger}
}

func (s *Service) Theme(ctx context.Context) (string, error) {
	return s.repo.GetSetting(ctx, KeyTheme, "system")
}

func (s *Service) SetTheme(ctx context.Context, theme string) error {
	if !themes[theme] {
		return fmt.Errorf("unknown theme %q", theme)
	}
	return s.repo.SetSetting(ctx, KeyTheme, theme)
}

func (s *Service) Bool(ctx context.Context, key string, fallback bool) (bool, error) {
	def := "false"
	if fallback {
		def = "true"
	}
	v, err := s.repo.GetSetting(ctx, key, def)
	if err != nil {
		return fallback, err
	}
	return v == "true", nil
}

func (s *Service) SetBool(ctx context.Context, key string, value bool) error {
	v := "false"
	if value {
		v = "true"
	}
	return s.repo.SetSetting(ctx, key, v)
}
