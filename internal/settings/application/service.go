// Package application coordinates loading and replacing the site settings.
package application

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"

	"boilerlog/internal/observability/metrics"
	settings "boilerlog/internal/settings/domain"
)

// Service loads the settings blob, seeding defaults on first use, and
// replaces it wholesale on save.
type Service struct {
	repo     settings.Repository
	defaults *settings.TestParameters
	logger   *log.Logger
}

// Option customizes the service.
type Option func(*Service)

// WithDefaults overrides the built-in first-launch settings.
func WithDefaults(defaults *settings.TestParameters) Option {
	return func(s *Service) {
		if defaults != nil {
			s.defaults = defaults
		}
	}
}

// WithLogger assigns a logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService constructs a settings service.
func NewService(repo settings.Repository, opts ...Option) (*Service, error) {
	if repo == nil {
		return nil, errors.New("settings: nil repository")
	}
	service := &Service{
		repo:     repo,
		defaults: settings.Defaults(),
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(service)
	}
	return service, nil
}

// Current returns the active settings. When nothing was ever saved the
// defaults are persisted first, so every caller sees a versioned blob.
func (s *Service) Current(ctx context.Context) (*settings.TestParameters, error) {
	if s == nil {
		return nil, errors.New("settings: nil service")
	}
	stored, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	if stored != nil {
		return stored, nil
	}

	seed := s.defaults.Clone()
	seed.Version = 0
	saved, err := s.repo.Save(ctx, seed)
	if err != nil {
		if errors.Is(err, settings.ErrVersionConflict) {
			// Another instance seeded concurrently.
			return s.repo.Load(ctx)
		}
		return nil, err
	}
	s.logger.Printf("settings: seeded defaults (version %d)", saved.Version)
	return saved, nil
}

// Replace normalizes, validates and stores a new settings blob. The incoming
// version must match the active one or ErrVersionConflict is returned.
func (s *Service) Replace(ctx context.Context, params *settings.TestParameters) (*settings.TestParameters, error) {
	if s == nil {
		return nil, errors.New("settings: nil service")
	}
	if params == nil {
		return nil, errors.New("settings: nil parameters")
	}
	params.Normalize()
	if err := params.Validate(); err != nil {
		metrics.IncSettingsSave(metrics.ResultError)
		return nil, err
	}
	saved, err := s.repo.Save(ctx, params)
	if err != nil {
		metrics.IncSettingsSave(metrics.ResultError)
		return nil, err
	}
	metrics.IncSettingsSave(metrics.ResultSuccess)
	s.logger.Printf("settings: replaced (version %d, %d ranges, %d users)",
		saved.Version, len(saved.Ranges), len(saved.AuthorizedUsers))
	return saved, nil
}

// defaultsFile is the yaml shape of a site defaults override.
type defaultsFile struct {
	Ranges           map[string]settings.ParameterRange `yaml:"ranges"`
	AuthorizedUsers  []settings.AuthorizedUser          `yaml:"authorized_users"`
	CustomParameters []settings.CustomParameter         `yaml:"custom_parameters"`
}

// LoadDefaults reads a yaml defaults file. An empty path returns the
// built-in defaults.
func LoadDefaults(path string) (*settings.TestParameters, error) {
	if path == "" {
		return settings.Defaults(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("settings defaults: %w", err)
	}
	var file defaultsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("settings defaults: %w", err)
	}
	params := settings.Defaults()
	if len(file.Ranges) > 0 {
		params.Ranges = file.Ranges
	}
	if len(file.AuthorizedUsers) > 0 {
		params.AuthorizedUsers = file.AuthorizedUsers
	}
	if len(file.CustomParameters) > 0 {
		params.CustomParameters = file.CustomParameters
	}
	params.Normalize()
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("settings defaults: %w", err)
	}
	return params, nil
}
