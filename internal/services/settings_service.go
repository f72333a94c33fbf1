package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/deep4kk/MERN-STACK-FMS/internal/database"
	"github.com/deep4kk/MERN-STACK-FMS/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const maxDesignationLength = 100

// SettingsStore persists designations and display settings
type SettingsStore interface {
	ListDesignations(ctx context.Context) ([]models.Designation, error)
	InsertDesignation(ctx context.Context, designation *models.Designation) error
	DeleteDesignation(ctx context.Context, id primitive.ObjectID) error
	GetDisplaySettings(ctx context.Context) (*models.DisplaySettings, error)
	SaveDisplaySettings(ctx context.Context, settings *models.DisplaySettings) error
}

// SettingsService manages designations and the display mode
type SettingsService struct {
	store  SettingsStore
	logger *zap.Logger
	now    func() time.Time
}

// NewSettingsService creates a new settings service
func NewSettingsService(store SettingsStore, logger *zap.Logger) *SettingsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsService{store: store, logger: logger, now: time.Now}
}

// ListDesignations returns all designations sorted by name
func (s *SettingsService) ListDesignations(ctx context.Context) ([]models.Designation, error) {
	designations, err := s.store.ListDesignations(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list designations: %w", ErrDataUnavailable, err)
	}
	if designations == nil {
		designations = []models.Designation{}
	}
	return designations, nil
}

// CreateDesignation adds a designation. Names are unique ignoring case.
func (s *SettingsService) CreateDesignation(ctx context.Context, name string) (*models.Designation, error) {
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return nil, fmt.Errorf("%w: designation name is required", ErrInvalidInput)
	}
	if len(name) > maxDesignationLength {
		return nil, fmt.Errorf("%w: designation name exceeds %d characters", ErrInvalidInput, maxDesignationLength)
	}

	designation := &models.Designation{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameKey:   strings.ToLower(name),
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.InsertDesignation(ctx, designation); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, fmt.Errorf("%w: designation %q already exists", ErrConflict, name)
		}
		return nil, fmt.Errorf("%w: failed to create designation: %w", ErrDataUnavailable, err)
	}

	s.logger.Info("designation created", zap.String("id", designation.ID.Hex()), zap.String("name", name))
	return designation, nil
}

// DeleteDesignation removes the designation with the given hex id
func (s *SettingsService) DeleteDesignation(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: invalid designation id %q", ErrInvalidInput, id)
	}
	if err := s.store.DeleteDesignation(ctx, oid); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return fmt.Errorf("%w: designation %s", ErrNotFound, id)
		}
		return fmt.Errorf("%w: failed to delete designation: %w", ErrDataUnavailable, err)
	}
	s.logger.Info("designation deleted", zap.String("id", id))
	return nil
}

// DisplayMode returns the saved display mode, or the default when none is saved
func (s *SettingsService) DisplayMode(ctx context.Context) (*models.DisplaySettings, error) {
	settings, err := s.store.GetDisplaySettings(ctx)
	if errors.Is(err, database.ErrNotFound) {
		return &models.DisplaySettings{Mode: models.DefaultDisplayMode}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load display settings: %w", ErrDataUnavailable, err)
	}
	if !settings.Mode.Valid() {
		settings.Mode = models.DefaultDisplayMode
	}
	return settings, nil
}

// SetDisplayMode saves mode, which must be one of the supported modes
func (s *SettingsService) SetDisplayMode(ctx context.Context, mode string) (*models.DisplaySettings, error) {
	m := models.DisplayMode(strings.ToLower(strings.TrimSpace(mode)))
	if !m.Valid() {
		return nil, fmt.Errorf("%w: unsupported display mode %q", ErrInvalidInput, mode)
	}
	settings := &models.DisplaySettings{Mode: m, UpdatedAt: s.now().UTC()}
	if err := s.store.SaveDisplaySettings(ctx, settings); err != nil {
		return nil, fmt.Errorf("%w: failed to save display settings: %w", ErrDataUnavailable, err)
	}
	return settings, nil
}
