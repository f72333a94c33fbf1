package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/deep4kk/MERN-STACK-FMS/internal/database"
	"github.com/deep4kk/MERN-STACK-FMS/internal/models"

	"go.uber.org/zap"
)

// DefaultLayoutUser owns the layout used when requests are unauthenticated
const DefaultLayoutUser = "default"

// LayoutStore persists report dashboard layouts per user
type LayoutStore interface {
	GetLayout(ctx context.Context, userID string) (*models.DashboardLayout, error)
	SaveLayout(ctx context.Context, layout *models.DashboardLayout) error
}

// DashboardService manages the widget order of the report dashboard
type DashboardService struct {
	store  LayoutStore
	logger *zap.Logger
	now    func() time.Time
}

// NewDashboardService creates a new dashboard layout service
func NewDashboardService(store LayoutStore, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{store: store, logger: logger, now: time.Now}
}

// DefaultLayout returns every known widget, visible, in default order
func DefaultLayout(userID string) *models.DashboardLayout {
	widgets := make([]models.DashboardWidget, 0, len(models.DefaultWidgetOrder))
	for _, id := range models.DefaultWidgetOrder {
		widgets = append(widgets, models.DashboardWidget{ID: id, Visible: true})
	}
	return &models.DashboardLayout{UserID: userID, Widgets: widgets}
}

// Layout returns the user's saved layout or the default one
func (s *DashboardService) Layout(ctx context.Context, userID string) (*models.DashboardLayout, error) {
	userID = layoutUser(userID)
	layout, err := s.store.GetLayout(ctx, userID)
	if errors.Is(err, database.ErrNotFound) {
		return DefaultLayout(userID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load layout: %w", ErrDataUnavailable, err)
	}
	layout.Widgets = completeWidgets(layout.Widgets)
	return layout, nil
}

// SaveLayout replaces the user's layout. Unknown or repeated widget ids are
// rejected; known widgets left out are appended visible.
func (s *DashboardService) SaveLayout(ctx context.Context, userID string, widgets []models.DashboardWidget) (*models.DashboardLayout, error) {
	seen := make(map[string]bool, len(widgets))
	for _, w := range widgets {
		if !slices.Contains(models.DefaultWidgetOrder, w.ID) {
			return nil, fmt.Errorf("%w: unknown widget %q", ErrInvalidInput, w.ID)
		}
		if seen[w.ID] {
			return nil, fmt.Errorf("%w: widget %q listed twice", ErrInvalidInput, w.ID)
		}
		seen[w.ID] = true
	}

	layout := &models.DashboardLayout{
		UserID:    layoutUser(userID),
		Widgets:   completeWidgets(widgets),
		UpdatedAt: s.now().UTC(),
	}
	if err := s.store.SaveLayout(ctx, layout); err != nil {
		return nil, fmt.Errorf("%w: failed to save layout: %w", ErrDataUnavailable, err)
	}
	s.logger.Debug("dashboard layout saved", zap.String("userId", layout.UserID))
	return layout, nil
}

// Move drags the widget at position from to position to
func (s *DashboardService) Move(ctx context.Context, userID string, from, to int) (*models.DashboardLayout, error) {
	layout, err := s.Layout(ctx, userID)
	if err != nil {
		return nil, err
	}
	n := len(layout.Widgets)
	if from < 0 || from >= n || to < 0 || to >= n {
		return nil, fmt.Errorf("%w: move %d -> %d out of range [0, %d)", ErrInvalidInput, from, to, n)
	}
	return s.SaveLayout(ctx, userID, moveWidget(layout.Widgets, from, to))
}

func moveWidget(widgets []models.DashboardWidget, from, to int) []models.DashboardWidget {
	out := slices.Clone(widgets)
	w := out[from]
	out = slices.Delete(out, from, from+1)
	return slices.Insert(out, to, w)
}

// completeWidgets drops unknown ids and appends missing known widgets
func completeWidgets(widgets []models.DashboardWidget) []models.DashboardWidget {
	out := make([]models.DashboardWidget, 0, len(models.DefaultWidgetOrder))
	seen := make(map[string]bool, len(widgets))
	for _, w := range widgets {
		if seen[w.ID] || !slices.Contains(models.DefaultWidgetOrder, w.ID) {
			continue
		}
		seen[w.ID] = true
		out = append(out, w)
	}
	for _, id := range models.DefaultWidgetOrder {
		if !seen[id] {
			out = append(out, models.DashboardWidget{ID: id, Visible: true})
		}
	}
	return out
}

func layoutUser(userID string) string {
	if userID = strings.TrimSpace(userID); userID == "" {
		return DefaultLayoutUser
	}
	return userID
}
