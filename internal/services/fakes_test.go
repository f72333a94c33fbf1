package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/deep4kk/MERN-STACK-FMS/internal/database"
	"github.com/deep4kk/MERN-STACK-FMS/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newUser(name string) *models.User {
	return &models.User{
		ID:       primitive.NewObjectID(),
		Username: name,
		Email:    name + "@example.com",
	}
}

// fakeMISStore serves fixed slices and records the window it was asked for
type fakeMISStore struct {
	mu         sync.Mutex
	tasks      []models.Task
	workflows  []models.WorkflowInstance
	checklists []models.Checklist
	tickets    []models.HelpTicket
	users      []models.User

	failOn     string
	start, end time.Time
	calls      int
}

var errStoreDown = errors.New("connection refused")

func (f *fakeMISStore) note(start, end time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.start, f.end = start, end
	f.calls++
}

func (f *fakeMISStore) FindTasks(ctx context.Context, start, end time.Time) ([]models.Task, error) {
	f.note(start, end)
	if f.failOn == "tasks" {
		return nil, errStoreDown
	}
	return f.tasks, nil
}

func (f *fakeMISStore) FindWorkflows(ctx context.Context, start, end time.Time) ([]models.WorkflowInstance, error) {
	f.note(start, end)
	if f.failOn == "workflows" {
		return nil, errStoreDown
	}
	return f.workflows, nil
}

func (f *fakeMISStore) FindChecklists(ctx context.Context, start, end time.Time) ([]models.Checklist, error) {
	f.note(start, end)
	if f.failOn == "checklists" {
		return nil, errStoreDown
	}
	return f.checklists, nil
}

func (f *fakeMISStore) FindHelpTickets(ctx context.Context, start, end time.Time) ([]models.HelpTicket, error) {
	f.note(start, end)
	if f.failOn == "tickets" {
		return nil, errStoreDown
	}
	return f.tickets, nil
}

func (f *fakeMISStore) ListUsers(ctx context.Context) ([]models.User, error) {
	if f.failOn == "users" {
		return nil, errStoreDown
	}
	return f.users, nil
}

type recordingRecorder struct {
	mu      sync.Mutex
	reports []*models.MISReport
	err     error
}

func (r *recordingRecorder) RecordMISReport(ctx context.Context, report *models.MISReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, report)
	return r.err
}

// memorySettingsStore mimics the unique name index of the designations collection
type memorySettingsStore struct {
	designations []models.Designation
	display      *models.DisplaySettings
	err          error
}

func (m *memorySettingsStore) ListDesignations(ctx context.Context) ([]models.Designation, error) {
	return m.designations, m.err
}

func (m *memorySettingsStore) InsertDesignation(ctx context.Context, d *models.Designation) error {
	if m.err != nil {
		return m.err
	}
	for _, existing := range m.designations {
		if existing.NameKey == d.NameKey {
			return database.ErrDuplicate
		}
	}
	m.designations = append(m.designations, *d)
	return nil
}

func (m *memorySettingsStore) DeleteDesignation(ctx context.Context, id primitive.ObjectID) error {
	if m.err != nil {
		return m.err
	}
	for i, d := range m.designations {
		if d.ID == id {
			m.designations = append(m.designations[:i], m.designations[i+1:]...)
			return nil
		}
	}
	return database.ErrNotFound
}

func (m *memorySettingsStore) GetDisplaySettings(ctx context.Context) (*models.DisplaySettings, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.display == nil {
		return nil, database.ErrNotFound
	}
	copied := *m.display
	return &copied, nil
}

func (m *memorySettingsStore) SaveDisplaySettings(ctx context.Context, settings *models.DisplaySettings) error {
	if m.err != nil {
		return m.err
	}
	m.display = settings
	return nil
}

type memoryLayoutStore struct {
	layouts map[string]models.DashboardLayout
	err     error
}

func newMemoryLayoutStore() *memoryLayoutStore {
	return &memoryLayoutStore{layouts: make(map[string]models.DashboardLayout)}
}

func (m *memoryLayoutStore) GetLayout(ctx context.Context, userID string) (*models.DashboardLayout, error) {
	if m.err != nil {
		return nil, m.err
	}
	layout, ok := m.layouts[userID]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &layout, nil
}

func (m *memoryLayoutStore) SaveLayout(ctx context.Context, layout *models.DashboardLayout) error {
	if m.err != nil {
		return m.err
	}
	m.layouts[layout.UserID] = *layout
	return nil
}
