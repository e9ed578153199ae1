package pipeline

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Active-Apparel-Group/data-orchestration/internal/matching"
	"github.com/Active-Apparel-Group/data-orchestration/internal/model"
	"github.com/Active-Apparel-Group/data-orchestration/internal/store"
	"github.com/Active-Apparel-Group/data-orchestration/internal/warehouse"
)

// --- Store Mock ---

type mockStore struct {
	mock.Mock
}

func (m *mockStore) CreateRun(ctx context.Context, source string, threshold float64) (*model.Run, error) {
	args := m.Called(ctx, source, threshold)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Run), args.Error(1)
}

func (m *mockStore) CompleteRun(ctx context.Context, runID string, stats *model.RunStats) error {
	return m.Called(ctx, runID, stats).Error(0)
}

func (m *mockStore) FailRun(ctx context.Context, runID string, reason string) error {
	return m.Called(ctx, runID, reason).Error(0)
}

func (m *mockStore) GetRun(ctx context.Context, runID string) (*model.Run, error) {
	args := m.Called(ctx, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Run), args.Error(1)
}

func (m *mockStore) ListRuns(ctx context.Context, filter store.RunFilter) ([]model.Run, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Run), args.Error(1)
}

func (m *mockStore) Migrate(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockStore) Close() error {
	return m.Called().Error(0)
}

// --- Saver Mock ---

type mockSaver struct {
	mock.Mock
}

func (m *mockSaver) Save(ctx context.Context, runID string, out *matching.Output) (*warehouse.SaveResult, error) {
	args := m.Called(ctx, runID, out)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*warehouse.SaveResult), args.Error(1)
}
