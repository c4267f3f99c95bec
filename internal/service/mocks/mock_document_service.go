package mocks

import (
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/ishaan2692/matchify/internal/model"
	"github.com/ishaan2692/matchify/internal/service"
)

type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) Upload(ctx context.Context, sessionID string, r io.Reader, originalFilename string, contentType string, size int64) (*model.Document, error) {
	args := m.Called(ctx, sessionID, r, originalFilename, contentType, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) List(ctx context.Context, sessionID string, limit, offset int) (*service.DocumentListResult, error) {
	args := m.Called(ctx, sessionID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DocumentListResult), args.Error(1)
}

func (m *MockDocumentService) Get(ctx context.Context, sessionID, id string) (*model.Document, error) {
	args := m.Called(ctx, sessionID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) Delete(ctx context.Context, sessionID, id string) error {
	args := m.Called(ctx, sessionID, id)
	return args.Error(0)
}

func (m *MockDocumentService) PresignDownload(ctx context.Context, sessionID, id string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, sessionID, id, expiry)
	return args.String(0), args.Error(1)
}

func (m *MockDocumentService) PurgeSession(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}
