package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/ishaan2692/matchify/internal/service"
	"github.com/ishaan2692/matchify/internal/session"
)

type MockAnalysisService struct {
	mock.Mock
}

func (m *MockAnalysisService) Analyze(ctx context.Context, sess *session.Session, jobDescription string) (*service.AnalysisReport, error) {
	args := m.Called(ctx, sess, jobDescription)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AnalysisReport), args.Error(1)
}
