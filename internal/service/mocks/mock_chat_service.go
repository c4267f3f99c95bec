package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/ishaan2692/matchify/internal/model"
	"github.com/ishaan2692/matchify/internal/service"
	"github.com/ishaan2692/matchify/internal/session"
)

type MockChatService struct {
	mock.Mock
}

func (m *MockChatService) Send(ctx context.Context, sess *session.Session, message string) (*service.ChatReply, error) {
	args := m.Called(ctx, sess, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ChatReply), args.Error(1)
}

func (m *MockChatService) History(sess *session.Session) []model.ConversationTurn {
	args := m.Called(sess)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]model.ConversationTurn)
}
