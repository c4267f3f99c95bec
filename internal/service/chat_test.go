package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ishaan2692/matchify/internal/llm"
	llmMocks "github.com/ishaan2692/matchify/internal/llm/mocks"
	"github.com/ishaan2692/matchify/internal/model"
)

func TestChatService_Send(t *testing.T) {
	ctx := context.Background()

	t.Run("empty message", func(t *testing.T) {
		svc := NewChatService(new(llmMocks.MockGenerator))
		sess := newTestSession()

		for _, msg := range []string{"", "   ", "\n\t"} {
			reply, err := svc.Send(ctx, sess, msg)
			assert.ErrorIs(t, err, ErrEmptyMessage)
			assert.Nil(t, reply)
		}
		assert.Equal(t, 0, sess.Conversation().Len())
	})

	t.Run("prompt carries the whole history", func(t *testing.T) {
		mGen := new(llmMocks.MockGenerator)
		svc := NewChatService(mGen)
		sess := newTestSession()

		mGen.On("Generate", ctx, "User: hi\nBot:").Return("hello", nil).Once()
		mGen.On("Generate", ctx, "User: hi\nBot: hello\nUser: bye\nBot:").Return("goodbye", nil).Once()

		reply, err := svc.Send(ctx, sess, "hi")
		assert.NoError(t, err)
		assert.Equal(t, "hello", reply.Reply)
		assert.Empty(t, reply.Warning)

		reply, err = svc.Send(ctx, sess, "bye")
		assert.NoError(t, err)
		assert.Equal(t, "goodbye", reply.Reply)

		assert.Equal(t, []model.ConversationTurn{
			{Role: model.RoleUser, Message: "hi"},
			{Role: model.RoleBot, Message: "hello"},
			{Role: model.RoleUser, Message: "bye"},
			{Role: model.RoleBot, Message: "goodbye"},
		}, svc.History(sess))
		mGen.AssertExpectations(t)
	})

	t.Run("reply is trimmed before it is recorded", func(t *testing.T) {
		mGen := new(llmMocks.MockGenerator)
		svc := NewChatService(mGen)
		sess := newTestSession()

		mGen.On("Generate", ctx, mock.Anything).Return("  hello there \n", nil)

		reply, err := svc.Send(ctx, sess, "hi")

		assert.NoError(t, err)
		assert.Equal(t, "hello there", reply.Reply)
		assert.Equal(t, "User: hi\nBot: hello there", sess.Conversation().RenderContext())
	})

	t.Run("generation failure falls back and keeps the user turn", func(t *testing.T) {
		mGen := new(llmMocks.MockGenerator)
		svc := NewChatService(mGen)
		sess := newTestSession()

		mGen.On("Generate", ctx, mock.Anything).Return("", errors.New("quota exceeded"))

		reply, err := svc.Send(ctx, sess, "hi")

		assert.NoError(t, err)
		assert.Equal(t, FallbackReply, reply.Reply)
		assert.Equal(t, "generation failed", reply.Warning)
		assert.Equal(t, []model.ConversationTurn{
			{Role: model.RoleUser, Message: "hi"},
		}, svc.History(sess))
	})

	t.Run("missing credential warning", func(t *testing.T) {
		svc := NewChatService(llm.Unconfigured{})
		sess := newTestSession()

		reply, err := svc.Send(ctx, sess, "hi")

		assert.NoError(t, err)
		assert.Equal(t, FallbackReply, reply.Reply)
		assert.Equal(t, "generation unavailable: missing API key", reply.Warning)
	})

	t.Run("failed turn is not rendered into the next prompt", func(t *testing.T) {
		mGen := new(llmMocks.MockGenerator)
		svc := NewChatService(mGen)
		sess := newTestSession()

		mGen.On("Generate", ctx, "User: hi\nBot:").Return("", errors.New("boom")).Once()
		mGen.On("Generate", ctx, "User: hi\nUser: again\nBot:").Return("ok", nil).Once()

		_, err := svc.Send(ctx, sess, "hi")
		assert.NoError(t, err)

		reply, err := svc.Send(ctx, sess, "again")
		assert.NoError(t, err)
		assert.Equal(t, "ok", reply.Reply)
		mGen.AssertExpectations(t)
	})
}

func TestChatService_History(t *testing.T) {
	svc := NewChatService(new(llmMocks.MockGenerator))
	sess := newTestSession()

	assert.Empty(t, svc.History(sess))

	sess.Conversation().AppendUserTurn("hi")
	got := svc.History(sess)
	assert.Len(t, got, 1)

	got[0].Message = "mutated"
	assert.Equal(t, "hi", svc.History(sess)[0].Message)
}
