package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/ashwinyue/next-mentor/internal/model"
)

// seedQuestion 创建会话并写入一条学生消息
func seedQuestion(t *testing.T, repos *Repositories, mentorID, content string) (*model.ChatSession, *model.Message) {
	t.Helper()
	ctx := context.Background()
	session, err := repos.Chat.CreateSession(ctx, "student_1", mentorID)
	require.NoError(t, err)
	msg, err := repos.Chat.AddMessage(ctx, NewMessage{
		SessionID:  session.ID,
		SenderType: model.SenderStudent,
		Content:    content,
	})
	require.NoError(t, err)
	return session, msg
}

func TestQueueRepository_EnqueueAndPending(t *testing.T) {
	repos, _ := newTestRepos(t)
	ctx := context.Background()
	stubClock(t, time.Date(2025, 2, 1, 8, 0, 0, 0, time.UTC))

	s1, m1 := seedQuestion(t, repos, "mentor_1", "What is a variable?")
	s2, m2 := seedQuestion(t, repos, "mentor_1", "What is a loop?")
	s3, m3 := seedQuestion(t, repos, "mentor_2", "What is a map?")

	e1, err := repos.Queue.AddAIResponseToQueue(ctx, s1.ID, m1.ID, "A named value.")
	require.NoError(t, err)
	assert.Equal(t, model.QueueStatusPending, e1.Status)
	e2, err := repos.Queue.AddAIResponseToQueue(ctx, s2.ID, m2.ID, "Repetition.")
	require.NoError(t, err)
	_, err = repos.Queue.AddAIResponseToQueue(ctx, s3.ID, m3.ID, "Key value pairs.")
	require.NoError(t, err)

	pending, err := repos.Queue.GetPendingAIResponses(ctx, "mentor_1")
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, e1.ID, pending[0].ID)
	assert.Equal(t, "What is a variable?", pending[0].StudentMessage)
	assert.Equal(t, "student_1", pending[0].StudentID)
	assert.Equal(t, "mentor_1", pending[0].MentorID)
	assert.Equal(t, e2.ID, pending[1].ID)

	// 读取不改变状态
	again, err := repos.Queue.GetPendingAIResponses(ctx, "mentor_1")
	require.NoError(t, err)
	assert.Equal(t, pending, again)

	none, err := repos.Queue.GetPendingAIResponses(ctx, "mentor_3")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestQueueRepository_EnqueueForeignKeys(t *testing.T) {
	repos, _ := newTestRepos(t)
	ctx := context.Background()

	s1, m1 := seedQuestion(t, repos, "mentor_1", "question one")
	s2, _ := seedQuestion(t, repos, "mentor_1", "question two")

	_, err := repos.Queue.AddAIResponseToQueue(ctx, s2.ID, m1.ID, "answer")
	assert.ErrorIs(t, err, ErrForeignKeyViolation)

	_, err = repos.Queue.AddAIResponseToQueue(ctx, s1.ID, "missing", "answer")
	assert.ErrorIs(t, err, ErrForeignKeyViolation)

	_, err = repos.Queue.AddAIResponseToQueue(ctx, "missing", m1.ID, "answer")
	assert.ErrorIs(t, err, ErrForeignKeyViolation)
}

func TestQueueRepository_Approve(t *testing.T) {
	repos, _ := newTestRepos(t)
	ctx := context.Background()

	session, question := seedQuestion(t, repos, "mentor_1", "What is recursion?")
	entry, err := repos.Queue.AddAIResponseToQueue(ctx, session.ID, question.ID, "A function calling itself.")
	require.NoError(t, err)

	approved, msg, err := repos.Queue.ApproveAIResponse(ctx, entry.ID, "mentor_1")
	require.NoError(t, err)
	assert.Equal(t, model.QueueStatusSent, approved.Status)
	require.NotNil(t, approved.ApprovedAt)
	require.NotNil(t, approved.SentAt)

	assert.Equal(t, model.SenderAI, msg.SenderType)
	assert.True(t, msg.IsAIGenerated)
	assert.Equal(t, model.ApprovalApproved, msg.ApprovalStatus)
	require.NotNil(t, msg.ApprovedBy)
	assert.Equal(t, "mentor_1", *msg.ApprovedBy)
	assert.Equal(t, int64(2), msg.Seq)

	messages, err := repos.Chat.GetSessionMessages(ctx, session.ID)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "A function calling itself.", messages[1].Content)

	pending, err := repos.Queue.GetPendingAIResponses(ctx, "mentor_1")
	require.NoError(t, err)
	assert.Empty(t, pending)

	_, _, err = repos.Queue.ApproveAIResponse(ctx, entry.ID, "mentor_1")
	assert.ErrorIs(t, err, ErrInvalidStateTransition)
	_, err = repos.Queue.RejectAIResponse(ctx, entry.ID)
	assert.ErrorIs(t, err, ErrInvalidStateTransition)

	messages, err = repos.Chat.GetSessionMessages(ctx, session.ID)
	require.NoError(t, err)
	assert.Len(t, messages, 2)
}

func TestQueueRepository_ApproveWrongMentorRollsBack(t *testing.T) {
	repos, _ := newTestRepos(t)
	ctx := context.Background()

	session, question := seedQuestion(t, repos, "mentor_1", "What is a pointer?")
	entry, err := repos.Queue.AddAIResponseToQueue(ctx, session.ID, question.ID, "An address.")
	require.NoError(t, err)

	_, _, err = repos.Queue.ApproveAIResponse(ctx, entry.ID, "mentor_2")
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := repos.Queue.GetQueueEntry(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, model.QueueStatusPending, got.Status)
	assert.Nil(t, got.ApprovedAt)

	messages, err := repos.Chat.GetSessionMessages(ctx, session.ID)
	require.NoError(t, err)
	assert.Len(t, messages, 1)
}

func TestQueueRepository_Reject(t *testing.T) {
	repos, _ := newTestRepos(t)
	ctx := context.Background()

	session, question := seedQuestion(t, repos, "mentor_1", "Why tests?")
	entry, err := repos.Queue.AddAIResponseToQueue(ctx, session.ID, question.ID, "Because.")
	require.NoError(t, err)

	rejected, err := repos.Queue.RejectAIResponse(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, model.QueueStatusRejected, rejected.Status)

	_, _, err = repos.Queue.ApproveAIResponse(ctx, entry.ID, "mentor_1")
	assert.ErrorIs(t, err, ErrInvalidStateTransition)

	// 其他导师看不到已处理的记录
	_, _, err = repos.Queue.ApproveAIResponse(ctx, entry.ID, "mentor_2")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrInvalidStateTransition)

	messages, err := repos.Chat.GetSessionMessages(ctx, session.ID)
	require.NoError(t, err)
	assert.Len(t, messages, 1)

	_, err = repos.Queue.RejectAIResponse(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, _, err = repos.Queue.ApproveAIResponse(ctx, "missing", "mentor_1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestQueueRepository_ApproveRejectRace(t *testing.T) {
	repos, _ := newTestRepos(t)
	ctx := context.Background()

	for round := 0; round < 5; round++ {
		session, question := seedQuestion(t, repos, "mentor_1", "race question")
		entry, err := repos.Queue.AddAIResponseToQueue(ctx, session.ID, question.ID, "race answer")
		require.NoError(t, err)

		var approveErr, rejectErr error
		var g errgroup.Group
		g.Go(func() error {
			_, _, approveErr = repos.Queue.ApproveAIResponse(ctx, entry.ID, "mentor_1")
			return nil
		})
		g.Go(func() error {
			_, rejectErr = repos.Queue.RejectAIResponse(ctx, entry.ID)
			return nil
		})
		require.NoError(t, g.Wait())

		// 恰好一个成功，另一个看到终态
		assert.True(t, (approveErr == nil) != (rejectErr == nil), "approve=%v reject=%v", approveErr, rejectErr)
		for _, err := range []error{approveErr, rejectErr} {
			if err != nil {
				assert.True(t, errors.Is(err, ErrInvalidStateTransition), "unexpected error: %v", err)
			}
		}

		got, err := repos.Queue.GetQueueEntry(ctx, entry.ID)
		require.NoError(t, err)
		messages, err := repos.Chat.GetSessionMessages(ctx, session.ID)
		require.NoError(t, err)
		if approveErr == nil {
			assert.Equal(t, model.QueueStatusSent, got.Status)
			assert.Len(t, messages, 2)
		} else {
			assert.Equal(t, model.QueueStatusRejected, got.Status)
			assert.Len(t, messages, 1)
		}
	}
}
