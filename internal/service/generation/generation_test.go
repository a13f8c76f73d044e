package generation

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashwinyue/next-mentor/internal/model"
	"github.com/ashwinyue/next-mentor/internal/repository"
	"github.com/ashwinyue/next-mentor/internal/service/approval"
	"github.com/ashwinyue/next-mentor/internal/service/generator"
	"github.com/ashwinyue/next-mentor/internal/service/presence"
	"github.com/ashwinyue/next-mentor/internal/service/style"
	"github.com/ashwinyue/next-mentor/internal/testutil"
)

type fixture struct {
	repos    *repository.Repositories
	gen      *testutil.ScriptedGenerator
	styles   *style.Manager
	engine   *approval.Engine
	presence *presence.Tracker
	svc      *Service
}

func newFixture(t *testing.T, steps ...testutil.Step) *fixture {
	t.Helper()
	repos := testutil.NewTestRepositories(t)
	gen := testutil.NewScriptedGenerator(steps...)
	styles := style.NewManager(repos.Style, gen, nil)
	engine := approval.NewEngine(repos.Queue, nil)
	tracker := presence.NewTracker(nil, 0, false)
	return &fixture{
		repos:    repos,
		gen:      gen,
		styles:   styles,
		engine:   engine,
		presence: tracker,
		svc:      NewService(gen, styles, repos.Chat, engine, tracker, nil),
	}
}

func (f *fixture) session(t *testing.T, studentID, mentorID string) *model.ChatSession {
	t.Helper()
	s, err := f.repos.Chat.CreateSession(context.Background(), studentID, mentorID)
	require.NoError(t, err)
	return s
}

func (f *fixture) countMessages(t *testing.T, sessionID string) int {
	t.Helper()
	msgs, err := f.repos.Chat.GetSessionMessages(context.Background(), sessionID)
	require.NoError(t, err)
	return len(msgs)
}

func TestGenerateReply_NewConversation(t *testing.T) {
	f := newFixture(t, testutil.Reply("Hey! Loops repeat code."))
	s := f.session(t, "s1", "m1")

	res, err := f.svc.GenerateReply(context.Background(), "m1", "What is a loop?", s.ID)
	require.NoError(t, err)
	assert.True(t, res.OK())
	assert.Equal(t, "Hey! Loops repeat code.", res.Text)

	require.Equal(t, 1, f.gen.Calls())
	prompt := f.gen.Prompts[0]
	assert.Contains(t, prompt, NoHistory)
	assert.Contains(t, prompt, style.NoStylePlaceholder)
	assert.Contains(t, prompt, "What is a loop?")
}

func TestGenerateReply_WithHistory(t *testing.T) {
	ctx := context.Background()

	t.Run("summary included", func(t *testing.T) {
		f := newFixture(t, testutil.Reply("Student mastered variables."), testutil.Reply("Nice, on to loops!"))
		s := f.session(t, "s1", "m1")
		_, err := f.repos.Chat.AddMessage(ctx, repository.NewMessage{SessionID: s.ID, SenderType: model.SenderStudent, Content: "x = 1"})
		require.NoError(t, err)

		res, err := f.svc.GenerateReply(ctx, "m1", "What next?", s.ID)
		require.NoError(t, err)
		assert.True(t, res.OK())
		require.Equal(t, 2, f.gen.Calls())
		assert.Contains(t, f.gen.Prompts[0], "student: x = 1")
		assert.Contains(t, f.gen.Prompts[1], "Student mastered variables.")
	})

	t.Run("summary failure falls back", func(t *testing.T) {
		f := newFixture(t, testutil.Fail(errors.New("timeout")), testutil.Reply("Keep going!"))
		s := f.session(t, "s1", "m1")
		_, err := f.repos.Chat.AddMessage(ctx, repository.NewMessage{SessionID: s.ID, SenderType: model.SenderStudent, Content: "hi"})
		require.NoError(t, err)

		res, err := f.svc.GenerateReply(ctx, "m1", "help", s.ID)
		require.NoError(t, err)
		assert.True(t, res.OK())
		assert.Equal(t, "Keep going!", res.Text)
		assert.Contains(t, f.gen.Prompts[1], SummaryFallback)
	})
}

func TestGenerateReply_UsesLatestStyle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, testutil.Reply(`{"tone":"casual"}`), testutil.Reply("Cool."))
	s := f.session(t, "s1", "m1")

	_, err := f.styles.AnalyzeStyle(ctx, "m1", []string{"Makes sense?", "Cool. Try it."})
	require.NoError(t, err)

	_, err = f.svc.GenerateReply(ctx, "m1", "loops?", s.ID)
	require.NoError(t, err)
	assert.Contains(t, f.gen.Prompts[1], "Makes sense?\nCool. Try it.")
}

func TestGenerateNudge(t *testing.T) {
	ctx := context.Background()

	f := newFixture(t, testutil.Reply("How did the exam go? 🚀"))
	res, err := f.svc.GenerateNudge(ctx, "m1", "student finished the loops module")
	require.NoError(t, err)
	assert.True(t, res.OK())
	assert.Contains(t, f.gen.Prompts[0], "student finished the loops module")

	f = newFixture(t, testutil.Fail(errors.New("quota exceeded")))
	res, err = f.svc.GenerateNudge(ctx, "m1", "event")
	require.NoError(t, err)
	assert.False(t, res.OK())
	assert.Equal(t, NudgeFallback, res.Text)
	assert.ErrorIs(t, res.Err, generator.ErrGeneration)
}

func TestSimulateExam(t *testing.T) {
	f := newFixture(t, testutil.Reply("Good luck on the results!"))
	f.svc.now = func() time.Time { return time.Date(2024, 10, 23, 9, 0, 0, 0, time.UTC) }

	nudge, err := f.svc.SimulateExam(context.Background(), "m1", "Algebra Fundamentals", "", "")
	require.NoError(t, err)
	assert.Equal(t, "Event: 'student took exam', Exam: 'Algebra Fundamentals', Date: '2024-10-23', Student: 'student_001', Score: 'Pending'", nudge.Event)
	assert.True(t, nudge.Result.OK())
	assert.Contains(t, f.gen.Prompts[0], nudge.Event)

	_, err = f.svc.SimulateExam(context.Background(), "m1", " ", "s1", "")
	assert.ErrorIs(t, err, repository.ErrInvalidArgument)
}

func TestSimulateExam_InSession(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, testutil.Reply("How did the quiz go?"))
	s := f.session(t, "s1", "m1")

	nudge, err := f.svc.SimulateExam(ctx, "m1", "Loops Quiz", "s1", s.ID)
	require.NoError(t, err)
	require.NotNil(t, nudge.Message)
	assert.Equal(t, model.SenderAI, nudge.Message.SenderType)
	assert.Equal(t, "How did the quiz go?", nudge.Message.Content)
	assert.Equal(t, 1, f.countMessages(t, s.ID))

	_, err = f.svc.SimulateExam(ctx, "m2", "Loops Quiz", "s1", s.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.Equal(t, 1, f.gen.Calls(), "no generation for a foreign session")
}

func TestDeliverNudge(t *testing.T) {
	ctx := context.Background()

	t.Run("delivered", func(t *testing.T) {
		f := newFixture(t, testutil.Reply("Nice work on loops! 🚀"))
		s := f.session(t, "s1", "m1")

		nudge, err := f.svc.DeliverNudge(ctx, "m1", s.ID, "student finished the loops module")
		require.NoError(t, err)
		assert.True(t, nudge.Result.OK())
		require.NotNil(t, nudge.Message)
		assert.Equal(t, model.SenderAI, nudge.Message.SenderType)
		assert.True(t, nudge.Message.IsAIGenerated)
		assert.Equal(t, model.ApprovalApproved, nudge.Message.ApprovalStatus)
		require.NotNil(t, nudge.Message.ApprovedBy)
		assert.Equal(t, "m1", *nudge.Message.ApprovedBy)

		text, err := f.repos.Chat.GetSessionContext(ctx, s.ID)
		require.NoError(t, err)
		assert.Equal(t, "ai: Nice work on loops! 🚀", text)
	})

	t.Run("failure writes nothing", func(t *testing.T) {
		f := newFixture(t, testutil.Fail(errors.New("quota exceeded")))
		s := f.session(t, "s1", "m1")

		nudge, err := f.svc.DeliverNudge(ctx, "m1", s.ID, "event")
		require.NoError(t, err)
		assert.False(t, nudge.Result.OK())
		assert.Equal(t, NudgeFallback, nudge.Result.Text)
		assert.Nil(t, nudge.Message)
		assert.Equal(t, 0, f.countMessages(t, s.ID))
	})

	t.Run("foreign session", func(t *testing.T) {
		f := newFixture(t, testutil.Reply("unused"))
		s := f.session(t, "s1", "m1")

		_, err := f.svc.DeliverNudge(ctx, "m2", s.ID, "event")
		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.Equal(t, 0, f.gen.Calls())
		assert.Equal(t, 0, f.countMessages(t, s.ID))
	})

	t.Run("empty event", func(t *testing.T) {
		f := newFixture(t)
		s := f.session(t, "s1", "m1")

		_, err := f.svc.DeliverNudge(ctx, "m1", s.ID, " ")
		assert.ErrorIs(t, err, repository.ErrInvalidArgument)
	})
}

func TestGenerateReplyWithApproval(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, testutil.Reply("Great question!"))
	s := f.session(t, "s1", "m1")

	outcome, err := f.svc.GenerateReplyWithApproval(ctx, "m1", "What is a list?", s.ID)
	require.NoError(t, err)
	assert.Equal(t, DeliveryQueued, outcome.Delivery)
	require.NotEmpty(t, outcome.QueueID())
	assert.Equal(t, "What is a list?", outcome.StudentMessage.Content)

	pending, err := f.engine.Pending(ctx, "m1")
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, outcome.QueueID(), pending[0].ID)
	assert.Equal(t, "Great question!", pending[0].GeneratedResponse)

	_, err = f.svc.GenerateReplyWithApproval(ctx, "m2", "hi", s.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestGenerateReplyWithApproval_FailureDoesNotEnqueue(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, testutil.Fail(errors.New("network down")))
	s := f.session(t, "s1", "m1")

	outcome, err := f.svc.GenerateReplyWithApproval(ctx, "m1", "What is a list?", s.ID)
	require.NoError(t, err)
	assert.Equal(t, DeliveryFailed, outcome.Delivery)
	assert.Empty(t, outcome.QueueID())
	assert.Equal(t, ReplyFallback, outcome.Result.Text)

	pending, err := f.engine.Pending(ctx, "m1")
	require.NoError(t, err)
	assert.Empty(t, pending)
	assert.Equal(t, 1, f.countMessages(t, s.ID))
}

func TestHandleStudentMessage(t *testing.T) {
	ctx := context.Background()

	t.Run("online mentor gets direct delivery", func(t *testing.T) {
		f := newFixture(t, testutil.Reply("Here's how loops work."))
		s := f.session(t, "s1", "m1")
		_, err := f.presence.SetStatus(ctx, "m1", true)
		require.NoError(t, err)

		outcome, err := f.svc.HandleStudentMessage(ctx, s.ID, "loops?")
		require.NoError(t, err)
		assert.Equal(t, DeliveryDelivered, outcome.Delivery)
		require.NotNil(t, outcome.Reply)
		assert.True(t, outcome.Reply.IsAIGenerated)
		assert.Equal(t, model.ApprovalApproved, outcome.Reply.ApprovalStatus)

		text, err := f.repos.Chat.GetSessionContext(ctx, s.ID)
		require.NoError(t, err)
		assert.Equal(t, "student: loops?\nai: Here's how loops work.", text)
	})

	t.Run("offline mentor gets queued", func(t *testing.T) {
		f := newFixture(t, testutil.Reply("Queued answer."))
		s := f.session(t, "s1", "m1")

		outcome, err := f.svc.HandleStudentMessage(ctx, s.ID, "loops?")
		require.NoError(t, err)
		assert.Equal(t, DeliveryQueued, outcome.Delivery)
		assert.Nil(t, outcome.Reply)
		assert.Equal(t, 1, f.countMessages(t, s.ID))

		pending, err := f.engine.Pending(ctx, "m1")
		require.NoError(t, err)
		require.Len(t, pending, 1)
		assert.Equal(t, "Queued answer.", pending[0].GeneratedResponse)
	})

	t.Run("failed generation creates no reply", func(t *testing.T) {
		f := newFixture(t, testutil.Fail(errors.New("quota exceeded")))
		s := f.session(t, "s1", "m1")

		outcome, err := f.svc.HandleStudentMessage(ctx, s.ID, "loops?")
		require.NoError(t, err)
		assert.Equal(t, DeliveryFailed, outcome.Delivery)
		assert.Equal(t, 1, f.countMessages(t, s.ID))

		pending, err := f.engine.Pending(ctx, "m1")
		require.NoError(t, err)
		assert.Empty(t, pending)
	})

	t.Run("unknown session", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.HandleStudentMessage(ctx, "missing", "hi")
		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.Equal(t, 0, f.gen.Calls())
	})
}

func TestResult_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(Result{Text: ReplyFallback, Err: generator.ErrGeneration})
	require.NoError(t, err)
	assert.JSONEq(t, `{"text":"`+ReplyFallback+`","ok":false,"error":"generation failed"}`, string(data))

	data, err = json.Marshal(Result{Text: "hi"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"text":"hi","ok":true}`, string(data))
}

// 端到端场景

func TestScenarioA_SessionContext(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := f.session(t, "s1", "m1")

	_, err := f.repos.Chat.AddMessage(ctx, repository.NewMessage{SessionID: s.ID, SenderType: model.SenderStudent, Content: "hi"})
	require.NoError(t, err)

	text, err := f.repos.Chat.GetSessionContext(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "student: hi", text)
}

func TestScenarioB_MalformedStyleAnalysis(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, testutil.Reply("tone: friendly, lots of emoji"))

	analysis, err := f.styles.AnalyzeStyle(ctx, "m1", []string{"Hey! Great job 👍"})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, analysis.Style.ConfidenceScore, 1e-9)

	stored, err := f.repos.Style.GetMentorStyle(ctx, "m1")
	require.NoError(t, err)
	profile := stored.Profile()
	assert.Equal(t, "encouraging", profile.Tone)
	assert.Equal(t, []string{"Great question", "No worries", "You got this"}, profile.CommonPhrases)
	assert.Equal(t, "occasional", profile.EmojiUsage)
	assert.Equal(t, "high", profile.EncouragementLevel)
}

func TestScenarioC_ApproveQueuedReply(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := f.session(t, "s1", "m1")
	question, err := f.repos.Chat.AddMessage(ctx, repository.NewMessage{SessionID: s.ID, SenderType: model.SenderStudent, Content: "Why?"})
	require.NoError(t, err)

	entry, err := f.repos.Queue.AddAIResponseToQueue(ctx, s.ID, question.ID, "Great question!")
	require.NoError(t, err)

	pending, err := f.repos.Queue.GetPendingAIResponses(ctx, "m1")
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "Great question!", pending[0].GeneratedResponse)
	assert.Equal(t, model.QueueStatusPending, pending[0].Status)

	_, msg, err := f.repos.Queue.ApproveAIResponse(ctx, entry.ID, "m1")
	require.NoError(t, err)
	assert.Equal(t, "Great question!", msg.Content)

	got, err := f.repos.Queue.GetQueueEntry(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, model.QueueStatusSent, got.Status)

	pending, err = f.repos.Queue.GetPendingAIResponses(ctx, "m1")
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestScenarioD_ReplyFailureHasNoSideEffects(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, testutil.Fail(errors.New("generator raised")))
	s := f.session(t, "s1", "m1")

	res, err := f.svc.GenerateReply(ctx, "m1", "hello?", s.ID)
	require.NoError(t, err)
	assert.False(t, res.OK())
	assert.Equal(t, ReplyFallback, res.Text)

	assert.Equal(t, 0, f.countMessages(t, s.ID))
	pending, err := f.repos.Queue.GetPendingAIResponses(ctx, "m1")
	require.NoError(t, err)
	assert.Empty(t, pending)
}
