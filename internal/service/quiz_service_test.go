package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/edututor/edututor-backend/internal/model"
	"github.com/edututor/edututor-backend/internal/session"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubGenerator returns canned questions or a canned error.
type stubGenerator struct {
	questions []model.QuizQuestion
	err       error
	calls     int
}

func (g *stubGenerator) Generate(ctx context.Context, topic string, numQuestions int) ([]model.QuizQuestion, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	return g.questions, nil
}

func newQuizFixture(gen Generator) (*QuizService, *ActivityService, *session.Session) {
	activity := NewActivityService(zerolog.Nop())
	svc := NewQuizService(gen, activity, zerolog.Nop())
	store := session.NewStore(time.Hour, zerolog.Nop())
	return svc, activity, store.Create()
}

func loginTestStudent(t *testing.T, sess *session.Session, userID string) {
	t.Helper()
	sess.Start()
	sess.Register(model.RoleStudent, userID, "pw")
	require.NoError(t, sess.Login(model.RoleStudent, userID, "pw"))
}

func TestQuizService_Generate(t *testing.T) {
	gen := &stubGenerator{questions: []model.QuizQuestion{
		{Question: "q1", Answer: model.AnswerB},
		{Question: "q2", Answer: model.AnswerD},
	}}
	svc, _, sess := newQuizFixture(gen)

	view, err := svc.Generate(context.Background(), sess, model.GenerateQuizRequest{Topic: "AI", NumQuestions: 2})
	require.NoError(t, err)

	assert.Equal(t, "AI", view.Topic)
	require.Len(t, view.Questions, 2)
	assert.Equal(t, 1, view.Questions[0].Number)
	assert.Equal(t, model.AnswerOptions, view.Questions[0].Options)
	assert.Equal(t, []model.AnswerLetter{model.AnswerUnset, model.AnswerUnset}, view.Answers)
}

func TestQuizService_GenerateFailureLeavesQuizUntouched(t *testing.T) {
	gen := &stubGenerator{questions: []model.QuizQuestion{{Question: "q", Answer: model.AnswerA}}}
	svc, _, sess := newQuizFixture(gen)

	_, err := svc.Generate(context.Background(), sess, model.GenerateQuizRequest{Topic: "AI", NumQuestions: 1})
	require.NoError(t, err)

	gen.err = errors.New("service down")
	_, err = svc.Generate(context.Background(), sess, model.GenerateQuizRequest{Topic: "Networks", NumQuestions: 1})
	require.Error(t, err)

	// The earlier quiz must still be active, topic included.
	view, err := svc.Current(sess)
	require.NoError(t, err)
	assert.Equal(t, "AI", view.Topic)
}

func TestQuizService_ViewHidesAnswerKey(t *testing.T) {
	gen := &stubGenerator{questions: []model.QuizQuestion{{Question: "q1", Answer: model.AnswerC}}}
	svc, _, sess := newQuizFixture(gen)

	view, err := svc.Generate(context.Background(), sess, model.GenerateQuizRequest{Topic: "AI", NumQuestions: 1})
	require.NoError(t, err)

	// QuestionView carries no answer field at all; check the fixed options
	// are the only choice data exposed.
	assert.Equal(t, model.QuestionView{
		Number:   1,
		Question: "q1",
		Options:  model.AnswerOptions,
	}, view.Questions[0])
}

func TestQuizService_CurrentWithoutQuiz(t *testing.T) {
	svc, _, sess := newQuizFixture(&stubGenerator{})

	_, err := svc.Current(sess)
	assert.ErrorIs(t, err, session.ErrNoActiveQuiz)
}

func TestQuizService_SubmitPublishesActivity(t *testing.T) {
	gen := &stubGenerator{questions: []model.QuizQuestion{
		{Question: "q1", Answer: model.AnswerA},
		{Question: "q2", Answer: model.AnswerB},
	}}
	svc, activity, sess := newQuizFixture(gen)
	loginTestStudent(t, sess, "alice")

	events := activity.Subscribe(sess.ID())
	defer activity.Unsubscribe(sess.ID(), events)

	_, err := svc.Generate(context.Background(), sess, model.GenerateQuizRequest{Topic: "AI", NumQuestions: 2})
	require.NoError(t, err)
	require.NoError(t, svc.Answer(sess, model.AnswerRequest{Index: 0, Answer: model.AnswerA}))

	result, err := svc.Submit(sess)
	require.NoError(t, err)
	assert.Equal(t, "1/2", result.Score)

	select {
	case event := <-events:
		assert.Equal(t, "alice", event.StudentID)
		assert.Equal(t, "AI", event.Topic)
		assert.Equal(t, 1, event.Correct)
		assert.Equal(t, 2, event.Total)
		assert.Equal(t, "1/2", event.Score)
		assert.WithinDuration(t, time.Now(), event.SubmittedAt, time.Minute)
	default:
		t.Fatal("expected an activity event after submit")
	}
}

func TestQuizService_SubmitWithoutQuiz(t *testing.T) {
	svc, _, sess := newQuizFixture(&stubGenerator{})
	loginTestStudent(t, sess, "alice")

	_, err := svc.Submit(sess)
	assert.ErrorIs(t, err, session.ErrNoActiveQuiz)
}

func TestQuizService_History(t *testing.T) {
	gen := &stubGenerator{questions: []model.QuizQuestion{{Question: "q", Answer: model.AnswerA}}}
	svc, _, sess := newQuizFixture(gen)
	loginTestStudent(t, sess, "alice")

	assert.Empty(t, svc.History(sess))

	_, err := svc.Generate(context.Background(), sess, model.GenerateQuizRequest{Topic: "AI", NumQuestions: 1})
	require.NoError(t, err)
	_, err = svc.Submit(sess)
	require.NoError(t, err)

	history := svc.History(sess)
	require.Len(t, history, 1)
	assert.Equal(t, model.HistoryEntry{Topic: "AI", Score: "0/1"}, history[0])
}
