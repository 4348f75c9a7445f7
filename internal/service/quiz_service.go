package service

import (
	"context"
	"time"

	"github.com/edututor/edututor-backend/internal/model"
	"github.com/edututor/edututor-backend/internal/session"
	"github.com/rs/zerolog"
)

// Generator produces quiz questions for a topic. Satisfied by
// quizgen.Client; tests substitute a stub.
type Generator interface {
	Generate(ctx context.Context, topic string, numQuestions int) ([]model.QuizQuestion, error)
}

// QuizService drives the quiz-taking flow: generate, answer, submit.
type QuizService struct {
	generator Generator
	activity  *ActivityService
	log       zerolog.Logger
}

// NewQuizService creates a new QuizService.
func NewQuizService(generator Generator, activity *ActivityService, log zerolog.Logger) *QuizService {
	return &QuizService{
		generator: generator,
		activity:  activity,
		log:       log.With().Str("component", "quiz_service").Logger(),
	}
}

// Generate fetches a fresh quiz from the quiz service and installs it in
// the session. On any generator failure the session's quiz state is left
// exactly as it was — no partial quiz is ever retained.
func (s *QuizService) Generate(ctx context.Context, sess *session.Session, req model.GenerateQuizRequest) (model.QuizView, error) {
	questions, err := s.generator.Generate(ctx, req.Topic, req.NumQuestions)
	if err != nil {
		return model.QuizView{}, err
	}

	sess.BeginQuiz(req.Topic, questions)
	s.log.Info().
		Str("topic", req.Topic).
		Int("questions", len(questions)).
		Msg("Quiz installed in session")

	active, _ := sess.ActiveQuiz()
	return viewOf(active), nil
}

// Current returns the quiz being answered, without the answer key.
func (s *QuizService) Current(sess *session.Session) (model.QuizView, error) {
	active, ok := sess.ActiveQuiz()
	if !ok {
		return model.QuizView{}, session.ErrNoActiveQuiz
	}
	return viewOf(active), nil
}

// Answer overwrites one selection of the active quiz in place.
func (s *QuizService) Answer(sess *session.Session, req model.AnswerRequest) error {
	return sess.Answer(req.Index, req.Answer)
}

// Submit grades the active quiz, appends it to both score logs and notifies
// any educator activity subscribers of this session.
func (s *QuizService) Submit(sess *session.Session) (model.SubmitResult, error) {
	active, ok := sess.ActiveQuiz()
	if !ok {
		return model.SubmitResult{}, session.ErrNoActiveQuiz
	}

	result, err := sess.Submit()
	if err != nil {
		return model.SubmitResult{}, err
	}

	_, userID, _ := sess.Identity()
	s.log.Info().
		Str("user_id", userID).
		Str("topic", active.Topic).
		Str("score", result.Score).
		Msg("Quiz submitted")

	s.activity.Publish(sess.ID(), model.ActivityEvent{
		StudentID:   userID,
		Topic:       active.Topic,
		Correct:     result.Correct,
		Total:       result.Total,
		Score:       result.Score,
		SubmittedAt: time.Now(),
	})
	return result, nil
}

// History returns the session-wide attempt log in insertion order.
func (s *QuizService) History(sess *session.Session) []model.HistoryEntry {
	return sess.History()
}

// viewOf strips the answer key and attaches the fixed A–D options.
func viewOf(active session.ActiveQuiz) model.QuizView {
	questions := make([]model.QuestionView, len(active.Questions))
	for i, q := range active.Questions {
		questions[i] = model.QuestionView{
			Number:   i + 1,
			Question: q.Question,
			Options:  model.AnswerOptions,
		}
	}
	return model.QuizView{
		Topic:     active.Topic,
		Questions: questions,
		Answers:   active.Answers,
	}
}
