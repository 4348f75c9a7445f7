package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/edututor/edututor-backend/internal/model"
	"github.com/google/uuid"
)

// Sentinel errors for session operations.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNoActiveQuiz       = errors.New("no active quiz")
	ErrQuestionOutOfRange = errors.New("question index out of range")
	ErrNotLoggedIn        = errors.New("not logged in")
)

// ActiveQuiz is the quiz currently being answered in a session.
// Topic is snapshotted at generation time; submission uses this snapshot,
// not whatever the topic input field says at submit time.
type ActiveQuiz struct {
	Topic     string
	Questions []model.QuizQuestion
	Answers   []model.AnswerLetter
}

// Session is one client's isolated state store. Every field below lives for
// the lifetime of the session only; nothing is shared across sessions and
// nothing survives a process restart.
//
// All exported methods are safe for concurrent use — a browser with several
// tabs can hit the API in parallel.
type Session struct {
	mu sync.Mutex

	id        uuid.UUID
	createdAt time.Time
	lastSeen  time.Time

	started  bool
	loggedIn bool
	role     model.Role
	userID   string

	// credentials maps "{role}:{userID}" to a plaintext password.
	// Login is a plaintext exact-match compare and re-registration is a
	// last-write-wins overwrite; this is not an auth layer.
	credentials map[string]string

	// students maps student ID to that student's scored attempts, in
	// submission order. Seeded with an empty list on a student's first
	// successful login and never reset afterwards.
	students map[string][]model.StudentRecord

	// history is the session-wide attempt log with "correct/total" scores.
	history []model.HistoryEntry

	active  *ActiveQuiz
	profile model.Profile
	picture []byte
	picMIME string
}

func newSession() *Session {
	now := time.Now()
	return &Session{
		id:          uuid.New(),
		createdAt:   now,
		lastSeen:    now,
		credentials: make(map[string]string),
		students:    make(map[string][]model.StudentRecord),
	}
}

// ID returns the session's unique identifier.
func (s *Session) ID() uuid.UUID { return s.id }

// Touch records activity, deferring TTL eviction.
func (s *Session) Touch() {
	s.mu.Lock()
	s.lastSeen = time.Now()
	s.mu.Unlock()
}

// Screen evaluates the current screen from the session state.
func (s *Session) Screen() Screen {
	s.mu.Lock()
	defer s.mu.Unlock()
	return screenFor(s.started, s.loggedIn, s.role)
}

// Start marks onboarding as completed ("Get Started").
func (s *Session) Start() {
	s.mu.Lock()
	s.started = true
	s.mu.Unlock()
}

// Identity returns the logged-in role and user ID, or ok=false when the
// session is not authenticated.
func (s *Session) Identity() (role model.Role, userID string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loggedIn {
		return "", "", false
	}
	return s.role, s.userID, true
}

// Register inserts or overwrites the credential for role:userID.
// Re-registering the same key replaces the previous password.
func (s *Session) Register(role model.Role, userID, password string) {
	s.mu.Lock()
	s.credentials[model.CredentialKey(role, userID)] = password
	s.mu.Unlock()
}

// Login authenticates against the registered credentials. On success it
// flips the session into the logged-in state and, for a student seen for
// the first time, seeds an empty record list. Failure leaves every field
// unchanged.
func (s *Session) Login(role model.Role, userID, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, exists := s.credentials[model.CredentialKey(role, userID)]
	if !exists || stored != password {
		return ErrInvalidCredentials
	}

	s.loggedIn = true
	s.role = role
	s.userID = userID

	if role == model.RoleStudent {
		if _, seen := s.students[userID]; !seen {
			s.students[userID] = []model.StudentRecord{}
		}
	}
	return nil
}

// Logout clears the identity, the profile and any active quiz. Registered
// credentials, student records and the history log survive within the
// session so a subsequent login sees them.
func (s *Session) Logout() {
	s.mu.Lock()
	s.loggedIn = false
	s.role = ""
	s.userID = ""
	s.active = nil
	s.profile = model.Profile{}
	s.picture = nil
	s.picMIME = ""
	s.mu.Unlock()
}

// Profile returns the last-saved profile values.
func (s *Session) Profile() model.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.profile
	p.HasPicture = len(s.picture) > 0
	return p
}

// UpdateProfile copies name and bio into the profile. Called only on
// explicit confirmation; in-progress edits never reach the session.
func (s *Session) UpdateProfile(name, bio string) {
	s.mu.Lock()
	s.profile.Name = name
	s.profile.Bio = bio
	s.mu.Unlock()
}

// SetPicture stores the uploaded image as an opaque blob.
func (s *Session) SetPicture(data []byte, mimeType string) {
	s.mu.Lock()
	s.picture = data
	s.picMIME = mimeType
	s.mu.Unlock()
}

// Picture returns the stored image blob and its MIME type.
func (s *Session) Picture() (data []byte, mimeType string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.picture) == 0 {
		return nil, "", false
	}
	return s.picture, s.picMIME, true
}

// BeginQuiz replaces any active quiz with a fresh one. The answers array is
// sized to the question count with every entry unset, and the topic is
// snapshotted now.
func (s *Session) BeginQuiz(topic string, questions []model.QuizQuestion) {
	answers := make([]model.AnswerLetter, len(questions))
	for i := range answers {
		answers[i] = model.AnswerUnset
	}
	s.mu.Lock()
	s.active = &ActiveQuiz{
		Topic:     topic,
		Questions: questions,
		Answers:   answers,
	}
	s.mu.Unlock()
}

// ActiveQuiz returns a copy of the quiz being answered.
func (s *Session) ActiveQuiz() (ActiveQuiz, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return ActiveQuiz{}, false
	}
	return s.copyActiveLocked(), true
}

// Answer overwrites the selection for one question in place. There is no
// requirement that every question is answered before submission.
func (s *Session) Answer(index int, letter model.AnswerLetter) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return ErrNoActiveQuiz
	}
	if index < 0 || index >= len(s.active.Answers) {
		return fmt.Errorf("%w: %d of %d", ErrQuestionOutOfRange, index, len(s.active.Answers))
	}
	s.active.Answers[index] = letter
	return nil
}

// Submit grades the active quiz and appends the result to both logs: the
// session history as "correct/total" and the student's record list as the
// integer count. Submitting again without regenerating appends a duplicate
// entry; there is no idempotence guard.
func (s *Session) Submit() (model.SubmitResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return model.SubmitResult{}, ErrNoActiveQuiz
	}
	if !s.loggedIn {
		return model.SubmitResult{}, ErrNotLoggedIn
	}

	correct := 0
	for i, q := range s.active.Questions {
		if s.active.Answers[i] == q.Answer {
			correct++
		}
	}
	total := len(s.active.Questions)
	result := model.SubmitResult{
		Correct: correct,
		Total:   total,
		Score:   fmt.Sprintf("%d/%d", correct, total),
	}

	s.history = append(s.history, model.HistoryEntry{
		Topic: s.active.Topic,
		Score: result.Score,
	})
	s.students[s.userID] = append(s.students[s.userID], model.StudentRecord{
		Topic: s.active.Topic,
		Score: correct,
	})
	return result, nil
}

// History returns the session-wide attempt log in insertion order.
func (s *Session) History() []model.HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.HistoryEntry, len(s.history))
	copy(out, s.history)
	return out
}

// StudentRecords returns a copy of every student's record list, including
// students who have not taken a quiz yet.
func (s *Session) StudentRecords() map[string][]model.StudentRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string][]model.StudentRecord, len(s.students))
	for id, records := range s.students {
		copied := make([]model.StudentRecord, len(records))
		copy(copied, records)
		out[id] = copied
	}
	return out
}

func (s *Session) copyActiveLocked() ActiveQuiz {
	questions := make([]model.QuizQuestion, len(s.active.Questions))
	copy(questions, s.active.Questions)
	answers := make([]model.AnswerLetter, len(s.active.Answers))
	copy(answers, s.active.Answers)
	return ActiveQuiz{
		Topic:     s.active.Topic,
		Questions: questions,
		Answers:   answers,
	}
}
