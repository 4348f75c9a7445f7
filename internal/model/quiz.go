package model

import "time"

// AnswerLetter is one of the four fixed multiple-choice options.
type AnswerLetter string

const (
	AnswerA AnswerLetter = "A"
	AnswerB AnswerLetter = "B"
	AnswerC AnswerLetter = "C"
	AnswerD AnswerLetter = "D"

	// AnswerUnset marks an unanswered question. It never equals a key
	// letter, so unanswered questions are always counted wrong.
	AnswerUnset AnswerLetter = ""
)

// AnswerOptions are the options rendered for every question. They are fixed
// A–D regardless of the quiz service response, which only supplies the
// correct letter.
var AnswerOptions = []AnswerLetter{AnswerA, AnswerB, AnswerC, AnswerD}

// QuizQuestion is one generated question as returned by the quiz service.
// The correct letter is never serialized to students.
type QuizQuestion struct {
	Question string       `json:"question"`
	Answer   AnswerLetter `json:"-"`
}

// StudentRecord is one scored attempt attributed to a student, visible to
// educators. Score is the integer count of correct answers.
type StudentRecord struct {
	Topic string `json:"topic"`
	Score int    `json:"score"`
}

// HistoryEntry is one scored attempt in the session-wide quiz history.
// Score is rendered as "correct/total". The two logs record the same event
// in different representations: this one as the string, StudentRecord as
// the integer count.
type HistoryEntry struct {
	Topic string `json:"topic"`
	Score string `json:"score"`
}

// QuestionView is a question as shown to the student while answering.
type QuestionView struct {
	Number   int            `json:"number"`
	Question string         `json:"question"`
	Options  []AnswerLetter `json:"options"`
}

// QuizView is the student-facing shape of the active quiz.
type QuizView struct {
	Topic     string         `json:"topic"`
	Questions []QuestionView `json:"questions"`
	Answers   []AnswerLetter `json:"answers"`
}

// SubmitResult is returned after grading.
type SubmitResult struct {
	Correct int    `json:"correct"`
	Total   int    `json:"total"`
	Score   string `json:"score"`
}

// StudentActivity is one student's row in the educator activity view.
// Note carries the explicit no-quizzes marker when Records is empty.
type StudentActivity struct {
	StudentID string          `json:"student_id"`
	Records   []StudentRecord `json:"records"`
	Note      string          `json:"note,omitempty"`
}

// ActivityEvent is pushed to educator activity streams when a student
// submits a quiz.
type ActivityEvent struct {
	StudentID   string    `json:"student_id"`
	Topic       string    `json:"topic"`
	Correct     int       `json:"correct"`
	Total       int       `json:"total"`
	Score       string    `json:"score"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// GenerateQuizRequest is the payload for quiz generation.
type GenerateQuizRequest struct {
	Topic        string `json:"topic" binding:"required,min=1,max=200"`
	NumQuestions int    `json:"num_questions" binding:"required,min=1,max=10"`
}

// AnswerRequest selects one option for one question of the active quiz.
type AnswerRequest struct {
	Index  int          `json:"index" binding:"gte=0"`
	Answer AnswerLetter `json:"answer" binding:"required,oneof=A B C D"`
}
