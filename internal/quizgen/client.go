// Package quizgen is the HTTP client for the external quiz-generation
// service. The service is an opaque collaborator: it accepts a topic and a
// question count and returns multiple-choice questions with a correct
// letter per question.
package quizgen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/edututor/edututor-backend/internal/model"
	"github.com/rs/zerolog"
)

// Failure kinds, kept distinct so callers and tests can tell a dead server
// from a misbehaving one.
var (
	ErrUnavailable = errors.New("quiz service unreachable")
	ErrBadStatus   = errors.New("quiz service returned an error status")
	ErrBadResponse = errors.New("quiz service returned a malformed response")
)

// Client calls the quiz-generation endpoint. No retries; a failed call is
// surfaced to the user, who may simply generate again.
type Client struct {
	endpoint   string
	httpClient *http.Client
	log        zerolog.Logger
}

// NewClient creates a Client against endpoint with a bounded per-request
// timeout, so a hung quiz service cannot stall a request forever.
func NewClient(endpoint string, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
		log:        log.With().Str("component", "quizgen_client").Logger(),
	}
}

type generateRequest struct {
	Topic        string `json:"topic"`
	NumQuestions int    `json:"num_questions"`
}

type generateResponse struct {
	Questions []wireQuestion `json:"questions"`
}

type wireQuestion struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Generate requests numQuestions questions about topic.
func (c *Client) Generate(ctx context.Context, topic string, numQuestions int) ([]model.QuizQuestion, error) {
	body, err := json.Marshal(generateRequest{Topic: topic, NumQuestions: numQuestions})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("endpoint", c.endpoint).Msg("Quiz service unreachable")
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		c.log.Warn().Int("status", resp.StatusCode).Msg("Quiz service error status")
		return nil, fmt.Errorf("%w: %d", ErrBadStatus, resp.StatusCode)
	}

	var decoded generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		c.log.Warn().Err(err).Msg("Quiz service response undecodable")
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	if decoded.Questions == nil {
		return nil, fmt.Errorf("%w: missing questions field", ErrBadResponse)
	}

	questions := make([]model.QuizQuestion, len(decoded.Questions))
	for i, q := range decoded.Questions {
		questions[i] = model.QuizQuestion{
			Question: q.Question,
			Answer:   model.AnswerLetter(q.Answer),
		}
	}

	c.log.Info().
		Str("topic", topic).
		Int("requested", numQuestions).
		Int("received", len(questions)).
		Dur("elapsed", time.Since(start)).
		Msg("Quiz generated")
	return questions, nil
}
