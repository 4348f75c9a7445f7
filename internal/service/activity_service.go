package service

import (
	"sort"
	"sync"

	"github.com/edututor/edututor-backend/internal/model"
	"github.com/edututor/edututor-backend/internal/session"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// NoQuizzesNote marks students who appear in the roster without records.
const NoQuizzesNote = "No quizzes taken yet."

// subscriberBuffer bounds per-subscriber queueing; a slow educator client
// misses events rather than blocking a student's submission.
const subscriberBuffer = 16

// ActivityService assembles the educator activity view and fans submission
// events out to WebSocket subscribers. Subscriptions are scoped per session:
// educators only ever observe students of their own session's store.
type ActivityService struct {
	mu          sync.Mutex
	subscribers map[uuid.UUID]map[chan model.ActivityEvent]struct{}
	log         zerolog.Logger
}

// NewActivityService creates a new ActivityService.
func NewActivityService(log zerolog.Logger) *ActivityService {
	return &ActivityService{
		subscribers: make(map[uuid.UUID]map[chan model.ActivityEvent]struct{}),
		log:         log.With().Str("component", "activity_service").Logger(),
	}
}

// StudentActivity renders every known student with their records. Students
// without records are included with an explicit note instead of being
// skipped. Keys are sorted so the view is deterministic.
func (s *ActivityService) StudentActivity(sess *session.Session) []model.StudentActivity {
	records := sess.StudentRecords()

	ids := make([]string, 0, len(records))
	for id := range records {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]model.StudentActivity, 0, len(ids))
	for _, id := range ids {
		activity := model.StudentActivity{
			StudentID: id,
			Records:   records[id],
		}
		if len(activity.Records) == 0 {
			activity.Note = NoQuizzesNote
		}
		out = append(out, activity)
	}
	return out
}

// Subscribe registers a listener for submission events of one session.
// The returned channel is closed by Unsubscribe.
func (s *ActivityService) Subscribe(sessionID uuid.UUID) chan model.ActivityEvent {
	ch := make(chan model.ActivityEvent, subscriberBuffer)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.subscribers[sessionID] == nil {
		s.subscribers[sessionID] = make(map[chan model.ActivityEvent]struct{})
	}
	s.subscribers[sessionID][ch] = struct{}{}
	return ch
}

// Unsubscribe removes a listener and closes its channel.
func (s *ActivityService) Unsubscribe(sessionID uuid.UUID, ch chan model.ActivityEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	subs, ok := s.subscribers[sessionID]
	if !ok {
		return
	}
	if _, ok := subs[ch]; !ok {
		return
	}
	delete(subs, ch)
	if len(subs) == 0 {
		delete(s.subscribers, sessionID)
	}
	close(ch)
}

// Publish delivers an event to every subscriber of the session. Delivery is
// best effort: full subscriber queues are skipped.
func (s *ActivityService) Publish(sessionID uuid.UUID, event model.ActivityEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for ch := range s.subscribers[sessionID] {
		select {
		case ch <- event:
		default:
			s.log.Warn().
				Str("session_id", sessionID.String()).
				Str("student_id", event.StudentID).
				Msg("Activity subscriber queue full, event dropped")
		}
	}
}
