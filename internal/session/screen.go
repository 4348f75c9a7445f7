package session

import (
	"fmt"

	"github.com/edututor/edututor-backend/internal/model"
)

// Screen identifies the single page a client should render for a session.
// Clients hold no routing state of their own; they render whatever screen
// the session reports.
type Screen string

const (
	ScreenOnboarding    Screen = "onboarding"
	ScreenAuth          Screen = "auth"
	ScreenStudentPanel  Screen = "student_panel"
	ScreenEducatorPanel Screen = "educator_panel"
)

// screenFor is the single authoritative transition function. Guards are
// evaluated in fixed priority order; exactly one screen matches.
//
// Role is a validated enum set only by Login, so a logged-in session with
// any other role value is a programming error, not a renderable state.
func screenFor(started, loggedIn bool, role model.Role) Screen {
	if !started {
		return ScreenOnboarding
	}
	if !loggedIn {
		return ScreenAuth
	}
	switch role {
	case model.RoleStudent:
		return ScreenStudentPanel
	case model.RoleEducator:
		return ScreenEducatorPanel
	}
	panic(fmt.Sprintf("session: logged in with invalid role %q", role))
}
