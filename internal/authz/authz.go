// Package authz is the single place that decides whether a session may enter
// a guarded part of the portal.
package authz

import (
	"strings"

	"github.com/nsda/portal/internal/model"
	"github.com/rs/zerolog"
)

// Portal paths the gate redirects to.
const (
	PathLanding   = "/"
	PathLogin     = "/login"
	PathSignup    = "/signup"
	PathDashboard = "/dashboard"
	PathAdmin     = "/admin"
)

// DenialMessage is surfaced when an authenticated user lacks the required role.
const DenialMessage = "Access Denied: You do not have the required role."

// State is the outcome of one evaluation.
type State int

const (
	Unauthenticated State = iota
	WrongRole
	OK
)

func (s State) String() string {
	switch s {
	case Unauthenticated:
		return "UNAUTHENTICATED"
	case WrongRole:
		return "AUTHENTICATED_WRONG_ROLE"
	case OK:
		return "AUTHENTICATED_OK"
	default:
		return "UNKNOWN"
	}
}

// Decision is the verdict for one navigation. Redirect is empty when the
// protected subtree may be rendered.
type Decision struct {
	State    State
	Redirect string
	Denial   string
}

// Allowed reports whether the protected subtree may be rendered.
func (d Decision) Allowed() bool {
	return d.State == OK
}

// SessionSource supplies the current session. *session.Store satisfies it.
type SessionSource interface {
	Snapshot() model.Session
}

// DenialNotifier receives the denial signal for wrong-role navigations.
type DenialNotifier func(msg string)

// Gate evaluates guarded navigations. It holds no verdict between calls.
type Gate struct {
	source SessionSource
	notify DenialNotifier
	log    zerolog.Logger
}

// NewGate creates a gate reading sessions from source. notify may be nil.
func NewGate(source SessionSource, notify DenialNotifier, log zerolog.Logger) *Gate {
	return &Gate{
		source: source,
		notify: notify,
		log:    log.With().Str("component", "authz").Logger(),
	}
}

// Evaluate decides the state for s entering a subtree gated on required.
func Evaluate(s model.Session, required model.Role) Decision {
	if !s.Authenticated() {
		return Decision{State: Unauthenticated, Redirect: PathLogin}
	}
	if !s.Role().Satisfies(required) {
		return Decision{State: WrongRole, Redirect: PathLanding, Denial: DenialMessage}
	}
	return Decision{State: OK}
}

// Enter evaluates the current session against required and calls render only
// when access is granted. render's error is returned unchanged.
func (g *Gate) Enter(path string, required model.Role, render func() error) (Decision, error) {
	d := Evaluate(g.source.Snapshot(), required)

	switch d.State {
	case Unauthenticated:
		g.log.Debug().Str("path", path).Msg("Unauthenticated navigation, redirecting to login")
	case WrongRole:
		g.log.Warn().Str("path", path).Str("required", required.String()).Msg("Role denied")
		if g.notify != nil {
			g.notify(d.Denial)
		}
	case OK:
		if render != nil {
			return d, render()
		}
	}
	return d, nil
}

// EnterPath is Enter with the requirement taken from the route table.
func (g *Gate) EnterPath(path string, render func() error) (Decision, error) {
	required, guarded := RequiredRole(path)
	if !guarded {
		if render != nil {
			return Decision{State: OK}, render()
		}
		return Decision{State: OK}, nil
	}
	return g.Enter(path, required, render)
}

// LandingFor returns the post-login landing path for role.
func LandingFor(role model.Role) string {
	if role.IsAdmin() {
		return PathAdmin
	}
	return PathDashboard
}

// RequiredRole looks path up in the route table. guarded is false for public
// paths.
func RequiredRole(path string) (role model.Role, guarded bool) {
	switch {
	case underPrefix(path, PathDashboard):
		return model.RoleStudent, true
	case underPrefix(path, PathAdmin):
		return model.RoleAdmin, true
	default:
		return "", false
	}
}

func underPrefix(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}
