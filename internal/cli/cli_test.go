package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/nsda/portal/internal/authz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// portalStub is a minimal backend: two accounts, a task list, an
// announcement feed whose delete always fails and a resource shelf that
// refuses new entries.
type portalStub struct {
	mu    sync.Mutex
	paths []string
}

func (p *portalStub) seen(prefix string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, s := range p.paths {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}

func (p *portalStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.mu.Lock()
	p.paths = append(p.paths, r.Method+" "+r.URL.Path)
	p.mu.Unlock()

	reply := func(status int, body string) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
	auth := r.Header.Get("Authorization")

	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/auth/login":
		var req struct{ Email, Password string }
		_ = json.NewDecoder(r.Body).Decode(&req)
		switch {
		case req.Email == "ada@example.com" && req.Password == "secret1":
			reply(http.StatusOK, `{"user":{"id":"u1","name":"Ada","email":"ada@example.com","role":"student"},"accessToken":"tok-student"}`)
		case req.Email == "root@example.com" && req.Password == "secret1":
			reply(http.StatusOK, `{"data":{"user":{"id":"a1","name":"Root","role":"admin"},"accessToken":"tok-admin"}}`)
		default:
			reply(http.StatusUnauthorized, `{"message":"Invalid email or password"}`)
		}
	case auth == "":
		reply(http.StatusUnauthorized, `{"message":"Authorization header is required"}`)
	case r.Method == http.MethodGet && r.URL.Path == "/tasks/student/all":
		reply(http.StatusOK, `{"tasks":[{"id":"t1","title":"Go basics","deadline":"2026-11-01","status":"TO_DO","resources":[]}]}`)
	case r.Method == http.MethodGet && r.URL.Path == "/announcements":
		reply(http.StatusOK, `[{"id":"42","title":"Welcome","message":"Hello","category":"info"}]`)
	case r.Method == http.MethodDelete && r.URL.Path == "/announcements/42":
		reply(http.StatusInternalServerError, `{"message":"database unavailable"}`)
	case r.Method == http.MethodPost && r.URL.Path == "/announcements":
		reply(http.StatusCreated, `{"success":true,"data":{"id":"43","title":"Exam week","message":"Good luck","category":"urgent"}}`)
	case r.Method == http.MethodGet && r.URL.Path == "/resources":
		reply(http.StatusOK, `{"success":true,"data":[]}`)
	case r.Method == http.MethodPost && r.URL.Path == "/resources":
		reply(http.StatusServiceUnavailable, `{"message":"storage offline"}`)
	default:
		reply(http.StatusNotFound, `{"message":"not found"}`)
	}
}

func setupCLI(t *testing.T) *portalStub {
	t.Helper()
	stub := &portalStub{}
	srv := httptest.NewServer(stub)
	t.Cleanup(srv.Close)

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("PORTAL_STATE_DIR", t.TempDir())
	t.Setenv("PORTAL_API_URL", srv.URL)
	t.Setenv("PORTAL_SESSION_BACKEND", "file")
	t.Setenv("PORTAL_OUTPUT", "")
	t.Setenv("LOG_LEVEL", "error")
	return stub
}

func runCLI(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd, a := newRoot()
	defer a.close()

	var stdout, stderr bytes.Buffer
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestLoginStoresSession(t *testing.T) {
	setupCLI(t)

	out, _, err := runCLI(t, "secret1\n", "login", "--email", "ada@example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed in as Ada (student)")
	assert.Contains(t, out, "Landing page: /dashboard")

	out, _, err = runCLI(t, "", "whoami", "-o", "json")
	require.NoError(t, err)
	var who struct {
		User    map[string]any `json:"user"`
		Landing string         `json:"landing"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &who))
	assert.Equal(t, "u1", who.User["id"])
	assert.Equal(t, authz.PathDashboard, who.Landing)
}

func TestLoginPromptsForEmail(t *testing.T) {
	setupCLI(t)

	out, stderr, err := runCLI(t, "root@example.com\nsecret1\n", "login")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Email: ")
	assert.Contains(t, out, "Landing page: /admin")
}

func TestLoginFailureLeavesSessionEmpty(t *testing.T) {
	setupCLI(t)

	_, _, err := runCLI(t, "wrong-pass\n", "login", "--email", "ada@example.com")
	require.Error(t, err)
	assert.Equal(t, "Invalid email or password", err.Error())

	_, _, err = runCLI(t, "", "whoami")
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}

func TestLogoutClearsSession(t *testing.T) {
	setupCLI(t)

	_, _, err := runCLI(t, "secret1\n", "login", "--email", "ada@example.com")
	require.NoError(t, err)

	out, _, err := runCLI(t, "", "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed out.")

	_, _, err = runCLI(t, "", "whoami")
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}

func TestGuardedCommandWithoutSession(t *testing.T) {
	stub := setupCLI(t)

	_, _, err := runCLI(t, "", "dashboard", "tasks")
	assert.ErrorIs(t, err, ErrNotLoggedIn)
	assert.False(t, stub.seen("GET /tasks"), "no fetch before the gate admits the session")
}

func TestStudentDeniedOnAdminCommands(t *testing.T) {
	stub := setupCLI(t)

	_, _, err := runCLI(t, "secret1\n", "login", "--email", "ada@example.com")
	require.NoError(t, err)

	_, stderr, err := runCLI(t, "", "admin", "students", "list")
	require.ErrorIs(t, err, ErrAccessDenied)
	assert.Contains(t, err.Error(), "redirected to /")
	assert.Contains(t, stderr, authz.DenialMessage)
	assert.False(t, stub.seen("GET /students"))
}

func TestStudentTasksJSON(t *testing.T) {
	setupCLI(t)

	_, _, err := runCLI(t, "secret1\n", "login", "--email", "ada@example.com")
	require.NoError(t, err)

	out, _, err := runCLI(t, "", "dashboard", "tasks", "-o", "json")
	require.NoError(t, err)
	var tasks []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &tasks))
	require.Len(t, tasks, 1)
	assert.Equal(t, "Go basics", tasks[0]["title"])

	out, _, err = runCLI(t, "", "dashboard", "tasks")
	require.NoError(t, err)
	assert.Contains(t, out, "TITLE")
	assert.Contains(t, out, "TO_DO")
}

func TestAdminAnnouncementDeleteFailure(t *testing.T) {
	setupCLI(t)

	_, _, err := runCLI(t, "secret1\n", "login", "--email", "root@example.com")
	require.NoError(t, err)

	_, _, err = runCLI(t, "", "admin", "announcements", "delete", "42")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database unavailable")
	assert.Contains(t, err.Error(), "rolled_back")

	out, _, err := runCLI(t, "", "admin", "announcements", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Welcome")
}

func TestAdminCreateGoesThroughView(t *testing.T) {
	stub := setupCLI(t)

	_, _, err := runCLI(t, "secret1\n", "login", "--email", "root@example.com")
	require.NoError(t, err)

	out, _, err := runCLI(t, "", "admin", "announcements", "create", "--title", "Exam week", "--message", "Good luck", "--category", "urgent", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"id": "43"`)
	assert.True(t, stub.seen("GET /announcements"), "feed is mounted before the create")

	_, _, err = runCLI(t, "", "admin", "resources", "create", "--name", "Tour", "--link", "https://go.dev/tour", "--category", "Go")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage offline")
	assert.Contains(t, err.Error(), "(failed)")
}

func TestConfigProfiles(t *testing.T) {
	setupCLI(t)

	_, _, err := runCLI(t, "", "config", "set-profile", "staging", "--api-url", "https://staging.example.com/api", "--default-output", "json")
	require.NoError(t, err)

	_, _, err = runCLI(t, "", "config", "use", "staging")
	require.NoError(t, err)

	cfg, err := LoadUserConfig()
	require.NoError(t, err)
	assert.Equal(t, "staging", cfg.CurrentProfile)
	assert.Equal(t, Profile{Host: "https://staging.example.com/api", Output: "json"}, cfg.Profiles["staging"])

	// The profile's default output now applies.
	out, _, err := runCLI(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, `"version"`)

	_, _, err = runCLI(t, "", "config", "use", "missing")
	assert.EqualError(t, err, `profile "missing" not found`)

	_, _, err = runCLI(t, "", "config", "set-profile", "bad", "--default-output", "xml")
	assert.Error(t, err)
}

func TestInvalidOutputFlag(t *testing.T) {
	setupCLI(t)

	_, _, err := runCLI(t, "", "version", "-o", "yaml")
	assert.Error(t, err)
}

func TestParseResources(t *testing.T) {
	got, err := parseResources([]string{"Tour=https://go.dev/tour", "Effective Go=https://go.dev/doc/effective_go=Go"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Tour", got[0].Title)
	assert.Equal(t, "https://go.dev/tour", got[0].Link)
	assert.Equal(t, "Go", got[1].Category)

	_, err = parseResources([]string{"no-url"})
	assert.Error(t, err)
}

func TestOutputHelpers(t *testing.T) {
	assert.Equal(t, "-", orDash(""))
	assert.Equal(t, "x", orDash("x"))
	assert.Equal(t, "a b", truncate("a\n  b", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))

	var buf bytes.Buffer
	PrintTable(&buf, []string{"ID", "NAME"}, [][]string{{"1", "Ada"}})
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.Contains(t, lines[1], "Ada")

	buf.Reset()
	PrintDetail(&buf, map[string]string{"b": "2", "a": "1"})
	assert.Less(t, strings.Index(buf.String(), "a"), strings.Index(buf.String(), "b"))
}
