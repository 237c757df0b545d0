package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/nfrund/insightboard/internal/domain"
	"github.com/nfrund/insightboard/internal/handlers"
	"github.com/nfrund/insightboard/internal/middleware"
	"github.com/nfrund/insightboard/internal/pubsub"
	"github.com/stretchr/testify/require"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

const testSessionSecret = "a-very-secret-key-for-testing-!"

func rid(table, id string) *surrealmodels.RecordID {
	r := surrealmodels.NewRecordID(table, id)
	return &r
}

func testUser() *domain.User {
	return &domain.User{ID: rid("user", "alice"), Email: "alice@example.com"}
}

// newEcho returns an Echo instance with sessions and validation configured like the server.
func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = handlers.NewValidator()
	e.Use(session.Middleware(sessions.NewCookieStore([]byte(testSessionSecret))))
	return e
}

// asUser stands in for the Auth middleware.
func asUser(u *domain.User) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(middleware.UserContextKey, u)
			return next(c)
		}
	}
}

func postForm(e *echo.Echo, path string, form url.Values, htmx bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	if htmx {
		req.Header.Set("HX-Request", "true")
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

// flashes decodes the flash session written to rec.
func flashes(t *testing.T, rec *httptest.ResponseRecorder, key string) []interface{} {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	sess, err := sessions.NewCookieStore([]byte(testSessionSecret)).Get(req, "flash-session")
	require.NoError(t, err)
	return sess.Flashes(key)
}

type fakeDashboardRepo struct {
	mu        sync.Mutex
	snapshot  *domain.DashboardSnapshot
	err       error
	companies []*domain.Company
	owners    []string
	locations []*domain.Location
	prompts   []*domain.Prompt
	confirms  []string
	response  *domain.PromptResponse

	// foreign lists record ids owned by someone else; writes touching them are not found.
	foreign map[string]bool

	// block, when set, holds ConfirmPrompt until closed; entered is signalled first.
	block   chan struct{}
	entered chan struct{}
}

func (f *fakeDashboardRepo) Snapshot(ctx context.Context, owner string) (*domain.DashboardSnapshot, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.snapshot == nil {
		return &domain.DashboardSnapshot{}, nil
	}
	return f.snapshot, nil
}

func (f *fakeDashboardRepo) AddCompany(ctx context.Context, owner string, company *domain.Company) (*domain.Company, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.owners = append(f.owners, owner)
	f.companies = append(f.companies, company)
	return company, nil
}

func (f *fakeDashboardRepo) AddLocation(ctx context.Context, owner string, location *domain.Location) (*domain.Location, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.foreign[location.Company] {
		return nil, domain.ErrNotFound
	}
	f.owners = append(f.owners, owner)
	f.locations = append(f.locations, location)
	return location, f.err
}

func (f *fakeDashboardRepo) AddPrompt(ctx context.Context, owner string, prompt *domain.Prompt) (*domain.Prompt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.foreign[prompt.Company] {
		return nil, domain.ErrNotFound
	}
	f.owners = append(f.owners, owner)
	f.prompts = append(f.prompts, prompt)
	return prompt, f.err
}

func (f *fakeDashboardRepo) ConfirmPrompt(ctx context.Context, owner, id string) (*domain.Prompt, error) {
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if f.foreign[id] {
		return nil, domain.ErrNotFound
	}
	f.owners = append(f.owners, owner)
	f.confirms = append(f.confirms, id)
	return &domain.Prompt{ID: rid("prompt", "p1"), Status: domain.PromptConfirmed}, nil
}

func (f *fakeDashboardRepo) GetResponse(ctx context.Context, id string) (*domain.PromptResponse, error) {
	if f.response == nil {
		return nil, domain.ErrNotFound
	}
	return f.response, nil
}

func (f *fakeDashboardRepo) confirmCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.confirms)
}

type fakePublisher struct {
	mu   sync.Mutex
	msgs []pubsub.Message
	err  error
}

func (p *fakePublisher) Publish(ctx context.Context, msg pubsub.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgs = append(p.msgs, msg)
	return p.err
}

func (p *fakePublisher) Close() error { return nil }

func (p *fakePublisher) messages() []pubsub.Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]pubsub.Message(nil), p.msgs...)
}

type fakeUserStore struct {
	token   string
	user    *domain.User
	signErr error
}

func (m *fakeUserStore) SignUp(ctx context.Context, user *domain.User, password string) (string, error) {
	return m.token, nil
}

func (m *fakeUserStore) SignIn(ctx context.Context, user *domain.User, password string) (string, error) {
	return m.token, m.signErr
}

func (m *fakeUserStore) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	return m.user, nil
}

func (m *fakeUserStore) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return m.user, nil
}
