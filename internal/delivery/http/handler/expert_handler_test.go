package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"expertise-marketplace/internal/delivery/http/middleware"
	"expertise-marketplace/internal/domain/expert"
	"expertise-marketplace/internal/domain/matching"
	"expertise-marketplace/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDirectory struct {
	experts    []expert.Expert
	err        error
	created    expert.Expert
	nomination expert.Nomination
	match      usecase.MatchParams
}

func (s *stubDirectory) ListExperts(context.Context) ([]expert.Expert, error) {
	return s.experts, s.err
}

func (s *stubDirectory) GetExpert(_ context.Context, id string) (expert.Expert, error) {
	if s.err != nil {
		return expert.Expert{}, s.err
	}
	for _, e := range s.experts {
		if e.ID == id {
			return e, nil
		}
	}
	return expert.Expert{}, usecase.ErrNotFound
}

func (s *stubDirectory) CreateExpert(_ context.Context, in usecase.CreateExpertInput) (expert.Expert, error) {
	if s.err != nil {
		return expert.Expert{}, s.err
	}
	s.created = expert.Expert{ID: "expert-1", Name: in.Name, Email: in.Email}
	return s.created, nil
}

func (s *stubDirectory) SearchExperts(_ context.Context, q string) ([]expert.Expert, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.experts, nil
}

func (s *stubDirectory) MatchExperts(_ context.Context, p usecase.MatchParams) (usecase.MatchResult, error) {
	s.match = p
	if s.err != nil {
		return usecase.MatchResult{}, s.err
	}
	sel := matching.NewSelection(p.Query, p.Category, p.Keywords)
	return usecase.MatchResult{Selection: sel, Matches: sel.Apply(s.experts)}, nil
}

func (s *stubDirectory) ListCategories() []matching.Category {
	return matching.Categories()
}

func (s *stubDirectory) SubmitNomination(_ context.Context, in usecase.SubmitNominationInput) (expert.Nomination, error) {
	if s.err != nil {
		return expert.Nomination{}, s.err
	}
	s.nomination = expert.Nomination{ID: "nom-1", Experts: in.Experts}
	return s.nomination, nil
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

type stubCache struct {
	stubPinger
	enabled bool
}

func (c stubCache) Enabled() bool { return c.enabled }

func newTestApp(uc usecase.DirectoryUsecase, store Pinger) *fiber.App {
	return newTestAppWithCache(uc, store, nil)
}

func newTestAppWithCache(uc usecase.DirectoryUsecase, store Pinger, cache CacheStatus) *fiber.App {
	app := fiber.New()
	app.Use(middleware.NewErrorMiddleware(log.New(io.Discard, "", 0)).Middleware())
	NewHealthHandler(store, cache).RegisterRoutes(app)
	NewExpertHandler(uc).RegisterRoutes(app)
	NewNominationHandler(uc).RegisterRoutes(app)
	NewCategoryHandler(uc).RegisterRoutes(app)
	return app
}

func do(t *testing.T, app *fiber.App, method, target, body string) (int, map[string]any) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return resp.StatusCode, out
}

func TestExpertHandler_Create(t *testing.T) {
	uc := &stubDirectory{}
	app := newTestApp(uc, nil)

	status, body := do(t, app, http.MethodPost, "/experts",
		`{"name":"A","email":"a@x.com","title":"T","department":"D","affiliate":"Aff","skills":["X"]}`)

	assert.Equal(t, http.StatusCreated, status)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "expert-1", body["expertId"])
	assert.Equal(t, "Successfully added A to the expert directory", body["message"])
}

func TestExpertHandler_CreateInvalidBody(t *testing.T) {
	app := newTestApp(&stubDirectory{}, nil)

	status, body := do(t, app, http.MethodPost, "/experts", `{"name":`)

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid request body", body["error"])
}

func TestExpertHandler_CreateWithoutContentType(t *testing.T) {
	uc := &stubDirectory{}
	app := newTestApp(uc, nil)

	req := httptest.NewRequest(http.MethodPost, "/experts",
		strings.NewReader(`{"name":"A","email":"a@x.com","title":"T","department":"D","affiliate":"Aff","skills":["X"]}`))
	req.Header.Del("Content-Type")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "a@x.com", uc.created.Email)
}

func TestNominationHandler_SubmitWithoutContentType(t *testing.T) {
	uc := &stubDirectory{}
	app := newTestApp(uc, nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/nominations",
		strings.NewReader(`{"experts":[{"id":"expert-1","name":"A"}]}`)))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Len(t, uc.nomination.Experts, 1)
}

func TestExpertHandler_CreateWithoutContentTypeRejectsMalformed(t *testing.T) {
	app := newTestApp(&stubDirectory{}, nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/experts", strings.NewReader(`{"name":`)))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestExpertHandler_ErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		method string
		target string
		body   string
		status int
		msg    string
	}{
		{
			name:   "validation",
			err:    &usecase.ValidationError{Message: "At least one skill is required"},
			method: http.MethodPost,
			target: "/experts",
			body:   `{"name":"A"}`,
			status: http.StatusBadRequest,
			msg:    "At least one skill is required",
		},
		{
			name:   "conflict",
			err:    usecase.ErrConflict,
			method: http.MethodPost,
			target: "/experts",
			body:   `{"name":"A"}`,
			status: http.StatusConflict,
			msg:    "An expert with this email already exists",
		},
		{
			name:   "store on create",
			err:    fmt.Errorf("%w: insert: boom", usecase.ErrStore),
			method: http.MethodPost,
			target: "/experts",
			body:   `{"name":"A"}`,
			status: http.StatusInternalServerError,
			msg:    "Failed to add expert",
		},
		{
			name:   "store on list",
			err:    fmt.Errorf("%w: list: boom", usecase.ErrStore),
			method: http.MethodGet,
			target: "/experts",
			status: http.StatusInternalServerError,
			msg:    "Failed to fetch experts",
		},
		{
			name:   "store on search",
			err:    errors.New("boom"),
			method: http.MethodGet,
			target: "/experts/search?q=x",
			status: http.StatusInternalServerError,
			msg:    "Failed to search experts",
		},
		{
			name:   "not found",
			err:    usecase.ErrNotFound,
			method: http.MethodGet,
			target: "/experts/expert-missing",
			status: http.StatusNotFound,
			msg:    "Expert not found",
		},
		{
			name:   "nomination store",
			err:    errors.New("boom"),
			method: http.MethodPost,
			target: "/nominations",
			body:   `{"experts":[{"id":"expert-1"}]}`,
			status: http.StatusInternalServerError,
			msg:    "Failed to submit nominations",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := newTestApp(&stubDirectory{err: tc.err}, nil)
			status, body := do(t, app, tc.method, tc.target, tc.body)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.msg, body["error"])
			assert.Len(t, body, 1)
		})
	}
}

func TestExpertHandler_SearchEchoesQuery(t *testing.T) {
	uc := &stubDirectory{experts: []expert.Expert{{ID: "expert-1", Name: "Ann"}}}
	app := newTestApp(uc, nil)

	status, body := do(t, app, http.MethodGet, "/experts/search?q=ann", "")

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ann", body["query"])
	assert.Len(t, body["experts"], 1)
}

func TestExpertHandler_MatchSplitsKeywords(t *testing.T) {
	uc := &stubDirectory{}
	app := newTestApp(uc, nil)

	status, _ := do(t, app, http.MethodGet, "/experts/match?category=housing&keywords=housing,%20hud,,", "")

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "housing", uc.match.Category)
	assert.Equal(t, []string{"housing", "hud"}, uc.match.Keywords)
}

func TestNominationHandler_Submit(t *testing.T) {
	uc := &stubDirectory{}
	app := newTestApp(uc, nil)

	status, body := do(t, app, http.MethodPost, "/nominations",
		`{"experts":[{"id":"expert-1","name":"A"},{"id":"expert-2","name":"B"}],"submittedBy":"me"}`)

	assert.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "nom-1", body["nominationId"])
	assert.Equal(t, "Successfully submitted 2 nomination(s)", body["message"])
}

func TestHealthHandler(t *testing.T) {
	status, body := do(t, newTestApp(&stubDirectory{}, stubPinger{}), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])

	status, body = do(t, newTestApp(&stubDirectory{}, stubPinger{err: errors.New("down")}), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "unavailable", body["status"])
}

func TestHealthHandler_ReportsCacheWithoutFailing(t *testing.T) {
	cases := []struct {
		name  string
		cache CacheStatus
		want  any
	}{
		{name: "not wired", cache: nil, want: nil},
		{name: "disabled", cache: stubCache{}, want: "disabled"},
		{name: "reachable", cache: stubCache{enabled: true}, want: "ok"},
		{name: "unreachable", cache: stubCache{enabled: true, stubPinger: stubPinger{err: errors.New("down")}}, want: "unavailable"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := newTestAppWithCache(&stubDirectory{}, stubPinger{}, tc.cache)
			status, body := do(t, app, http.MethodGet, "/health", "")
			assert.Equal(t, http.StatusOK, status)
			assert.Equal(t, "ok", body["status"])
			assert.Equal(t, tc.want, body["cache"])
		})
	}
}

func TestCategoryHandler_List(t *testing.T) {
	status, body := do(t, newTestApp(&stubDirectory{}, nil), http.MethodGet, "/categories", "")

	assert.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, body["categories"])
}
