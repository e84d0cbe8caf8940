package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"clubhub/internal/auth"
	apperrors "clubhub/internal/errors"
	"clubhub/internal/middleware"
	"clubhub/internal/model"
	"clubhub/internal/repository"
	"clubhub/internal/service"
	"clubhub/internal/validation"
)

// MockAuthService is a mock implementation of service.AuthService.
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, in service.RegisterInput) (*service.AuthResult, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AuthResult), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, in service.LoginInput) (*service.AuthResult, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AuthResult), args.Error(1)
}

func (m *MockAuthService) WhoAmI(ctx context.Context, token string) (*model.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, id *auth.Identity) error {
	return m.Called(ctx, id).Error(0)
}

// MockEventService is a mock implementation of service.EventService.
type MockEventService struct {
	mock.Mock
	service.EventService
}

func (m *MockEventService) ListEvents(ctx context.Context, page repository.Page, filter repository.EventFilter) (*service.EventList, error) {
	args := m.Called(ctx, page, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.EventList), args.Error(1)
}

func (m *MockEventService) UpcomingEvents(ctx context.Context, limit int) ([]model.Event, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]model.Event), args.Error(1)
}

// MockMemberService is a mock implementation of service.MemberService.
type MockMemberService struct {
	mock.Mock
}

func (m *MockMemberService) ListMembers(ctx context.Context, clubID uint) ([]model.Member, error) {
	args := m.Called(ctx, clubID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Member), args.Error(1)
}

func (m *MockMemberService) AddMember(ctx context.Context, actor *auth.Identity, clubID uint, in service.AddMemberInput) (*model.Member, error) {
	args := m.Called(ctx, actor, clubID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Member), args.Error(1)
}

func (m *MockMemberService) RemoveMember(ctx context.Context, actor *auth.Identity, clubID, userID uint) error {
	return m.Called(ctx, actor, clubID, userID).Error(0)
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = validation.NewEchoValidator()
	return e
}

func serve(e *echo.Echo, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body apperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Code
}

func TestAuthHandler_Register(t *testing.T) {
	svc := new(MockAuthService)
	e := newEcho()
	e.POST("/auth/register", NewAuthHandler(svc).Register)

	expires := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
	in := service.RegisterInput{Name: "A", Email: "a@x.com", Password: "secret1"}
	svc.On("Register", mock.Anything, in).Return(&service.AuthResult{
		User:      &model.User{ID: 1, Name: "A", Email: "a@x.com", PasswordHash: "$2a$10$hash", Role: model.RoleUser},
		Token:     "tok",
		ExpiresAt: expires,
	}, nil).Once()
	svc.On("Register", mock.Anything, in).Return(nil, apperrors.ErrDuplicateEmail).Once()

	body := `{"name":"A","email":"a@x.com","password":"secret1"}`
	rec := serve(e, http.MethodPost, "/auth/register", body, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotContains(t, rec.Body.String(), "hash")

	var res AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "tok", res.Token)
	assert.Equal(t, AccountResponse{ID: 1, Name: "A", Email: "a@x.com", Role: model.RoleUser}, res.User)

	rec = serve(e, http.MethodPost, "/auth/register", body, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "DUPLICATE_EMAIL", errorCode(t, rec))
}

func TestAuthHandler_RegisterBadBody(t *testing.T) {
	e := newEcho()
	e.POST("/auth/register", NewAuthHandler(new(MockAuthService)).Register)

	rec := serve(e, http.MethodPost, "/auth/register", `{"name":`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, rec))
}

func TestAuthHandler_Login(t *testing.T) {
	svc := new(MockAuthService)
	e := newEcho()
	e.POST("/auth/login", NewAuthHandler(svc).Login)
	svc.On("Login", mock.Anything, mock.Anything).Return(nil, apperrors.ErrInvalidCredentials)

	rec := serve(e, http.MethodPost, "/auth/login", `{"email":"a@x.com","password":"wrong"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", errorCode(t, rec))
}

func TestAuthHandler_Me(t *testing.T) {
	svc := new(MockAuthService)
	e := newEcho()
	e.GET("/auth/me", NewAuthHandler(svc).Me)
	svc.On("WhoAmI", mock.Anything, "good").Return(&model.User{ID: 2, Name: "B", Email: "b@x.com", Role: model.RoleAdmin}, nil)
	svc.On("WhoAmI", mock.Anything, "old").Return(nil, apperrors.ErrTokenExpired)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantCode   string
	}{
		{"no header", "", http.StatusUnauthorized, "MISSING_CREDENTIALS"},
		{"bad scheme", "Token good", http.StatusUnauthorized, "MALFORMED_CREDENTIALS"},
		{"expired", "Bearer old", http.StatusUnauthorized, "TOKEN_EXPIRED"},
		{"ok", "Bearer good", http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := map[string]string{}
			if tt.header != "" {
				headers[echo.HeaderAuthorization] = tt.header
			}
			rec := serve(e, http.MethodGet, "/auth/me", "", headers)
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, errorCode(t, rec))
				return
			}
			var account AccountResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &account))
			assert.Equal(t, model.RoleAdmin, account.Role)
		})
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	svc := new(MockAuthService)
	id := &auth.Identity{UserID: 1, Role: model.RoleUser, TokenID: "jti"}
	svc.On("Logout", mock.Anything, id).Return(nil)

	e := newEcho()
	withIdentity := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(middleware.IdentityContextKey, id)
			return next(c)
		}
	}
	h := NewAuthHandler(svc)
	e.POST("/auth/logout", h.Logout, withIdentity)
	e.POST("/anon/logout", h.Logout)

	assert.Equal(t, http.StatusNoContent, serve(e, http.MethodPost, "/auth/logout", "", nil).Code)

	rec := serve(e, http.MethodPost, "/anon/logout", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHENTICATED", errorCode(t, rec))
}

func TestEventHandler_ListEvents(t *testing.T) {
	svc := new(MockEventService)
	e := newEcho()
	e.GET("/events", NewEventHandler(svc).ListEvents)

	from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.On("ListEvents", mock.Anything, repository.NewPage(2, 5), repository.EventFilter{
		Search: "quiz", ClubID: 3, StartDate: &from, EndDate: &to,
	}).Return(&service.EventList{Events: []model.EventWithClub{}, Total: 0}, nil)

	rec := serve(e, http.MethodGet, "/events?page=2&limit=5&search=quiz&club_id=3&start_date=2024-05-01&end_date=2024-06-01T12:00:00Z", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)

	for _, q := range []string{"club_id=x", "start_date=yesterday", "page=abc"} {
		rec := serve(e, http.MethodGet, "/events?"+q, "", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
		assert.Equal(t, "VALIDATION_ERROR", errorCode(t, rec), q)
	}
}

func TestEventHandler_UpcomingEvents(t *testing.T) {
	svc := new(MockEventService)
	e := newEcho()
	e.GET("/events/upcoming", NewEventHandler(svc).UpcomingEvents)
	svc.On("UpcomingEvents", mock.Anything, 0).Return([]model.Event{{ID: 1}}, nil)
	svc.On("UpcomingEvents", mock.Anything, 3).Return([]model.Event{}, nil)

	assert.Equal(t, http.StatusOK, serve(e, http.MethodGet, "/events/upcoming", "", nil).Code)
	assert.Equal(t, http.StatusOK, serve(e, http.MethodGet, "/events/upcoming?limit=3", "", nil).Code)
	assert.Equal(t, http.StatusBadRequest, serve(e, http.MethodGet, "/events/upcoming?limit=many", "", nil).Code)
}

func TestMemberHandler(t *testing.T) {
	svc := new(MockMemberService)
	actor := &auth.Identity{UserID: 2, Role: model.RoleUser}
	e := newEcho()
	withActor := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(middleware.IdentityContextKey, actor)
			return next(c)
		}
	}
	h := NewMemberHandler(svc)
	e.POST("/clubs/:clubId/members", h.AddMember, withActor)
	e.DELETE("/clubs/:clubId/members/:userId", h.RemoveMember, withActor)

	svc.On("AddMember", mock.Anything, actor, uint(5), service.AddMemberInput{UserID: 2}).
		Return(&model.Member{ClubID: 5, UserID: 2, Role: model.DefaultMemberRole}, nil)
	svc.On("AddMember", mock.Anything, actor, uint(5), service.AddMemberInput{UserID: 3}).
		Return(nil, apperrors.ErrForbidden)
	svc.On("RemoveMember", mock.Anything, actor, uint(5), uint(2)).Return(nil)

	assert.Equal(t, http.StatusCreated, serve(e, http.MethodPost, "/clubs/5/members", `{"user_id":2}`, nil).Code)

	rec := serve(e, http.MethodPost, "/clubs/5/members", `{"user_id":3}`, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "FORBIDDEN", errorCode(t, rec))

	assert.Equal(t, http.StatusNoContent, serve(e, http.MethodDelete, "/clubs/5/members/2", "", nil).Code)
	assert.Equal(t, http.StatusBadRequest, serve(e, http.MethodDelete, "/clubs/x/members/2", "", nil).Code)
}

func TestHealth(t *testing.T) {
	e := newEcho()
	e.GET("/health", Health)
	rec := serve(e, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
