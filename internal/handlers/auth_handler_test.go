package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"neofitness/internal/middleware"
	"neofitness/internal/services"
)

// stubAuthService lets each test pin the workflow outcome.
type stubAuthService struct {
	registerErr error
	loginToken  string
	loginErr    error
	forgotErr   error
	resetErr    error
	verifyErr   error
	resendErr   error
}

func (s *stubAuthService) Register(context.Context, string, string, string) error {
	return s.registerErr
}

func (s *stubAuthService) Login(context.Context, string, string) (string, error) {
	return s.loginToken, s.loginErr
}

func (s *stubAuthService) ForgotPassword(context.Context, string) error { return s.forgotErr }

func (s *stubAuthService) ResetPassword(context.Context, string, string, string) error {
	return s.resetErr
}

func (s *stubAuthService) VerifyEmail(context.Context, string, string) error { return s.verifyErr }

func (s *stubAuthService) ResendVerifyOTP(context.Context, string) error { return s.resendErr }

func newTestRouter(svc services.AuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewAuthHandler(svc)

	r.GET("/health", Health)
	auth := r.Group("/auth")
	auth.POST("/register", h.Register)
	auth.POST("/login", h.Login)
	auth.POST("/forgot", h.ForgotPassword)
	auth.POST("/reset", h.ResetPassword)
	auth.POST("/verify-email", h.VerifyEmail)
	auth.POST("/resend-verify-otp", h.ResendVerifyOTP)
	return r
}

func doJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	r := newTestRouter(&stubAuthService{})

	w := doJSON(r, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestRegister_Statuses(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"created", nil, http.StatusCreated},
		{"conflict", services.ErrIdentityTaken, http.StatusConflict},
		{"invalid", services.ErrInvalidInput, http.StatusBadRequest},
		{"notifier down", errNotifierDown, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRouter(&stubAuthService{registerErr: tc.err})
			w := doJSON(r, http.MethodPost, "/auth/register",
				`{"username":"alice","email":"a@x.com","password":"pw123"}`)
			assert.Equal(t, tc.want, w.Code)
		})
	}
}

func TestRegister_BindingRejectsBadEmail(t *testing.T) {
	r := newTestRouter(&stubAuthService{})

	w := doJSON(r, http.MethodPost, "/auth/register",
		`{"username":"alice","email":"not-an-email","password":"pw123"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegister_BindingRejectsMissingFields(t *testing.T) {
	r := newTestRouter(&stubAuthService{})

	w := doJSON(r, http.MethodPost, "/auth/register", `{"username":"alice"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogin_ReturnsBearerToken(t *testing.T) {
	r := newTestRouter(&stubAuthService{loginToken: "tok123"})

	w := doJSON(r, http.MethodPost, "/auth/login", `{"identity":"alice","password":"pw123"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "tok123", resp.AccessToken)
	assert.Equal(t, "Bearer", resp.TokenType)
}

func TestLogin_Statuses(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"not found", services.ErrAccountNotFound, http.StatusNotFound},
		{"blocked", services.ErrAccountBlocked, http.StatusForbidden},
		{"wrong password", services.ErrWrongPassword, http.StatusUnauthorized},
		{"unverified", services.ErrEmailNotVerified, http.StatusNotAcceptable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRouter(&stubAuthService{loginErr: tc.err})
			w := doJSON(r, http.MethodPost, "/auth/login", `{"identity":"alice","password":"pw"}`)
			assert.Equal(t, tc.want, w.Code)
		})
	}
}

func TestForgot_GenericMessage(t *testing.T) {
	r := newTestRouter(&stubAuthService{})

	w := doJSON(r, http.MethodPost, "/auth/forgot", `{"identity":"ghost"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "If the account exists")
}

func TestReset_Statuses(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"ok", nil, http.StatusOK},
		{"bad code", services.ErrCodeInvalid, http.StatusBadRequest},
		{"not found", services.ErrAccountNotFound, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRouter(&stubAuthService{resetErr: tc.err})
			w := doJSON(r, http.MethodPost, "/auth/reset",
				`{"identity":"alice","otp":"123456","new_password":"pw2"}`)
			assert.Equal(t, tc.want, w.Code)
		})
	}
}

func TestVerifyEmail_OK(t *testing.T) {
	r := newTestRouter(&stubAuthService{})

	w := doJSON(r, http.MethodPost, "/auth/verify-email", `{"identity":"alice","otp":"123456"}`)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestResendVerifyOTP_GenericMessage(t *testing.T) {
	r := newTestRouter(&stubAuthService{})

	w := doJSON(r, http.MethodPost, "/auth/resend-verify-otp", `{"identity":"ghost"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "If the account exists")
}

func TestMe_RequiresAndReadsBearerToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tokens := services.NewTokenService("test-secret", time.Hour)

	r := gin.New()
	h := NewAuthHandler(&stubAuthService{})
	r.GET("/auth/me", middleware.AuthMiddleware(tokens), h.Me)

	w := doJSON(r, http.MethodGet, "/auth/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, err := tokens.Issue(7, "alice")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"account_id":"7"`)
	assert.Contains(t, rec.Body.String(), `"username":"alice"`)
}

var errNotifierDown = errors.New("send otp email: smtp down")
