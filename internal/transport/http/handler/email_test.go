package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/email-verify-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mock ---

type mockVerificationSvc struct{ mock.Mock }

func (m *mockVerificationSvc) IssueAndSend(ctx context.Context, email, resendToken string) (string, error) {
	args := m.Called(ctx, email, resendToken)
	return args.String(0), args.Error(1)
}

func (m *mockVerificationSvc) VerifyForSignup(ctx context.Context, email, code string) (bool, error) {
	args := m.Called(ctx, email, code)
	return args.Bool(0), args.Error(1)
}

func (m *mockVerificationSvc) VerifyForReset(ctx context.Context, email, code string) (bool, error) {
	args := m.Called(ctx, email, code)
	return args.Bool(0), args.Error(1)
}

func (m *mockVerificationSvc) ConfirmCode(ctx context.Context, email, code string) (bool, error) {
	args := m.Called(ctx, email, code)
	return args.Bool(0), args.Error(1)
}

// --- helpers ---

func newHandler(svc *mockVerificationSvc) *EmailHandler {
	return NewEmailHandler(svc, CookieConfig{Domain: "qqqq.world", MaxAge: 30 * time.Minute})
}

func postJSON(t *testing.T, h http.HandlerFunc, body interface{}, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

// --- Send ---

func TestSend_SetsCounterCookie(t *testing.T) {
	svc := &mockVerificationSvc{}
	svc.On("IssueAndSend", mock.Anything, "user@example.com", "prev-token").Return("next-token", nil)

	rec := postJSON(t, newHandler(svc).Send, map[string]string{"email": "user@example.com"},
		&http.Cookie{Name: RequestCountCookie, Value: "prev-token"})

	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, RequestCountCookie, c.Name)
	assert.Equal(t, "next-token", c.Value)
	assert.Equal(t, "/", c.Path)
	assert.Equal(t, "qqqq.world", c.Domain)
	assert.Equal(t, 1800, c.MaxAge)
	assert.True(t, c.HttpOnly)
}

func TestSend_NoCookie_PassesEmptyToken(t *testing.T) {
	svc := &mockVerificationSvc{}
	svc.On("IssueAndSend", mock.Anything, "user@example.com", "").Return("t1", nil)

	rec := postJSON(t, newHandler(svc).Send, map[string]string{"email": "user@example.com"})
	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestSend_InvalidEmail_422(t *testing.T) {
	svc := &mockVerificationSvc{}
	rec := postJSON(t, newHandler(svc).Send, map[string]string{"email": "not-an-email"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	svc.AssertNotCalled(t, "IssueAndSend", mock.Anything, mock.Anything, mock.Anything)
}

func TestSend_BadJSON_400(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte("{")))
	rec := httptest.NewRecorder()
	newHandler(&mockVerificationSvc{}).Send(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSend_ErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("limit: %w", domain.ErrTooManyRequests), http.StatusTooManyRequests},
		{fmt.Errorf("encrypt: %w", domain.ErrInternal), http.StatusInternalServerError},
		{errors.New("smtp down"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		svc := &mockVerificationSvc{}
		svc.On("IssueAndSend", mock.Anything, mock.Anything, mock.Anything).Return("", tc.err)

		rec := postJSON(t, newHandler(svc).Send, map[string]string{"email": "user@example.com"})
		assert.Equal(t, tc.want, rec.Code, tc.err.Error())
		assert.Empty(t, rec.Result().Cookies())
		assert.NotContains(t, rec.Body.String(), "smtp down")
	}
}

// --- Verify / ResetVerify ---

func TestVerify_Success(t *testing.T) {
	svc := &mockVerificationSvc{}
	svc.On("VerifyForSignup", mock.Anything, "user@example.com", "123456").Return(true, nil)

	rec := postJSON(t, newHandler(svc).Verify, map[string]string{"email": "user@example.com", "code": "123456"})
	require.Equal(t, http.StatusOK, rec.Code)

	var env VerifyEnvelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	assert.True(t, env.Verified)
}

func TestVerify_WrongCode_ReportsFalse(t *testing.T) {
	svc := &mockVerificationSvc{}
	svc.On("VerifyForSignup", mock.Anything, mock.Anything, mock.Anything).Return(false, nil)

	rec := postJSON(t, newHandler(svc).Verify, map[string]string{"email": "user@example.com", "code": "000001"})
	require.Equal(t, http.StatusOK, rec.Code)

	var env VerifyEnvelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	assert.False(t, env.Verified)
}

func TestVerify_Duplicate_409(t *testing.T) {
	svc := &mockVerificationSvc{}
	svc.On("VerifyForSignup", mock.Anything, mock.Anything, mock.Anything).
		Return(false, fmt.Errorf("account: %w", domain.ErrDuplicateEmail))

	rec := postJSON(t, newHandler(svc).Verify, map[string]string{"email": "user@example.com", "code": "123456"})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestResetVerify_UnknownEmail_404(t *testing.T) {
	svc := &mockVerificationSvc{}
	svc.On("VerifyForReset", mock.Anything, mock.Anything, mock.Anything).
		Return(false, fmt.Errorf("account: %w", domain.ErrInvalidEmail))

	rec := postJSON(t, newHandler(svc).ResetVerify, map[string]string{"email": "user@example.com", "code": "123456"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestVerify_MalformedCode_422(t *testing.T) {
	svc := &mockVerificationSvc{}
	for _, code := range []string{"12345", "1234567", "12a456", ""} {
		rec := postJSON(t, newHandler(svc).Verify, map[string]string{"email": "user@example.com", "code": code})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, code)
	}
	svc.AssertNotCalled(t, "VerifyForSignup", mock.Anything, mock.Anything, mock.Anything)
}
