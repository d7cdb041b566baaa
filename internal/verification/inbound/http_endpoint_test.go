package inbound

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shandysiswandi/goverify/internal/pkg/config"
	"github.com/shandysiswandi/goverify/internal/pkg/goerror"
	"github.com/shandysiswandi/goverify/internal/pkg/instrument"
	"github.com/shandysiswandi/goverify/internal/pkg/router"
	"github.com/shandysiswandi/goverify/internal/pkg/uid"
	"github.com/shandysiswandi/goverify/internal/verification/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUC struct {
	sendOut   *usecase.OTPSendOutput
	sendErr   error
	verifyOut *usecase.OTPVerifyOutput
	verifyErr error
}

func (f *fakeUC) OTPSend(_ context.Context, _ usecase.OTPSendInput) (*usecase.OTPSendOutput, error) {
	return f.sendOut, f.sendErr
}

func (f *fakeUC) OTPVerify(_ context.Context, _ usecase.OTPVerifyInput) (*usecase.OTPVerifyOutput, error) {
	return f.verifyOut, f.verifyErr
}

func newTestServer(t *testing.T, uc uc) *httptest.Server {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte("{}"))
	require.NoError(t, err)

	r := router.NewRouter(router.Config{
		Config:     cfg,
		UUID:       uid.NewUUID(),
		Instrument: instrument.NewNoop(),
	})
	RegisterHTTPEndpoint(r, uc)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, payload any) (int, map[string]any) {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp.StatusCode, decoded
}

func TestSendOTPSuccess(t *testing.T) {
	srv := newTestServer(t, &fakeUC{
		sendOut: &usecase.OTPSendOutput{Email: "alice@example.com", Code: "123456"},
	})

	status, body := postJSON(t, srv.URL+"/send-otp/", SendOTPRequest{Email: "alice@example.com"})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, map[string]any{
		"message": "OTP sent successfully",
		"otp":     "123456",
	}, body)
}

func TestSendOTPUnauthorized(t *testing.T) {
	srv := newTestServer(t, &fakeUC{
		sendErr: goerror.NewBusiness("Invalid email", goerror.CodeInternal),
	})

	status, body := postJSON(t, srv.URL+"/send-otp/", SendOTPRequest{Email: "mallory@example.com"})
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, map[string]any{"detail": "Invalid email"}, body)
}

func TestSendOTPDeliveryFailure(t *testing.T) {
	srv := newTestServer(t, &fakeUC{
		sendErr: goerror.NewBusiness("Failed to send OTP", goerror.CodeInternal),
	})

	status, body := postJSON(t, srv.URL+"/send-otp/", SendOTPRequest{Email: "alice@example.com"})
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, map[string]any{"detail": "Failed to send OTP"}, body)
}

func TestVerifyOTPSuccess(t *testing.T) {
	srv := newTestServer(t, &fakeUC{
		verifyOut: &usecase.OTPVerifyOutput{Email: "alice@example.com"},
	})

	status, body := postJSON(t, srv.URL+"/verify-otp/", VerifyOTPRequest{Email: "alice@example.com", OTP: "123456"})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, map[string]any{
		"message": "Email verified successfully",
		"email":   "alice@example.com",
	}, body)
}

func TestVerifyOTPFailures(t *testing.T) {
	for _, detail := range []string{
		"No OTP found for this email",
		"OTP has expired",
		"Invalid OTP",
	} {
		t.Run(detail, func(t *testing.T) {
			srv := newTestServer(t, &fakeUC{
				verifyErr: goerror.NewBusiness(detail, goerror.CodeInvalidFormat),
			})

			status, body := postJSON(t, srv.URL+"/verify-otp/", VerifyOTPRequest{Email: "alice@example.com", OTP: "000000"})
			assert.Equal(t, http.StatusBadRequest, status)
			assert.Equal(t, map[string]any{"detail": detail}, body)
		})
	}
}

func TestSendOTPInvalidBody(t *testing.T) {
	srv := newTestServer(t, &fakeUC{})

	resp, err := http.Post(srv.URL+"/send-otp/", "application/json", bytes.NewReader([]byte("{not json")))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
