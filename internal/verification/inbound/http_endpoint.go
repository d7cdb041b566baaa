package inbound

import (
	"github.com/shandysiswandi/goverify/internal/pkg/router"
	"github.com/shandysiswandi/goverify/internal/verification/usecase"
)

type HTTPEndpoint struct {
	uc uc
}

// SendOTP issues a passcode to an authorized email address.
// @Summary Send OTP
// @Description Issues a fresh one-time passcode to the given email if it belongs to the authorized directory group.
// @Tags Verification
// @Accept json
// @Produce json
// @Param request body SendOTPRequest true "Target email"
// @Success 200 {object} SendOTPResponse "OTP sent"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Unauthorized email or delivery failure"
// @Router /send-otp/ [post]
func (h *HTTPEndpoint) SendOTP(r *router.Request) (any, error) {
	var req SendOTPRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	out, err := h.uc.OTPSend(r.Context(), usecase.OTPSendInput{Email: req.Email})
	if err != nil {
		return nil, err
	}

	return SendOTPResponse{
		Message: "OTP sent successfully",
		OTP:     out.Code,
	}, nil
}

// VerifyOTP checks a submitted passcode and consumes it on success.
// @Summary Verify OTP
// @Description Verifies the submitted passcode for the given email. The stored passcode is consumed on success or expiry, and kept on mismatch.
// @Tags Verification
// @Accept json
// @Produce json
// @Param request body VerifyOTPRequest true "Email and passcode"
// @Success 200 {object} VerifyOTPResponse "Email verified"
// @Failure 400 {object} router.errorResponse "Missing, expired or wrong passcode"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /verify-otp/ [post]
func (h *HTTPEndpoint) VerifyOTP(r *router.Request) (any, error) {
	var req VerifyOTPRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	out, err := h.uc.OTPVerify(r.Context(), usecase.OTPVerifyInput{
		Email: req.Email,
		Code:  req.OTP,
	})
	if err != nil {
		return nil, err
	}

	return VerifyOTPResponse{
		Message: "Email verified successfully",
		Email:   out.Email,
	}, nil
}
