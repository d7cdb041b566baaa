package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/goverify/internal/pkg/goerror"
)

type OTPVerifyInput struct {
	Email string `validate:"required,email"`
	Code  string `validate:"required"`
}

type OTPVerifyOutput struct {
	Email string
}

// OTPVerify checks a submitted passcode against the pending record.
//
// Expiry is checked before the code comparison, so a correct code past the
// window still fails as expired. A mismatch keeps the record so the user may
// retry until the window closes; only a match or expiry consumes it.
func (s *Usecase) OTPVerify(ctx context.Context, in OTPVerifyInput) (*OTPVerifyOutput, error) {
	ctx, span := s.startSpan(ctx, "OTPVerify")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	record, err := s.repoCache.Get(ctx, in.Email)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, goerror.NewBusiness("No OTP found for this email", goerror.CodeInvalidFormat)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to get otp record", "error", err)
		return nil, goerror.NewServer(err)
	}

	if s.clock.Now().Sub(record.IssuedAt) >= s.otpTTL() {
		if err := s.repoCache.Delete(ctx, in.Email); err != nil {
			slog.ErrorContext(ctx, "failed to delete expired otp record", "error", err)
		}
		return nil, goerror.NewBusiness("OTP has expired", goerror.CodeInvalidFormat)
	}

	if in.Code != record.Code {
		return nil, goerror.NewBusiness("Invalid OTP", goerror.CodeInvalidFormat)
	}

	if err := s.repoCache.Delete(ctx, in.Email); err != nil {
		slog.ErrorContext(ctx, "failed to delete verified otp record", "error", err)
		return nil, goerror.NewServer(err)
	}

	return &OTPVerifyOutput{Email: in.Email}, nil
}
