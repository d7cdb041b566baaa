package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/samber/lo"
	"github.com/shandysiswandi/goverify/internal/pkg/goerror"
	"github.com/shandysiswandi/goverify/internal/pkg/mail"
	"github.com/shandysiswandi/goverify/internal/verification/entity"
)

const defaultMailSubject = "Your OTP for Email Verification"

type OTPSendInput struct {
	Email string `validate:"required,email"`
}

type OTPSendOutput struct {
	Email string
	Code  string
}

// OTPSend issues a fresh passcode to email, replacing any pending one.
//
// The passcode is persisted before delivery is attempted, so a failed
// delivery leaves a valid record that the next issuance will overwrite.
func (s *Usecase) OTPSend(ctx context.Context, in OTPSendInput) (*OTPSendOutput, error) {
	ctx, span := s.startSpan(ctx, "OTPSend")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	groupID := s.cfg.GetInt64("directory.group_id")
	emails, err := s.repoDirectory.ListGroupEmails(ctx, groupID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list directory group emails", "group_id", groupID, "error", err)
		return nil, err
	}

	if !lo.Contains(emails, in.Email) {
		return nil, goerror.NewBusiness("Invalid email", goerror.CodeInternal)
	}

	ttl := s.otpTTL()
	record := entity.OTP{
		Email:    in.Email,
		Code:     s.otp.Generate(),
		IssuedAt: s.clock.Now(),
	}

	if err := s.repoCache.Put(ctx, record, ttl); err != nil {
		slog.ErrorContext(ctx, "failed to store otp", "error", err)
		return nil, goerror.NewServer(err)
	}

	subject := s.cfg.GetString("mail.subject")
	if subject == "" {
		subject = defaultMailSubject
	}

	msg := mail.Message{
		To:       []string{in.Email},
		Subject:  subject,
		TextBody: fmt.Sprintf("Your OTP is %s\nThis OTP is valid for %d minutes.", record.Code, int(ttl.Minutes())),
	}
	if err := s.repoMail.Send(ctx, msg); err != nil {
		// The stored record is kept so a re-issue simply overwrites it.
		slog.ErrorContext(ctx, "failed to send otp email", "error", err)
		return nil, goerror.NewBusiness("Failed to send OTP", goerror.CodeInternal)
	}

	return &OTPSendOutput{Email: in.Email, Code: record.Code}, nil
}
