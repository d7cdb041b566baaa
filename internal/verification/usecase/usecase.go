package usecase

import (
	"context"
	"time"

	"github.com/shandysiswandi/goverify/internal/pkg/clock"
	"github.com/shandysiswandi/goverify/internal/pkg/config"
	"github.com/shandysiswandi/goverify/internal/pkg/instrument"
	"github.com/shandysiswandi/goverify/internal/pkg/mail"
	"github.com/shandysiswandi/goverify/internal/pkg/otp"
	"github.com/shandysiswandi/goverify/internal/pkg/validator"
	"github.com/shandysiswandi/goverify/internal/verification/entity"
	"go.opentelemetry.io/otel/trace"
)

const defaultTTL = 300 * time.Second

type repoCache interface {
	Put(ctx context.Context, otp entity.OTP, ttl time.Duration) error
	Get(ctx context.Context, email string) (*entity.OTP, error)
	Delete(ctx context.Context, email string) error
}

type repoDirectory interface {
	ListGroupEmails(ctx context.Context, groupID int64) ([]string, error)
}

type repoMail interface {
	Send(ctx context.Context, msg mail.Message) error
}

type Usecase struct {
	repoCache     repoCache
	repoDirectory repoDirectory
	repoMail      repoMail
	cfg           config.Config
	clock         clock.Clocker
	otp           otp.OTP
	validator     validator.Validator
	ins           instrument.Instrumentation
}

type Dependency struct {
	RepoCache     repoCache
	RepoDirectory repoDirectory
	RepoMail      repoMail
	Config        config.Config
	Clock         clock.Clocker
	OTP           otp.OTP
	Validator     validator.Validator
	Instrument    instrument.Instrumentation
}

func NewVerification(dep Dependency) *Usecase {
	return &Usecase{
		repoCache:     dep.RepoCache,
		repoDirectory: dep.RepoDirectory,
		repoMail:      dep.RepoMail,
		cfg:           dep.Config,
		clock:         dep.Clock,
		otp:           dep.OTP,
		validator:     dep.Validator,
		ins:           dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("verification.usecase").Start(ctx, name)
}

func (s *Usecase) otpTTL() time.Duration {
	ttl := s.cfg.GetSecond("modules.verification.otp_ttl_seconds")
	if ttl <= 0 {
		return defaultTTL
	}
	return ttl
}
