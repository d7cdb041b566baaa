// Package verification wires the email OTP verification context: issuing
// passcodes to directory-authorized emails and verifying them one-shot.
package verification

import (
	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/goverify/internal/pkg/clock"
	"github.com/shandysiswandi/goverify/internal/pkg/config"
	"github.com/shandysiswandi/goverify/internal/pkg/instrument"
	"github.com/shandysiswandi/goverify/internal/pkg/mail"
	"github.com/shandysiswandi/goverify/internal/pkg/otp"
	"github.com/shandysiswandi/goverify/internal/pkg/router"
	"github.com/shandysiswandi/goverify/internal/pkg/validator"
	"github.com/shandysiswandi/goverify/internal/verification/inbound"
	"github.com/shandysiswandi/goverify/internal/verification/outbound/cache"
	"github.com/shandysiswandi/goverify/internal/verification/outbound/directory"
	"github.com/shandysiswandi/goverify/internal/verification/outbound/email"
	"github.com/shandysiswandi/goverify/internal/verification/usecase"
)

type Dependency struct {
	CacheConn  *redis.Client
	Directory  *directory.Client
	Config     config.Config
	Instrument instrument.Instrumentation
	Clock      clock.Clocker
	OTP        otp.OTP
	Validator  validator.Validator
	Router     *router.Router
	Mail       mail.Mail
}

func New(dep Dependency) error {
	repoCache := cache.NewCache(dep.CacheConn, dep.Instrument)
	repoMail := email.New(dep.Mail, dep.Instrument)

	uc := usecase.NewVerification(usecase.Dependency{
		RepoCache:     repoCache,
		RepoDirectory: dep.Directory,
		RepoMail:      repoMail,
		Config:        dep.Config,
		Clock:         dep.Clock,
		OTP:           dep.OTP,
		Validator:     dep.Validator,
		Instrument:    dep.Instrument,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}
