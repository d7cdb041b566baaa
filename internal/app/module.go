package app

import (
	"log/slog"
	"os"

	"github.com/shandysiswandi/goverify/internal/verification"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.verification.enabled") {
		if err := verification.New(verification.Dependency{
			CacheConn:  a.cacheConn,
			Directory:  a.directory,
			Config:     a.config,
			Instrument: a.ins,
			Clock:      a.clock,
			OTP:        a.otp,
			Validator:  a.validator,
			Router:     a.router,
			Mail:       a.mail,
		}); err != nil {
			slog.Error("failed to init module verification", "error", err)
			os.Exit(1)
		}
	}
}
