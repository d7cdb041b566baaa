package inbound

import (
	"github.com/shandysiswandi/goverify/internal/pkg/router"
)

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	// Trailing slashes are part of the public paths.
	r.POST("/send-otp/", end.SendOTP)
	r.POST("/verify-otp/", end.VerifyOTP)
}
