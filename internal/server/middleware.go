package server

import (
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/SarangTandel5112/care-connects/internal/clinicctx"
	"github.com/SarangTandel5112/care-connects/internal/observability/obscontext"
)

const HeaderClinic = "X-Clinic-ID"

// ClinicContext resolves the tenant for the request. The clinic comes from
// the X-Clinic-ID header; single-clinic deployments fall back to
// DEFAULT_CLINIC from the environment.
func (s *Server) ClinicContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		clinicID := snowflake.ID(s.cfg.DefaultClinicID)

		if raw := strings.TrimSpace(c.GetHeader(HeaderClinic)); raw != "" {
			parsed, err := snowflake.ParseString(raw)
			if err != nil || parsed == 0 {
				AbortWithError(c, newValidationError("clinic", "invalid_clinic", "invalid clinic header"))
				return
			}
			clinicID = parsed
		}

		if clinicID == 0 {
			AbortWithError(c, newValidationError("clinic", "invalid_clinic", "clinic is required"))
			return
		}

		ctx := clinicctx.WithClinicID(c.Request.Context(), int64(clinicID))
		ctx = obscontext.WithClinicID(ctx, clinicID.String())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
