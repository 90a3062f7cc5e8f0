package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/basisdhar/mrmanager/internal/api/metrics"
	"github.com/basisdhar/mrmanager/internal/core/domain"
	"github.com/basisdhar/mrmanager/internal/core/ports"
)

// RequireProjectRole enforces a role allow-list for project-scoped routes.
// The allow-list is fixed at route registration; the membership itself is
// looked up on every request, so a role change or removal takes effect on the
// very next request.
//
// A missing membership and an unknown project both answer an opaque 404 so
// responses do not leak project existence; the log records which it was.
func RequireProjectRole(members ports.MemberRepository, log zerolog.Logger, allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			projectID := c.Param("projectId")
			if projectID == "" {
				return echo.NewHTTPError(http.StatusBadRequest, "project id is missing")
			}

			user, ok := c.Get(ContextUserKey).(*domain.User)
			if !ok || user == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
			}

			membership, err := members.Find(c.Request().Context(), projectID, user.ID)
			if err != nil {
				if err == domain.ErrMemberNotFound {
					log.Debug().
						Str("project_id", projectID).
						Str("user_id", user.ID).
						Str("reason", "membership_missing").
						Msg("project access denied")
					metrics.PermissionDenialsTotal.WithLabelValues("membership_missing").Inc()
					return echo.NewHTTPError(http.StatusNotFound, "project not found")
				}
				return err
			}

			c.Set(ContextProjectRoleKey, membership.Role)

			if _, ok := allowed[membership.Role]; !ok {
				log.Debug().
					Str("project_id", projectID).
					Str("user_id", user.ID).
					Str("role", membership.Role).
					Str("reason", "role_not_allowed").
					Msg("project access denied")
				metrics.PermissionDenialsTotal.WithLabelValues("role_not_allowed").Inc()
				return echo.NewHTTPError(http.StatusForbidden, "access forbidden")
			}

			return next(c)
		}
	}
}
