package dashboard

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clinicore/portal-api/internal/handler"
	"github.com/clinicore/portal-api/internal/middleware"
	"github.com/clinicore/portal-api/internal/model"
	"github.com/clinicore/portal-api/internal/service/appointment"
	"github.com/clinicore/portal-api/internal/service/view"
	apperrors "github.com/clinicore/portal-api/pkg/errors"
)

type Handler struct {
	appointments *appointment.Service
	auth         *middleware.AuthMiddleware
}

func NewHandler(appointments *appointment.Service, auth *middleware.AuthMiddleware) *Handler {
	return &Handler{appointments: appointments, auth: auth}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/me", h.Me)
	r.GET("/dashboard/stats", h.auth.RequireRole(model.RoleAdmin), h.Stats)
}

// Me returns the caller's identity together with the dashboard variant
// and navigation set selected for their role.
func (h *Handler) Me(c *gin.Context) {
	ident := middleware.IdentityFromContext(c)
	if ident == nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("authentication required"))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"identity":   ident,
		"view":       view.Select(ident.Role),
		"navigation": view.NavigationItems(ident.Role),
	}))
}

func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.appointments.Stats(c.Request.Context())
	if err != nil {
		c.Error(apperrors.Internal(err))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(stats))
}
