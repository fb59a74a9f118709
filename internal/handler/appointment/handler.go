package appointment

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/clinicore/portal-api/internal/handler"
	"github.com/clinicore/portal-api/internal/middleware"
	"github.com/clinicore/portal-api/internal/model"
	"github.com/clinicore/portal-api/internal/repository"
	"github.com/clinicore/portal-api/internal/service/appointment"
	apperrors "github.com/clinicore/portal-api/pkg/errors"
)

type Handler struct {
	svc  *appointment.Service
	auth *middleware.AuthMiddleware
}

func NewHandler(svc *appointment.Service, auth *middleware.AuthMiddleware) *Handler {
	return &Handler{svc: svc, auth: auth}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	appointments := r.Group("/appointments")
	{
		appointments.GET("", h.ListAppointments)
		appointments.POST("", h.CreateAppointment)
		appointments.PATCH("/:id/status",
			h.auth.RequireRole(model.RoleAdmin, model.RoleDoctor), h.UpdateStatus)
	}
}

// ListAppointments returns the enriched appointment list scoped to the
// caller: admins see everything, doctors and patients only the rows
// their own record participates in.
func (h *Handler) ListAppointments(c *gin.Context) {
	ident := middleware.IdentityFromContext(c)
	if ident == nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("authentication required"))
		return
	}

	var (
		appointments []*model.EnrichedAppointment
		err          error
	)
	if ident.Role == model.RoleAdmin {
		appointments, err = h.svc.ListAppointments(c.Request.Context())
	} else {
		appointments, err = h.svc.AppointmentsForUser(c.Request.Context(), ident.ID, ident.Role)
	}
	if err != nil {
		c.Error(apperrors.Internal(err))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(appointments))
}

func (h *Handler) CreateAppointment(c *gin.Context) {
	var req model.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	apt, err := h.svc.CreateAppointment(c.Request.Context(), &req)
	if err != nil {
		c.Error(apperrors.BadRequest("invalid appointment", err))
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(apt))
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid appointment id"))
		return
	}

	var req model.UpdateAppointmentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	apt, err := h.svc.UpdateAppointmentStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.Error(apperrors.NotFound("appointment", err))
			return
		}
		c.Error(apperrors.Internal(err))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(apt))
}
