package controllers

import (
	"encoding/json"
	"fmt"

	"github.com/gin-gonic/gin"

	"coworkly/dto"
	"coworkly/errors"
	"coworkly/response"
	"coworkly/services"
	"coworkly/services/logger"
	"coworkly/services/notification"
)

// ReservationControllerOptions carries the injected services.
type ReservationControllerOptions struct {
	Reservations *services.ReservationService
	Lifecycle    *services.LifecycleService
	Listing      *services.ListingService
	Notifier     notification.Service
	Logger       logger.Logger
}

// ReservationController maps HTTP requests onto the reservation services
// and their outcomes onto the response envelope.
type ReservationController struct {
	reservations *services.ReservationService
	lifecycle    *services.LifecycleService
	listing      *services.ListingService
	notifier     notification.Service
	logger       logger.Logger
}

func NewReservationController(opts ReservationControllerOptions) *ReservationController {
	if opts.Logger == nil {
		opts.Logger = logger.NewDefaultLogger(logger.InfoLevel)
	}
	return &ReservationController{
		reservations: opts.Reservations,
		lifecycle:    opts.Lifecycle,
		listing:      opts.Listing,
		notifier:     opts.Notifier,
		logger:       opts.Logger,
	}
}

// respondError translates a classified service error into the matching
// HTTP outcome. Anything unclassified is a server error; the detail stays
// in the logs.
func (ctrl *ReservationController) respondError(c *gin.Context, err error) {
	switch {
	case errors.IsValidation(err):
		response.ValidationError(c, errors.GetAppError(err).Message)
	case errors.IsNotFound(err):
		response.NotFound(c, errors.GetAppError(err).Message)
	case errors.IsConflict(err):
		response.Conflict(c, errors.GetAppError(err).Message)
	case errors.IsForbidden(err):
		response.Forbidden(c)
	case errors.IsUnauthorized(err):
		response.Unauthorized(c)
	default:
		ctrl.logger.Error("request failed: %v", err)
		response.ServerError(c)
	}
}

func (ctrl *ReservationController) notify(action, spaceID, detail string) {
	if ctrl.notifier == nil {
		return
	}
	message := notification.NewMessageBuilder(action, spaceID, detail).Build()
	if err := ctrl.notifier.SendMessage(message); err != nil {
		ctrl.logger.Error("failed to broadcast %s notification: %v", action, err)
	}
}

// CreateReservation books one or more hour slots.
// POST /api/v1/reservations
func (ctrl *ReservationController) CreateReservation(c *gin.Context) {
	var req dto.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "Invalid JSON in request body")
		return
	}

	result, err := ctrl.reservations.Reserve(c.Request.Context(), &req)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}

	ctrl.notify("created", req.SpaceID, fmt.Sprintf("%s hours %v", req.Date, req.Hours))
	ctrl.listing.InvalidateHosterCache(c.Request.Context(), req.SpaceID)
	response.Success(c, result)
}

// CheckAvailability reports which requested hours are taken.
// GET /api/v1/reservations/availability?spaceId=S1&date=2024-06-01&hours=[9,10]
func (ctrl *ReservationController) CheckAvailability(c *gin.Context) {
	spaceID := c.Query("spaceId")
	date := c.Query("date")

	// hours arrives as a JSON array string, e.g. "[9,10,11]"
	var hours []int
	if raw := c.Query("hours"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &hours); err != nil {
			response.ValidationError(c, "hours must be a JSON array of integers")
			return
		}
	}

	result, err := ctrl.reservations.CheckAvailability(c.Request.Context(), spaceID, date, hours)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	response.Success(c, result)
}

// CancelReservation releases a slot owned by the authenticated user.
// DELETE /api/v1/reservations
func (ctrl *ReservationController) CancelReservation(c *gin.Context) {
	userID := c.GetString("userID")

	var req dto.CancelReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "Invalid JSON in request body")
		return
	}

	result, err := ctrl.reservations.Cancel(c.Request.Context(), &req, userID)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}

	ctrl.notify("canceled", req.SpaceID, req.SlotTimestamp)
	ctrl.listing.InvalidateHosterCache(c.Request.Context(), req.SpaceID)
	response.Success(c, result)
}

// UpdateReservationStatus applies the authenticated hoster's decision.
// PUT /api/v1/reservationStatus
func (ctrl *ReservationController) UpdateReservationStatus(c *gin.Context) {
	hosterID := c.GetString("userID")

	var req dto.UpdateReservationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "Invalid JSON in request body")
		return
	}

	updated, err := ctrl.lifecycle.UpdateStatus(c.Request.Context(), &req, hosterID)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}

	ctrl.notify("updated", req.SpaceID, fmt.Sprintf("%s is now %s", req.SlotTimestamp, updated.Status))
	ctrl.listing.InvalidateHosterCache(c.Request.Context(), req.SpaceID)
	response.Success(c, updated)
}

// GetReservationsByUser lists the authenticated guest's reservations.
// GET /api/v1/reservations/user
func (ctrl *ReservationController) GetReservationsByUser(c *gin.Context) {
	userID := c.GetString("userID")

	reservations, err := ctrl.listing.ListByUser(c.Request.Context(), userID)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	response.SuccessWithTotal(c, reservations, len(reservations))
}

// GetReservationsByHoster lists reservations across the authenticated
// hoster's spaces, optionally filtered by ?status=.
// GET /api/v1/reservations
func (ctrl *ReservationController) GetReservationsByHoster(c *gin.Context) {
	hosterID := c.GetString("userID")
	status := c.Query("status")

	items, err := ctrl.listing.ListByHoster(c.Request.Context(), hosterID, status)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}
	response.SuccessWithTotal(c, items, len(items))
}
