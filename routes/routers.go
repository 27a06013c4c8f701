package routes

import (
	"github.com/gin-gonic/gin"

	"coworkly/controllers"
	middlewares "coworkly/middleware"
)

// SetupRoutes registers the reservation API under /api/v1. Availability is
// the only endpoint open without a token: the app checks slots before the
// guest signs in.
func SetupRoutes(router *gin.Engine, reservationController *controllers.ReservationController) {
	router.Use(middlewares.SessionMiddleware())

	v1 := router.Group("/api/v1")

	v1.GET("/reservations/availability", reservationController.CheckAvailability)

	v1.POST("/reservations", middlewares.AuthMiddleware(), reservationController.CreateReservation)
	v1.DELETE("/reservations", middlewares.AuthMiddleware(), reservationController.CancelReservation)
	v1.PUT("/reservationStatus", middlewares.AuthMiddleware(), reservationController.UpdateReservationStatus)
	v1.GET("/reservations", middlewares.AuthMiddleware(), reservationController.GetReservationsByHoster)
	v1.GET("/reservations/user", middlewares.AuthMiddleware(), reservationController.GetReservationsByUser)
}
