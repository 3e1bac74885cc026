package echoServer

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/letscodesatish/Hotel-reservation-system/app/echoServer/controller/auth"
	"github.com/letscodesatish/Hotel-reservation-system/app/echoServer/controller/booking"
	"github.com/letscodesatish/Hotel-reservation-system/app/echoServer/controller/hotel"
	"github.com/letscodesatish/Hotel-reservation-system/app/echoServer/jwtx"
)

type C struct {
	Auth      *auth.Controller
	Hotel     *hotel.Controller
	Booking   *booking.Controller
	JWTSecret string
}

func Register(e *echo.Echo, c C) {
	// Public
	pub := e.Group("/v1")
	pub.POST("/auth/register", c.Auth.Register)
	pub.POST("/auth/login", c.Auth.Login)

	pub.GET("/hotels", c.Hotel.List)
	pub.GET("/hotels/:id", c.Hotel.Detail)
	pub.GET("/hotels/:id/room-types", c.Hotel.RoomTypes)
	pub.GET("/room-types/:id/availability", c.Booking.Availability)

	// Auth
	authed := e.Group("/v1")
	authed.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey:    []byte(c.JWTSecret),
		NewClaimsFunc: func(c echo.Context) jwt.Claims { return jwt.MapClaims{} },
		TokenLookup:   "header:Authorization",
	}))
	// identity extraction: user_id and role from verified claims
	authed.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			uid, err := jwtx.UserIDFromContext(ctx)
			if err != nil {
				return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
			}
			role, err := jwtx.RoleFromContext(ctx)
			if err != nil {
				return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
			}
			ctx.Set("user_id", uid)
			ctx.Set("role", role)
			return next(ctx)
		}
	})

	// Bookings
	authed.POST("/bookings", c.Booking.Create)
	authed.GET("/bookings/my", c.Booking.MyBookings)
	authed.POST("/bookings/:id/cancel", c.Booking.Cancel)
	authed.GET("/bookings/export", c.Booking.Export)

	// Admin catalog management
	authed.POST("/hotels", c.Hotel.Create)
	authed.POST("/hotels/:id/room-types", c.Hotel.CreateRoomType)
	authed.PUT("/room-types/:id/inventory", c.Hotel.SetInventory)
	authed.GET("/room-types/:id/inventory", c.Hotel.Inventory)
}
