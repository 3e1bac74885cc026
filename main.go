// Package main hotel reservation API.
//
// @title           Hotel Reservation API
// @version         1.0
// @description     hotel catalog, per-day inventory, availability and bookings.
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description  Use:  Bearer <JWT>
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/letscodesatish/Hotel-reservation-system/app/echoServer"
	authctrl "github.com/letscodesatish/Hotel-reservation-system/app/echoServer/controller/auth"
	bookingctrl "github.com/letscodesatish/Hotel-reservation-system/app/echoServer/controller/booking"
	hotelctrl "github.com/letscodesatish/Hotel-reservation-system/app/echoServer/controller/hotel"
	"github.com/letscodesatish/Hotel-reservation-system/app/echoServer/validation"
	"github.com/letscodesatish/Hotel-reservation-system/config"
	bookingrepo "github.com/letscodesatish/Hotel-reservation-system/repository/booking"
	hotelrepo "github.com/letscodesatish/Hotel-reservation-system/repository/hotel"
	userrepo "github.com/letscodesatish/Hotel-reservation-system/repository/user"
	authsvc "github.com/letscodesatish/Hotel-reservation-system/service/auth"
	bookingsvc "github.com/letscodesatish/Hotel-reservation-system/service/booking"
	hotelsvc "github.com/letscodesatish/Hotel-reservation-system/service/hotel"
	"github.com/letscodesatish/Hotel-reservation-system/util/database"
)

func main() {

	cfg := config.Load()
	ctx := context.Background()

	// logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	// repos
	ur := userrepo.New(db)
	hr := hotelrepo.New(db)
	br := bookingrepo.New(db)

	// services
	as := authsvc.New(ur, cfg.JWTSecret)
	hs := hotelsvc.New(hr)
	bs := bookingsvc.New(db, br)

	// controllers
	v := validator.New()
	authC := &authctrl.Controller{Svc: as, V: v, Log: log}
	hotelC := &hotelctrl.Controller{Svc: hs, V: v, Log: log}
	bookingC := &bookingctrl.Controller{Svc: bs, V: v, Log: log}

	// echo
	e := echo.New()
	echoServer.RegisterMiddlewares(e)
	e.Validator = validation.New()

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]any{
			"status":  "ok",
			"message": "Service is healthy and connected",
		})
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	echoServer.Register(e, echoServer.C{
		Auth:    authC,
		Hotel:   hotelC,
		Booking: bookingC,

		JWTSecret: cfg.JWTSecret,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}
	if port == "" {
		port = "8080"
	}

	slog.Info("starting server", "chosen_port", port)

	e.Logger.Fatal(e.Start(":" + port))
}
