package handler

import (
	"context"
	"net/http"

	"energy-market-backend/bootstrap"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
)

var fiberApp *fiber.App

func init() {
	rt, err := bootstrap.New(context.Background())
	if err != nil {
		panic("app create: " + err.Error())
	}
	fiberApp = rt.App
}

// Handler is the serverless entry point. All requests are rewritten here.
// Stale offers are still hidden from reads without the sweeper.
func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()
	adaptor.FiberApp(fiberApp)(w, r)
}
