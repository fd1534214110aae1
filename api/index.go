package handler

import (
	"context"
	"net/http"

	"rwa-backend/internal/config"
	"rwa-backend/internal/pkg/logging"
	"rwa-backend/internal/server"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
)

var fiberApp *fiber.App

func init() {
	cfg, err := config.Load()
	if err != nil {
		panic("config load: " + err.Error())
	}
	logging.Setup(cfg.LogLevel, cfg.Env)
	srv, err := server.Build(context.Background(), cfg)
	if err != nil {
		panic("app create: " + err.Error())
	}
	fiberApp = srv.App
}

// Handler is the serverless entry point. All requests are rewritten here.
func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()
	adaptor.FiberApp(fiberApp)(w, r)
}
