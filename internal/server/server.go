package server

import (
	"fmt"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Naveen-2402/darkai/config"
	"github.com/Naveen-2402/darkai/internal/pipeline"
	"github.com/Naveen-2402/darkai/provider"
	"github.com/Naveen-2402/darkai/session"
	"github.com/Naveen-2402/darkai/tools/web_search"
)

// Run wires the full service and blocks serving HTTP until shutdown.
func Run(cfg *config.Config, addr string) error {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	// Unified HTTP error handler with structured JSON and logging
	baseLogger := log.New(log.Writer(), "[HTTP] ", log.LstdFlags)
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := err.Error()
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if he.Message != nil {
				msg = fmt.Sprint(he.Message)
			}
		}
		req := c.Request()
		baseLogger.Printf("%d %s %s from %s: %v", code, req.Method, req.URL.Path, c.RealIP(), err)
		if !c.Response().Committed {
			_ = c.JSON(code, HTTPError{Error: msg})
		}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization", "Cookie"},
		AllowCredentials: true,
	}))

	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	llm, err := provider.NewProvider(provider.Client(cfg.LLM.Provider), cfg.LLM)
	if err != nil {
		return err
	}

	var searcher web_search.WebSearcher
	if cfg.Search.APIKey != "" {
		searcher, err = web_search.NewWebSearcher(cfg.Search)
		if err != nil {
			return err
		}
	} else {
		baseLogger.Printf("search.api_key not set, web search disabled")
	}

	store, err := session.NewStore(cfg.Session)
	if err != nil {
		return err
	}

	pipe := pipeline.New(cfg, llm, searcher)

	secret := []byte(cfg.Server.JWTSecret)
	if len(secret) == 0 {
		baseLogger.Printf("server.jwt_secret not set, API is unauthenticated")
	}

	api := e.Group("/api")

	if len(secret) > 0 {
		ah := &AuthHandler{Secret: secret}
		ah.Register(api.Group("/auth"))
	}

	ch := &ChatsHandler{Store: store, Pipe: pipe, Defaults: cfg.Chat, Logger: baseLogger}
	ch.Register(api.Group("/chats"), secret)

	quote := func(c echo.Context) error {
		q, err := pipe.Quote(c.Request().Context())
		if err != nil {
			return echo.NewHTTPError(http.StatusBadGateway, err.Error())
		}
		return c.JSON(http.StatusOK, QuoteResponse{Quote: q})
	}
	if len(secret) > 0 {
		api.GET("/quote", withAuth(quote, secret))
	} else {
		api.GET("/quote", quote)
	}

	if addr == "" {
		addr = cfg.Server.Address
		if addr == "" {
			addr = ":10002"
		}
	}
	log.Printf("listening on %s", addr)
	return e.Start(addr)
}
