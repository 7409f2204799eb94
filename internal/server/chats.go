package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Naveen-2402/darkai/config"
	"github.com/Naveen-2402/darkai/internal/pipeline"
	"github.com/Naveen-2402/darkai/session"
	"github.com/Naveen-2402/darkai/session/session_models"
)

// TurnEngine is the pipeline surface the handlers depend on.
type TurnEngine interface {
	RunTurn(ctx context.Context, chat *session_models.ChatSession, userText string) (pipeline.TurnResult, error)
	Greeting(ctx context.Context) (string, error)
	Quote(ctx context.Context) (string, error)
}

type ChatsHandler struct {
	Store    session.Store
	Pipe     TurnEngine
	Defaults config.ChatConfig
	Logger   *log.Logger
}

func (h *ChatsHandler) Register(g *echo.Group, secret []byte) {
	if len(secret) > 0 {
		g.Use(func(next echo.HandlerFunc) echo.HandlerFunc { return withAuth(next, secret) })
	}
	g.GET("", h.list)
	g.POST("", h.create)
	g.GET("/:id", h.get)
	g.PATCH("/:id", h.update)
	g.DELETE("/:id", h.delete)
	g.POST("/:id/messages", h.message)
}

// Sampling parameters are bounded to [0,1], matching the original UI.
func validSampling(v float64) bool {
	return v >= 0 && v <= 1
}

func (h *ChatsHandler) list(c echo.Context) error {
	chats, err := h.Store.List(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	out := make([]ChatSummary, 0, len(chats))
	for _, chat := range chats {
		out = append(out, summarize(chat))
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ChatsHandler) create(c echo.Context) error {
	var req CreateChatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	chat, err := session_models.NewChat(req.Role)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	chat.Temperature = h.Defaults.Temperature
	if req.Temperature != nil {
		if !validSampling(*req.Temperature) {
			return echo.NewHTTPError(http.StatusBadRequest, "temperature must be within [0,1]")
		}
		chat.Temperature = *req.Temperature
	}
	chat.TopP = h.Defaults.TopP
	if req.TopP != nil {
		if !validSampling(*req.TopP) {
			return echo.NewHTTPError(http.StatusBadRequest, "top_p must be within [0,1]")
		}
		chat.TopP = *req.TopP
	}

	depth := session_models.ReasoningDepth(h.Defaults.ReasoningDepth)
	if req.ReasoningDepth != "" {
		depth = session_models.ReasoningDepth(req.ReasoningDepth)
		if !depth.Valid() {
			return echo.NewHTTPError(http.StatusBadRequest, "reasoning_depth must be Fast, Standard or Deep")
		}
	}
	if !depth.Valid() {
		depth = session_models.DepthStandard
	}
	chat.ReasoningDepth = depth

	chat.UseWebSearch = h.Defaults.Web.Enabled
	if req.UseWebSearch != nil {
		chat.UseWebSearch = *req.UseWebSearch
	}
	chat.WebResultsPerQuery = h.Defaults.Web.ResultsPerQuery
	if req.WebResultsPerQuery > 0 {
		chat.WebResultsPerQuery = req.WebResultsPerQuery
	}
	chat.WebExtractChars = h.Defaults.Web.ExtractChars
	if req.WebExtractChars > 0 {
		chat.WebExtractChars = req.WebExtractChars
	}

	if h.Defaults.AutoGreet {
		// Greeting is cosmetic; a failed call never blocks chat creation.
		if greeting, err := h.Pipe.Greeting(c.Request().Context()); err != nil {
			h.Logger.Printf("greeting failed for new chat %s: %v", chat.ID, err)
		} else {
			chat.Append("assistant", greeting)
		}
	}

	if err := h.Store.Put(c.Request().Context(), chat); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, chat)
}

func (h *ChatsHandler) get(c echo.Context) error {
	chat, err := h.Store.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "chat not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, chat)
}

func (h *ChatsHandler) update(c echo.Context) error {
	chat, err := h.Store.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "chat not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var req UpdateChatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "title must not be empty")
		}
		chat.Title = title
	}
	if req.Temperature != nil {
		if !validSampling(*req.Temperature) {
			return echo.NewHTTPError(http.StatusBadRequest, "temperature must be within [0,1]")
		}
		chat.Temperature = *req.Temperature
	}
	if req.TopP != nil {
		if !validSampling(*req.TopP) {
			return echo.NewHTTPError(http.StatusBadRequest, "top_p must be within [0,1]")
		}
		chat.TopP = *req.TopP
	}
	if req.ReasoningDepth != nil {
		depth := session_models.ReasoningDepth(*req.ReasoningDepth)
		if !depth.Valid() {
			return echo.NewHTTPError(http.StatusBadRequest, "reasoning_depth must be Fast, Standard or Deep")
		}
		chat.ReasoningDepth = depth
	}
	if req.UseWebSearch != nil {
		chat.UseWebSearch = *req.UseWebSearch
	}
	if req.WebResultsPerQuery != nil {
		chat.WebResultsPerQuery = *req.WebResultsPerQuery
	}
	if req.WebExtractChars != nil {
		chat.WebExtractChars = *req.WebExtractChars
	}

	if err := h.Store.Put(c.Request().Context(), chat); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, chat)
}

func (h *ChatsHandler) delete(c echo.Context) error {
	if err := h.Store.Delete(c.Request().Context(), c.Param("id")); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "chat not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// message runs one user turn through the reasoning pipeline.
func (h *ChatsHandler) message(c echo.Context) error {
	var req SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if strings.TrimSpace(req.Message) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "message required")
	}

	ctx := c.Request().Context()
	chat, err := h.Store.Get(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "chat not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	result, turnErr := h.Pipe.RunTurn(ctx, chat, req.Message)

	// Persist even when the turn fails: a failed turn appends no messages,
	// but a consumed clarification state must not come back on retry.
	if err := h.Store.Put(ctx, chat); err != nil {
		h.Logger.Printf("persist chat %s failed: %v", chat.ID, err)
		if turnErr == nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}
	if turnErr != nil {
		return echo.NewHTTPError(http.StatusBadGateway, turnErr.Error())
	}

	return c.JSON(http.StatusOK, TurnResponse{
		Answer:             result.Answer,
		Sources:            result.Sources,
		Warnings:           result.Warnings,
		AskedClarification: result.AskedClarification,
	})
}
