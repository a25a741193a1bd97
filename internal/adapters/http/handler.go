package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/randomtoy/tarot-spreads/internal/app"
	"github.com/randomtoy/tarot-spreads/internal/domain"
	"github.com/randomtoy/tarot-spreads/internal/interaction"
)

type Handler struct {
	svc *app.SpreadService
}

func NewHandler(svc *app.SpreadService) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Register(e *echo.Echo) {
	e.GET("/healthz", h.Healthz)
	e.GET("/v1/spreads", h.ListSpreads)
	e.GET("/v1/decks", h.ListDecks)

	s := e.Group("/v1/sessions")
	s.POST("", h.CreateSession)
	s.GET("/:id", h.GetSession)
	s.DELETE("/:id", h.DeleteSession)
	s.PUT("/:id/spread", h.SelectSpread)
	s.POST("/:id/shuffle", h.Shuffle)
	s.POST("/:id/clear", h.Clear)
	s.POST("/:id/drag/start", h.DragStart)
	s.POST("/:id/drag/hover", h.DragHover)
	s.POST("/:id/drag/drop", h.DragDrop)
	s.POST("/:id/input", h.Input)
	s.POST("/:id/cards/:card/select", h.SelectCard)
	s.DELETE("/:id/detail", h.CloseDetail)
	s.POST("/:id/reading", h.Reading)
}

func (h *Handler) Healthz(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func (h *Handler) ListSpreads(c echo.Context) error {
	return c.JSON(http.StatusOK, SpreadsResponse{Spreads: h.svc.Catalog().List()})
}

func (h *Handler) ListDecks(c echo.Context) error {
	list, err := h.svc.Decks(c.Request().Context())
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, DecksResponse{Decks: list})
}

func (h *Handler) CreateSession(c echo.Context) error {
	var req CreateSessionRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid JSON body")
	}
	if req.MaxTouchPoints < 0 {
		return badRequest(c, "max_touch_points must not be negative")
	}

	id, s, err := h.svc.Create(c.Request().Context(), app.CreateSessionRequest{
		DeckID:       req.Deck,
		Spread:       domain.SpreadID(req.Spread),
		Capabilities: interaction.Capabilities{MaxTouchPoints: req.MaxTouchPoints},
	})
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusCreated, sessionResponse(id, s))
}

func (h *Handler) GetSession(c echo.Context) error {
	return h.mutate(c, func(*app.Session) error { return nil })
}

func (h *Handler) DeleteSession(c echo.Context) error {
	if err := h.svc.Delete(c.Param("id")); err != nil {
		return mapError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) SelectSpread(c echo.Context) error {
	var req SelectSpreadRequest
	if err := c.Bind(&req); err != nil || req.Spread == "" {
		return badRequest(c, "spread is required")
	}
	return h.mutate(c, func(s *app.Session) error {
		s.SelectSpread(domain.SpreadID(req.Spread))
		return nil
	})
}

func (h *Handler) Shuffle(c echo.Context) error {
	return h.mutate(c, func(s *app.Session) error {
		s.Shuffle()
		return nil
	})
}

func (h *Handler) Clear(c echo.Context) error {
	return h.mutate(c, func(s *app.Session) error {
		s.Clear()
		return nil
	})
}

func (h *Handler) DragStart(c echo.Context) error {
	var req DragStartRequest
	if err := c.Bind(&req); err != nil || req.CardID == nil {
		return badRequest(c, "card_id is required")
	}
	return h.mutate(c, func(s *app.Session) error {
		return s.BeginDrag(*req.CardID)
	})
}

func (h *Handler) DragHover(c echo.Context) error {
	var req HoverRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid JSON body")
	}
	return h.mutate(c, func(s *app.Session) error {
		s.HoverTarget(req.Position)
		return nil
	})
}

func (h *Handler) DragDrop(c echo.Context) error {
	return h.interact(c, func(s *app.Session) interaction.Result {
		return s.Drop()
	})
}

func (h *Handler) Input(c echo.Context) error {
	var ev interaction.InputEvent
	if err := c.Bind(&ev); err != nil {
		return badRequest(c, "invalid JSON body")
	}
	switch ev.Kind {
	case interaction.Press, interaction.Move, interaction.Release:
	default:
		return badRequest(c, "kind must be press, move or release")
	}
	return h.interact(c, func(s *app.Session) interaction.Result {
		return s.HandleInput(ev)
	})
}

func (h *Handler) SelectCard(c echo.Context) error {
	cardID, err := strconv.Atoi(c.Param("card"))
	if err != nil {
		return badRequest(c, "card must be an integer")
	}
	return h.mutate(c, func(s *app.Session) error {
		return s.SelectCard(cardID)
	})
}

func (h *Handler) CloseDetail(c echo.Context) error {
	return h.mutate(c, func(s *app.Session) error {
		s.CloseDetail()
		return nil
	})
}

func (h *Handler) Reading(c echo.Context) error {
	var req ReadingRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid JSON body")
	}
	if len(req.Question) > 500 {
		return badRequest(c, "question must be at most 500 characters")
	}

	// The interpreter runs outside the session lock.
	var plan app.ReadingPlan
	err := h.svc.Do(c.Param("id"), func(s *app.Session) error {
		var err error
		plan, err = s.PrepareReading(app.ReadingRequest{
			Question: req.Question,
			Lang:     req.Lang,
		})
		return err
	})
	if err != nil {
		return mapError(c, err)
	}

	resp, err := plan.Run(c.Request().Context())
	if err != nil {
		return mapError(c, err)
	}

	requestID, _ := c.Get("request_id").(string)
	return c.JSON(http.StatusOK, toReadingResponse(resp, requestID))
}

// mutate applies fn to the session and answers with the fresh view.
func (h *Handler) mutate(c echo.Context, fn func(*app.Session) error) error {
	id := c.Param("id")
	var out SessionResponse
	err := h.svc.Do(id, func(s *app.Session) error {
		if err := fn(s); err != nil {
			return err
		}
		out = sessionResponse(id, s)
		return nil
	})
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// interact is mutate for drag and input events, which report an outcome
// instead of failing.
func (h *Handler) interact(c echo.Context, fn func(*app.Session) interaction.Result) error {
	id := c.Param("id")
	var out InteractionResponse
	err := h.svc.Do(id, func(s *app.Session) error {
		res := fn(s)
		out = InteractionResponse{
			SessionResponse: sessionResponse(id, s),
			Outcome:         res.Outcome,
			CardID:          res.CardID,
			Position:        res.Position,
		}
		if res.Err != nil {
			out.Error = res.Err.Error()
		}
		return nil
	})
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func sessionResponse(id string, s *app.Session) SessionResponse {
	return SessionResponse{SessionID: id, Deck: s.DeckID(), View: s.View()}
}

func toReadingResponse(r app.ReadingResponse, requestID string) ReadingResponse {
	cards := make([]ReadingCard, len(r.Cards))
	for i, c := range r.Cards {
		cards[i] = ReadingCard{
			Name:        c.Name,
			Position:    c.Position,
			Orientation: c.Orientation,
		}
	}
	return ReadingResponse{
		Spread: r.Spread,
		Deck:   r.DeckID,
		Cards:  cards,
		Interpretation: InterpretationResp{
			Style:      r.Interpretation.Style,
			Text:       r.Interpretation.Text,
			Disclaimer: r.Interpretation.Disclaimer,
		},
		Meta: MetaResp{
			Model:     r.Model,
			RequestID: requestID,
			LatencyMS: r.LatencyMS,
		},
	}
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

func mapError(c echo.Context, err error) error {
	requestID, _ := c.Get("request_id").(string)

	switch {
	case errors.Is(err, app.ErrSessionNotFound),
		errors.Is(err, domain.ErrDeckNotFound),
		errors.Is(err, domain.ErrCardNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrUnknownPosition),
		errors.Is(err, domain.ErrEmptyPosition):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, interaction.ErrNotDraggable),
		errors.Is(err, app.ErrCardNotPlaced),
		errors.Is(err, app.ErrNoPlacedCards):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, app.ErrSessionLimit):
		return c.JSON(http.StatusTooManyRequests, ErrorResponse{Error: err.Error()})
	case errors.Is(err, app.ErrReadingDisabled):
		return c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrUpstreamLLM), errors.Is(err, domain.ErrInvalidLLMJSON):
		slog.Error("upstream LLM failure", "request_id", requestID, "error", err)
		return c.JSON(http.StatusBadGateway, ErrorResponse{Error: "upstream LLM failure"})
	default:
		slog.Error("internal error", "request_id", requestID, "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}
