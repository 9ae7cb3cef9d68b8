package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"reviewsense/internal/domain"
)

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) bindSubmission(c echo.Context) (domain.Submission, error) {
	var sub domain.Submission
	if err := c.Bind(&sub); err != nil {
		return sub, fmt.Errorf("%w: malformed request body", domain.ErrInvalidInput)
	}
	return sub, nil
}

func (s *Server) predict(c echo.Context) error {
	sub, err := s.bindSubmission(c)
	if err != nil {
		return s.fail(c, err)
	}

	res, err := s.service.Analyze(c.Request().Context(), sub.Text, sub.Category)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (s *Server) addReview(c echo.Context) error {
	sub, err := s.bindSubmission(c)
	if err != nil {
		return s.fail(c, err)
	}
	sub.Source = domain.SourceAPI

	r, err := s.service.Submit(c.Request().Context(), sub)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusCreated, r)
}

// queueReview accepts a review for asynchronous scoring.
func (s *Server) queueReview(c echo.Context) error {
	if s.publisher == nil {
		return c.JSON(http.StatusServiceUnavailable, errorResponse{Error: "review queue is not configured"})
	}

	sub, err := s.bindSubmission(c)
	if err != nil {
		return s.fail(c, err)
	}
	if sub.Text == "" || sub.Category == "" {
		return s.fail(c, fmt.Errorf("%w: review and category are required", domain.ErrInvalidInput))
	}

	sub.ID = uuid.NewString()
	sub.Source = domain.SourceAPI
	sub.ReceivedAt = time.Now().UTC()

	if err := s.publisher.Publish(c.Request().Context(), sub); err != nil {
		return s.fail(c, fmt.Errorf("publish review: %w", err))
	}
	return c.JSON(http.StatusAccepted, map[string]string{"id": sub.ID})
}

// intParam reads an optional non-negative integer query parameter.
func intParam(c echo.Context, name string) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative number", domain.ErrInvalidInput, name)
	}
	return n, nil
}

func (s *Server) getReviews(c echo.Context) error {
	limit, err := intParam(c, "limit")
	if err != nil {
		return s.fail(c, err)
	}
	offset, err := intParam(c, "offset")
	if err != nil {
		return s.fail(c, err)
	}

	reviews, err := s.service.List(c.Request().Context(), c.QueryParam("place"), limit, offset)
	if err != nil {
		return s.fail(c, err)
	}
	if reviews == nil {
		reviews = []domain.Review{}
	}
	return c.JSON(http.StatusOK, reviews)
}

func (s *Server) getReview(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return s.fail(c, fmt.Errorf("%w: invalid review id", domain.ErrInvalidInput))
	}

	r, err := s.service.Get(c.Request().Context(), id)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, r)
}

func (s *Server) top(c echo.Context) error {
	limit, err := intParam(c, "limit")
	if err != nil {
		return s.fail(c, err)
	}

	counts, err := s.service.Top(c.Request().Context(), domain.Label(c.QueryParam("label")), limit)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, counts)
}

func (s *Server) aspects(c echo.Context) error {
	aspects, err := s.service.Aspects(c.Request().Context(), c.QueryParam("category"))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, aspects)
}

func (s *Server) aspectStats(c echo.Context) error {
	chart, err := s.service.AspectStats(c.Request().Context(), c.QueryParam("category"), c.QueryParam("aspect"))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, chart)
}

func (s *Server) aspectStatsByPlace(c echo.Context) error {
	counts, err := s.service.AspectStatsByPlace(c.Request().Context(), c.QueryParam("category"), c.QueryParam("aspect"))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, counts)
}

func (s *Server) statsByCategory(c echo.Context) error {
	counts, err := s.service.StatsByCategory(c.Request().Context(), c.QueryParam("category"))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, counts)
}

func (s *Server) statsByPlace(c echo.Context) error {
	counts, err := s.service.StatsByPlace(c.Request().Context(), c.QueryParam("place"))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, counts)
}

func (s *Server) events(c echo.Context) error {
	c.Response().Header().Set("Content-Type", "text/event-stream")
	c.Response().Header().Set("Cache-Control", "no-cache")
	c.Response().Header().Set("Connection", "keep-alive")
	c.Response().Header().Set("X-Accel-Buffering", "no")

	ch := s.sse.Subscribe()
	defer s.sse.Unsubscribe(ch)

	fmt.Fprintf(c.Response(), ": ping\n\n")
	c.Response().Flush()

	for {
		select {
		case <-c.Request().Context().Done():
			return nil
		case msg := <-ch:
			fmt.Fprintf(c.Response(), "event: review\n")
			for _, line := range strings.Split(msg, "\n") {
				fmt.Fprintf(c.Response(), "data: %s\n", line)
			}
			fmt.Fprintf(c.Response(), "\n")
			c.Response().Flush()
		}
	}
}
