package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/berfenger/hwpgen/internal/adapter/codegen"
	"github.com/berfenger/hwpgen/internal/adapter/loader"
	"github.com/berfenger/hwpgen/internal/core/schema"
	"github.com/berfenger/hwpgen/internal/core/service"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

const MAX_DOCUMENT_SIZE = "1M"

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) RegisterRoutes() http.Handler {
	e := echo.New()
	e.HideBanner = true
	if s.httpLog {
		e.Use(middleware.Logger())
	}
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit(MAX_DOCUMENT_SIZE))

	e.GET("/healthcheck", s.HealthCheckHandler)
	e.GET("/entities", s.EntitiesHandler)
	e.POST("/validate", s.ValidateHandler)
	e.POST("/build", s.BuildHandler)

	return e
}

func (s *Server) HealthCheckHandler(c echo.Context) error {
	if s.pipeline == nil || s.pipeline.Registry == nil {
		return c.String(http.StatusServiceUnavailable, "health_check: FAIL")
	}
	return c.String(http.StatusOK, "health_check: OK")
}

func (s *Server) EntitiesHandler(c echo.Context) error {
	entities, err := service.ListEntities(s.pipeline.Registry, s.pipeline.Platforms)
	if err != nil {
		return s.internalError(c, err)
	}
	return c.JSON(http.StatusOK, entities)
}

func (s *Server) ValidateHandler(c echo.Context) error {
	doc, err := s.readDocument(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}
	res, err := s.pipeline.WithFriendlyName(doc.FriendlyName).Validate(c.Request().Context(), doc.Config)
	if err != nil {
		return s.pipelineError(c, res, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (s *Server) BuildHandler(c echo.Context) error {
	format := c.QueryParam("format")
	if format == "" {
		format = s.format
	}
	renderer, err := codegen.NewRenderer(format, s.version)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	doc, err := s.readDocument(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}
	res, err := s.pipeline.WithFriendlyName(doc.FriendlyName).Build(c.Request().Context(), doc.Config)
	if err != nil {
		return s.pipelineError(c, res, err)
	}
	content, err := renderer.Render(res.Program)
	if err != nil {
		return s.internalError(c, err)
	}
	if format == codegen.FORMAT_JSON {
		return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, content)
	}
	return c.Blob(http.StatusOK, echo.MIMETextPlainCharsetUTF8, content)
}

func (s *Server) readDocument(c echo.Context) (*loader.Document, error) {
	data, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return nil, err
	}
	l := &loader.Loader{}
	return l.Parse(data)
}

// pipelineError answers 422 with the report for rejected documents.
func (s *Server) pipelineError(c echo.Context, res *service.Result, err error) error {
	var verr *schema.ValidationError
	if errors.As(err, &verr) && res != nil {
		return c.JSON(http.StatusUnprocessableEntity, res)
	}
	return s.internalError(c, err)
}

func (s *Server) internalError(c echo.Context, err error) error {
	s.logger.Error("server@request: failed", zap.String("path", c.Path()), zap.Error(err))
	return c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
}
