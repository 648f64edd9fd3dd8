package server

import (
	"context"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/insightloop/contractmeta/internal/extraction"
	"github.com/insightloop/contractmeta/internal/store"
)

// ExtractHandler exposes the extraction pipeline over HTTP.
type ExtractHandler struct {
	Orch     *extraction.Orchestrator
	Store    *store.Store
	Progress *store.ProgressCache
	Logger   *log.Logger
}

type extractRequest struct {
	FileID string   `json:"file_id"`
	Chunks []string `json:"chunks"`
}

type statusResponse struct {
	FileID   string `json:"file_id"`
	Status   string `json:"status"`
	Progress int    `json:"progress"`
	Error    string `json:"error,omitempty"`
}

// Register mounts the handler's routes on the given group.
func (h *ExtractHandler) Register(g *echo.Group) {
	g.POST("/extract", h.extract)
	g.GET("/status/:file_id", h.status)
	g.GET("/metadata/:file_id", h.metadata)
}

// extract accepts a document and kicks off an asynchronous run. The
// response is immediate; callers poll the status endpoint.
func (h *ExtractHandler) extract(c echo.Context) error {
	var req extractRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.FileID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "file_id is required")
	}
	if len(req.Chunks) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "chunks are required")
	}

	// run detached from the request context
	go func() {
		if _, err := h.Orch.ExtractFile(context.Background(), req.FileID, req.Chunks); err != nil {
			h.Logger.Printf("extraction for %s failed: %v", req.FileID, err)
		}
	}()

	return c.JSON(http.StatusAccepted, map[string]string{
		"file_id": req.FileID,
		"status":  string(extraction.StatusProcessing),
	})
}

// status reports run progress, preferring the Redis mirror and falling
// back to the durable record.
func (h *ExtractHandler) status(c echo.Context) error {
	fileID := c.Param("file_id")

	fs, found, err := h.Store.GetStatus(c.Request().Context(), fileID)
	if err != nil {
		return err
	}
	if !found {
		return echo.NewHTTPError(http.StatusNotFound, "unknown file_id")
	}
	resp := statusResponse{
		FileID:   fs.FileID,
		Status:   string(fs.Status),
		Progress: fs.Progress,
		Error:    fs.Error,
	}
	if h.Progress != nil {
		if percent, ok, err := h.Progress.GetProgress(c.Request().Context(), fileID); err == nil && ok {
			resp.Progress = percent
		}
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *ExtractHandler) metadata(c echo.Context) error {
	fileID := c.Param("file_id")
	doc, found, err := h.Store.GetMetadata(c.Request().Context(), fileID)
	if err != nil {
		return err
	}
	if !found {
		return echo.NewHTTPError(http.StatusNotFound, "no metadata for file_id")
	}
	return c.JSON(http.StatusOK, doc)
}
