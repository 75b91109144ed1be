package intake

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/opp/planner/internal/domain/labs"
	"github.com/opp/planner/internal/platform/exportstore"
	"github.com/opp/planner/pkg/pagination"
)

// CarePlanFilename is the download name offered for exported plans.
const CarePlanFilename = "care_plan.pdf"

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the intake endpoints on a group that already
// requires a valid token.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/labs/extract", h.ExtractLabs)
	api.POST("/labs/evaluate", h.EvaluateLabs)

	api.POST("/patients", h.CreatePatient)
	api.GET("/patients", h.ListPatients)

	api.POST("/care-plans", h.CreateCarePlan)
	api.GET("/care-plans/:id", h.DownloadCarePlan)
}

func (h *Handler) ExtractLabs(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		// an oversized streamed upload fails while the form is parsed
		var he *echo.HTTPError
		if errors.As(err, &he) && he.Code == http.StatusRequestEntityTooLarge {
			return he
		}
		return echo.NewHTTPError(http.StatusBadRequest, "multipart field \"file\" is required")
	}
	if !strings.EqualFold(filepath.Ext(fh.Filename), ".pdf") {
		return echo.NewHTTPError(http.StatusBadRequest, "only PDF lab reports are accepted")
	}

	f, err := fh.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	defer f.Close()

	analysis, err := h.svc.Analyze(c.Request().Context(), f, fh.Size)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, analysis)
}

func (h *Handler) EvaluateLabs(c echo.Context) error {
	var result labs.Result
	if err := c.Bind(&result); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	advisories, err := h.svc.Evaluate(result)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"advisories": advisories,
		"messages":   labs.Messages(advisories),
	})
}

func (h *Handler) CreatePatient(c echo.Context) error {
	var form IntakeForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	rec, err := h.svc.Save(c.Request().Context(), form)
	if err != nil {
		return formError(err)
	}
	return c.JSON(http.StatusCreated, rec)
}

func (h *Handler) ListPatients(c echo.Context) error {
	pg := pagination.FromContext(c)
	filter := ListFilter{Name: c.QueryParam("name")}
	records, total, err := h.svc.List(c.Request().Context(), filter, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	resp := pagination.NewResponse(summarize(records), total, pg.Limit, pg.Offset).WithLinks(c.Request().URL)
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) CreateCarePlan(c echo.Context) error {
	var form IntakeForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	meta, err := h.svc.ExportCarePlan(c.Request().Context(), form)
	if err != nil {
		return formError(err)
	}
	return c.JSON(http.StatusCreated, CarePlanExport{
		ID:          meta.ID,
		Size:        meta.Size,
		CreatedAt:   meta.CreatedAt,
		DownloadURL: "/api/v1/care-plans/" + meta.ID,
	})
}

func (h *Handler) DownloadCarePlan(c echo.Context) error {
	f, meta, err := h.svc.OpenExport(c.Param("id"))
	if err != nil {
		if errors.Is(err, exportstore.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "care plan not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	defer f.Close()

	hdr := c.Response().Header()
	hdr.Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", CarePlanFilename))
	hdr.Set(echo.HeaderContentLength, fmt.Sprintf("%d", meta.Size))
	return c.Stream(http.StatusOK, "application/pdf", f)
}

func formError(err error) error {
	if errors.Is(err, ErrInvalidGender) || errors.Is(err, labs.ErrUnknownLab) {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
