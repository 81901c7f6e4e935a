package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nsqtech/record-tracker/internal/core/domain"
	"github.com/nsqtech/record-tracker/internal/core/ports"
)

// RecordHandler handles HTTP requests for verification records.
type RecordHandler struct {
	service ports.RecordService
}

func NewRecordHandler(service ports.RecordService) *RecordHandler {
	return &RecordHandler{service: service}
}

// List handles GET /api/records. General users only ever see their own records.
//
// @Summary      List records
// @Tags         records
// @Produce      json
// @Security     BearerAuth
// @Param        status    query     string  false  "Filter by status"    Enums(Pending, In Progress, Completed, Rejected)
// @Param        priority  query     string  false  "Filter by priority"  Enums(Low, Medium, High)
// @Param        category  query     string  false  "Filter by category"
// @Success      200       {object}  listRecordsResponse
// @Failure      400       {object}  errorResponse
// @Failure      401       {object}  errorResponse
// @Router       /api/records [get]
func (h *RecordHandler) List(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	records, err := h.service.List(c.Request().Context(), p, ports.ListRecordsInput{
		Status:   domain.RecordStatus(c.QueryParam("status")),
		Priority: domain.Priority(c.QueryParam("priority")),
		Category: c.QueryParam("category"),
	})
	if err != nil {
		return err
	}

	data := make([]recordResponse, 0, len(records))
	for _, r := range records {
		data = append(data, toRecordResponse(r))
	}
	return c.JSON(http.StatusOK, listRecordsResponse{Data: data, Count: len(data)})
}

// Get handles GET /api/records/:record_id.
//
// @Summary      Get a record
// @Tags         records
// @Produce      json
// @Security     BearerAuth
// @Param        record_id  path      string  true  "Record identifier (e.g. REC-1767225600123-7A8B9C2D)"
// @Success      200        {object}  recordResponse
// @Failure      403        {object}  errorResponse
// @Failure      404        {object}  errorResponse
// @Router       /api/records/{record_id} [get]
func (h *RecordHandler) Get(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	rec, err := h.service.Get(c.Request().Context(), p, c.Param("record_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toRecordResponse(rec))
}

// Create handles POST /api/records. The caller becomes the owner.
//
// @Summary      Create a record
// @Tags         records
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createRecordRequest  true  "Record details"
// @Success      201   {object}  recordResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/records [post]
func (h *RecordHandler) Create(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req createRecordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	rec, err := h.service.Create(c.Request().Context(), p, toCreateRecordInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toRecordResponse(rec))
}

// Update handles PUT /api/records/:record_id.
//
// @Summary      Update a record
// @Tags         records
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        record_id  path      string               true  "Record identifier"
// @Param        body       body      updateRecordRequest  true  "Fields to change"
// @Success      200        {object}  recordResponse
// @Failure      400        {object}  errorResponse
// @Failure      403        {object}  errorResponse
// @Failure      404        {object}  errorResponse
// @Router       /api/records/{record_id} [put]
func (h *RecordHandler) Update(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req updateRecordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	rec, err := h.service.Update(c.Request().Context(), p, c.Param("record_id"), toRecordPatch(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toRecordResponse(rec))
}

// Delete handles DELETE /api/records/:record_id.
//
// @Summary      Delete a record
// @Tags         records
// @Produce      json
// @Security     BearerAuth
// @Param        record_id  path      string  true  "Record identifier"
// @Success      200        {object}  messageResponse
// @Failure      403        {object}  errorResponse
// @Failure      404        {object}  errorResponse
// @Router       /api/records/{record_id} [delete]
func (h *RecordHandler) Delete(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), p, c.Param("record_id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "record deleted"})
}
