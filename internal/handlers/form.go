package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"pace_service_tool/internal/models"
	"pace_service_tool/internal/service"

	"github.com/gin-gonic/gin"
	"gopkg.in/yaml.v3"
)

// Common response/status constants to avoid magic strings and typos.
const (
	statusOK = "ok"

	errInvalidBodyPref = "invalid body: "
	errInvalidIndex    = "slot index must be an integer"
	errExportFormat    = "format must be json or yaml"
	errExportFailed    = "failed to export form"
)

// valueRequest is the body of every form edit.
type valueRequest struct {
	// Value is free text; numeric fields are coerced server-side.
	Value *string `json:"value" binding:"required" example:"460"`
}

// formView is the current record plus the slots the form shows for its counts.
type formView struct {
	Record             models.EquipmentRecord `json:"record"`
	VisibleCompressors []models.MotorSpec     `json:"visibleCompressors"`
	VisibleOutdoorFans []models.MotorSpec     `json:"visibleOutdoorFans"`
	VisibleIndoorFans  []models.MotorSpec     `json:"visibleIndoorFans"`
}

func newFormView(r models.EquipmentRecord) formView {
	return formView{
		Record:             r,
		VisibleCompressors: r.VisibleCompressors(),
		VisibleOutdoorFans: r.VisibleOutdoorFans(),
		VisibleIndoorFans:  r.VisibleIndoorFans(),
	}
}

// statusForUpdateError maps record update errors to HTTP codes.
func statusForUpdateError(err error) int {
	switch {
	case errors.Is(err, models.ErrUnknownField):
		return http.StatusNotFound
	case errors.Is(err, models.ErrSlotOutOfRange):
		return http.StatusNotFound
	case errors.Is(err, models.ErrInvalidValue):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// bindValue reads {"value": ...} and writes a 400 on failure.
// Returns false if the request was already handled.
func (h *Handler) bindValue(c *gin.Context) (string, bool) {
	var req valueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return "", false
	}
	return *req.Value, true
}

func (h *Handler) respondUpdate(c *gin.Context, rec models.EquipmentRecord, err error, logKey string, kv ...interface{}) {
	if err != nil {
		if h.log != nil {
			h.log.Infow(logKey, append([]interface{}{"err", err}, kv...)...)
		}
		c.JSON(statusForUpdateError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, newFormView(rec))
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Form selector options
// @Tags         form
// @Produce      json
// @Success      200  {object}  models.FormOptions
// @Router       /api/v1/options [get]
func (h *Handler) getOptions(c *gin.Context) {
	c.JSON(http.StatusOK, models.DefaultFormOptions())
}

// @Summary      Current nameplate record
// @Tags         form
// @Produce      json
// @Success      200  {object}  formView
// @Router       /api/v1/form [get]
func (h *Handler) getForm(c *gin.Context) {
	c.JSON(http.StatusOK, newFormView(h.services.Form.Current()))
}

// @Summary      Set a top-level field
// @Description  numCompressors must be an integer; other fields are stored as given.
// @Tags         form
// @Accept       json
// @Produce      json
// @Param        field  path  string        true  "Field"  Enums(manufacturer,modelNumber,serialNumber,controlCircuitVolts,numCompressors,numOutdoorFans,numIndoorFans,economizer)
// @Param        body   body  valueRequest  true  "New value"
// @Success      200    {object}  formView
// @Failure      400    {object}  map[string]string
// @Failure      404    {object}  map[string]string
// @Router       /api/v1/form/fields/{field} [put]
func (h *Handler) updateField(c *gin.Context) {
	value, ok := h.bindValue(c)
	if !ok {
		return
	}
	field := models.Field(c.Param("field"))
	rec, err := h.services.Form.UpdateField(c.Request.Context(), field, value)
	h.respondUpdate(c, rec, err, "form_update_field_rejected", "field", field)
}

// @Summary      Set a compressor or fan attribute
// @Description  Any slot of the fixed array can be edited, visible or not.
// @Tags         form
// @Accept       json
// @Produce      json
// @Param        group  path  string        true  "Motor group"  Enums(compressors,outdoorFans,indoorFans)
// @Param        index  path  int           true  "Zero-based slot"
// @Param        field  path  string        true  "Attribute"  Enums(volts,phases,hz,rla,lra)
// @Param        body   body  valueRequest  true  "New value"
// @Success      200    {object}  formView
// @Failure      400    {object}  map[string]string
// @Failure      404    {object}  map[string]string
// @Router       /api/v1/form/motors/{group}/{index}/{field} [put]
func (h *Handler) updateMotor(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidIndex})
		return
	}
	value, ok := h.bindValue(c)
	if !ok {
		return
	}
	p := service.MotorParams{
		Group: models.MotorGroup(c.Param("group")),
		Index: index,
		Field: models.MotorField(c.Param("field")),
		Value: value,
	}
	rec, err := h.services.Form.UpdateMotor(c.Request.Context(), p)
	h.respondUpdate(c, rec, err, "form_update_motor_rejected", "group", p.Group, "index", p.Index, "field", p.Field)
}

// @Summary      Set a heating or cooling capacity
// @Tags         form
// @Accept       json
// @Produce      json
// @Param        section  path  string        true  "Section"  Enums(heating,cooling)
// @Param        field    path  string        true  "Field"  Enums(inputMaxBtuHr,outputCapacityBtuHr,inputMaxKw,outputCapacityKw)
// @Param        body     body  valueRequest  true  "New value"
// @Success      200      {object}  formView
// @Failure      400      {object}  map[string]string
// @Failure      404      {object}  map[string]string
// @Router       /api/v1/form/sections/{section}/{field} [put]
func (h *Handler) updateNested(c *gin.Context) {
	value, ok := h.bindValue(c)
	if !ok {
		return
	}
	p := service.NestedParams{
		Section: models.Section(c.Param("section")),
		Field:   c.Param("field"),
		Value:   value,
	}
	rec, err := h.services.Form.UpdateNested(c.Request.Context(), p)
	h.respondUpdate(c, rec, err, "form_update_section_rejected", "section", p.Section, "field", p.Field)
}

// @Summary      Download the nameplate sheet
// @Tags         form
// @Produce      json
// @Produce      application/x-yaml
// @Param        format  query  string  false  "Output format"  Enums(json,yaml)
// @Success      200     {object}  models.EquipmentRecord
// @Failure      400     {object}  map[string]string
// @Router       /api/v1/form/export [get]
func (h *Handler) exportForm(c *gin.Context) {
	rec := h.services.Form.Current()
	format := strings.ToLower(strings.TrimSpace(c.DefaultQuery("format", "json")))

	switch format {
	case "json":
		c.Header("Content-Disposition", `attachment; filename="nameplate.json"`)
		c.JSON(http.StatusOK, rec)
	case "yaml", "yml":
		out, err := yaml.Marshal(rec)
		if err != nil {
			if h.log != nil {
				h.log.Errorw("form_export_failed", "err", err, "format", format)
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": errExportFailed})
			return
		}
		c.Header("Content-Disposition", `attachment; filename="nameplate.yaml"`)
		c.Data(http.StatusOK, "application/x-yaml; charset=utf-8", out)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": errExportFormat})
	}
}
