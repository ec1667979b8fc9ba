package exports

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"salescrm_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

const (
	contentTypeCSV  = "text/csv; charset=utf-8"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Handler serves queue downloads.
type Handler struct {
	source QueueSource
	now    func() time.Time
}

func NewHandler(source QueueSource) *Handler {
	return &Handler{source: source, now: time.Now}
}

func (h *Handler) ExportCSV(c *gin.Context) {
	items, err := h.source.TodayQueue(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}

	var buf bytes.Buffer
	if httpkit.HandleError(c, WriteCSV(&buf, items)) {
		return
	}
	h.attach(c, "csv", contentTypeCSV, buf.Bytes())
}

func (h *Handler) ExportXLSX(c *gin.Context) {
	items, err := h.source.TodayQueue(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}

	var buf bytes.Buffer
	if httpkit.HandleError(c, WriteXLSX(&buf, items)) {
		return
	}
	h.attach(c, "xlsx", contentTypeXLSX, buf.Bytes())
}

func (h *Handler) attach(c *gin.Context, ext, contentType string, body []byte) {
	filename := fmt.Sprintf("today-queue-%s.%s", h.now().Format("2006-01-02"), ext)
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, contentType, body)
}
