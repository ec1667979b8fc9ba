package exports

import (
	apphttp "salescrm_backend/internal/http"
)

// Module is the exports module implementing http.Module.
type Module struct {
	handler *Handler
}

// NewModule creates the exports module on top of a queue source.
func NewModule(source QueueSource) *Module {
	return &Module{handler: NewHandler(source)}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "exports"
}

// RegisterRoutes mounts export routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/queue/today")
	group.GET("/export.csv", m.handler.ExportCSV)
	group.GET("/export.xlsx", m.handler.ExportXLSX)
}

var _ apphttp.Module = (*Module)(nil)
