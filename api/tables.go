package api

import (
	"net/http"

	"github.com/Domenick1991/periodic-tables/internal/service/seating"
	"github.com/Domenick1991/periodic-tables/internal/service/tables"
	"github.com/gin-gonic/gin"
)

type TableHandler struct {
	service tables.TableUseCase
	seating seating.SeatingUseCase
}

func NewTableHandler(service tables.TableUseCase, seating seating.SeatingUseCase) *TableHandler {
	return &TableHandler{service: service, seating: seating}
}

func (h *TableHandler) Register(router *gin.RouterGroup) {
	router.POST("", h.create)
	router.GET("", h.list)
	router.GET("/:table_id", h.get)
	router.PUT("/:table_id", h.update)
	router.PUT("/:table_id/seat", h.seat)
	router.DELETE("/:table_id/seat", h.finish)
}

func (h *TableHandler) create(c *gin.Context) {
	payload, err := readPayload(c)
	if err != nil {
		writeError(c, err)
		return
	}

	table, err := h.service.Create(c.Request.Context(), payload)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusCreated, toTableResponse(table))
}

func (h *TableHandler) list(c *gin.Context) {
	found, err := h.service.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]tableResponse, 0, len(found))
	for i := range found {
		out = append(out, toTableResponse(&found[i]))
	}
	respond(c, http.StatusOK, out)
}

func (h *TableHandler) get(c *gin.Context) {
	id, err := pathID(c, "table_id")
	if err != nil {
		writeError(c, err)
		return
	}

	table, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, toTableResponse(table))
}

func (h *TableHandler) update(c *gin.Context) {
	id, err := pathID(c, "table_id")
	if err != nil {
		writeError(c, err)
		return
	}
	payload, err := readPayload(c)
	if err != nil {
		writeError(c, err)
		return
	}

	table, err := h.service.Update(c.Request.Context(), id, payload)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, toTableResponse(table))
}

func (h *TableHandler) seat(c *gin.Context) {
	id, err := pathID(c, "table_id")
	if err != nil {
		writeError(c, err)
		return
	}
	payload, err := readPayload(c)
	if err != nil {
		writeError(c, err)
		return
	}

	table, err := h.seating.Seat(c.Request.Context(), id, payload)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, toTableResponse(table))
}

func (h *TableHandler) finish(c *gin.Context) {
	id, err := pathID(c, "table_id")
	if err != nil {
		writeError(c, err)
		return
	}

	table, err := h.seating.Finish(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, toTableResponse(table))
}
