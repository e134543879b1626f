package api

import (
	"net/http"

	"github.com/Domenick1991/periodic-tables/internal/domain"
	"github.com/Domenick1991/periodic-tables/internal/service/reservations"
	"github.com/Domenick1991/periodic-tables/internal/service/seating"
	"github.com/gin-gonic/gin"
)

type ReservationHandler struct {
	service reservations.ReservationUseCase
	seating seating.SeatingUseCase
}

func NewReservationHandler(service reservations.ReservationUseCase, seating seating.SeatingUseCase) *ReservationHandler {
	return &ReservationHandler{service: service, seating: seating}
}

func (h *ReservationHandler) Register(router *gin.RouterGroup) {
	router.POST("", h.create)
	router.GET("", h.list)
	router.GET("/:reservation_id", h.get)
	router.PUT("/:reservation_id", h.update)
	router.PUT("/:reservation_id/status", h.updateStatus)
}

func (h *ReservationHandler) create(c *gin.Context) {
	payload, err := readPayload(c)
	if err != nil {
		writeError(c, err)
		return
	}

	reservation, err := h.service.Create(c.Request.Context(), payload)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusCreated, toReservationResponse(reservation))
}

// list searches by phone number when mobile_number is given, otherwise lists
// the open reservations for date (today by default).
func (h *ReservationHandler) list(c *gin.Context) {
	var (
		found []domain.Reservation
		err   error
	)
	if mobile := c.Query("mobile_number"); mobile != "" {
		found, err = h.service.Search(c.Request.Context(), mobile)
	} else {
		found, err = h.service.List(c.Request.Context(), c.Query("date"))
	}
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]reservationResponse, 0, len(found))
	for i := range found {
		out = append(out, toReservationResponse(&found[i]))
	}
	respond(c, http.StatusOK, out)
}

func (h *ReservationHandler) get(c *gin.Context) {
	id, err := pathID(c, "reservation_id")
	if err != nil {
		writeError(c, err)
		return
	}

	reservation, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, toReservationResponse(reservation))
}

func (h *ReservationHandler) update(c *gin.Context) {
	id, err := pathID(c, "reservation_id")
	if err != nil {
		writeError(c, err)
		return
	}
	payload, err := readPayload(c)
	if err != nil {
		writeError(c, err)
		return
	}

	reservation, err := h.service.Update(c.Request.Context(), id, payload)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, toReservationResponse(reservation))
}

func (h *ReservationHandler) updateStatus(c *gin.Context) {
	id, err := pathID(c, "reservation_id")
	if err != nil {
		writeError(c, err)
		return
	}
	payload, err := readPayload(c)
	if err != nil {
		writeError(c, err)
		return
	}

	reservation, err := h.seating.ChangeStatus(c.Request.Context(), id, payload)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, http.StatusOK, toReservationResponse(reservation))
}
