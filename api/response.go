package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/Domenick1991/periodic-tables/internal/domain"
	"github.com/Domenick1991/periodic-tables/internal/validation"
	"github.com/gin-gonic/gin"
)

type reservationResponse struct {
	ReservationID   int64  `json:"reservation_id"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	MobileNumber    string `json:"mobile_number"`
	People          int    `json:"people"`
	ReservationDate string `json:"reservation_date"`
	ReservationTime string `json:"reservation_time"`
	Status          string `json:"status"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
}

type tableResponse struct {
	TableID       int64  `json:"table_id"`
	TableName     string `json:"table_name"`
	Capacity      int    `json:"capacity"`
	ReservationID *int64 `json:"reservation_id"`
}

func toReservationResponse(r *domain.Reservation) reservationResponse {
	return reservationResponse{
		ReservationID:   r.ID,
		FirstName:       r.FirstName,
		LastName:        r.LastName,
		MobileNumber:    r.MobileNumber,
		People:          r.People,
		ReservationDate: r.ReservationDate,
		ReservationTime: r.ReservationTime,
		Status:          string(r.Status),
		CreatedAt:       r.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:       r.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func toTableResponse(t *domain.Table) tableResponse {
	return tableResponse{
		TableID:       t.ID,
		TableName:     t.Name,
		Capacity:      t.Capacity,
		ReservationID: t.ReservationID,
	}
}

// readPayload decodes a {"data": {...}} body. Numbers stay json.Number so the
// validators can tell 2 from 2.5 and "2". An empty body yields an empty payload.
func readPayload(c *gin.Context) (validation.Payload, error) {
	var body struct {
		Data validation.Payload `json:"data"`
	}
	dec := json.NewDecoder(c.Request.Body)
	dec.UseNumber()
	if err := dec.Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		return nil, domain.NewValidationError(domain.ErrInvalidFormat, "data",
			fmt.Sprintf("request body must be a JSON object with a data object: %v", err))
	}
	if body.Data == nil {
		body.Data = validation.Payload{}
	}
	return body.Data, nil
}

func pathID(c *gin.Context, name string) (int64, error) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError(domain.ErrInvalidFormat, name,
			fmt.Sprintf("%s must be a positive integer: '%s'", name, raw))
	}
	return id, nil
}

func respond(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{"data": data})
}

// writeError maps domain errors to status codes: caller mistakes are 400,
// missing rows 404, everything else 500 with the detail kept in the log.
func writeError(c *gin.Context, err error) {
	switch {
	case domain.IsClientError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		requestLogger(c).WithError(err).Error("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
