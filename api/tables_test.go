package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Domenick1991/periodic-tables/internal/domain"
	"github.com/Domenick1991/periodic-tables/internal/validation"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestTableHandler_create(t *testing.T) {
	mockService := &MockTableUseCase{}
	handler := NewTableHandler(mockService, &MockSeatingUseCase{})

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/tables", strings.NewReader(`{"data":{"table_name":"Bar #1","capacity":1}}`))

	payload := validation.Payload{"table_name": "Bar #1", "capacity": json.Number("1")}
	mockService.On("Create", c.Request.Context(), payload).Return(&domain.Table{ID: 4, Name: "Bar #1", Capacity: 1}, nil)

	handler.create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"data":{"table_id":4,"table_name":"Bar #1","capacity":1,"reservation_id":null}}`, w.Body.String())
	mockService.AssertExpectations(t)
}

func TestTableHandler_list(t *testing.T) {
	mockService := &MockTableUseCase{}
	handler := NewTableHandler(mockService, &MockSeatingUseCase{})

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/tables", nil)

	resID := int64(7)
	mockService.On("List", c.Request.Context()).Return([]domain.Table{
		{ID: 1, Name: "#1", Capacity: 6, ReservationID: &resID},
		{ID: 2, Name: "Bar #1", Capacity: 1},
	}, nil)

	handler.list(c)

	assert.Equal(t, http.StatusOK, w.Code)
	response := decode[[]tableResponse](t, w)
	require.Len(t, response.Data, 2)
	require.NotNil(t, response.Data[0].ReservationID)
	assert.Equal(t, int64(7), *response.Data[0].ReservationID)
	assert.Nil(t, response.Data[1].ReservationID)
}

func TestTableHandler_update(t *testing.T) {
	mockService := &MockTableUseCase{}
	handler := NewTableHandler(mockService, &MockSeatingUseCase{})

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "table_id", Value: "2"}}
	c.Request = httptest.NewRequest(http.MethodPut, "/tables/2", strings.NewReader(`{"data":{"table_name":"A","capacity":2}}`))

	payload := validation.Payload{"table_name": "A", "capacity": json.Number("2")}
	mockService.On("Update", c.Request.Context(), int64(2), payload).
		Return(nil, domain.NewValidationError(domain.ErrTooShort, "table_name", "table_name must be at least 2 characters long"))

	handler.update(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertExpectations(t)
}

func TestTableHandler_seat(t *testing.T) {
	mockSeating := &MockSeatingUseCase{}
	handler := NewTableHandler(&MockTableUseCase{}, mockSeating)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "table_id", Value: "1"}}
	c.Request = httptest.NewRequest(http.MethodPut, "/tables/1/seat", strings.NewReader(`{"data":{"reservation_id":3}}`))

	resID := int64(3)
	payload := validation.Payload{"reservation_id": json.Number("3")}
	mockSeating.On("Seat", c.Request.Context(), int64(1), payload).
		Return(&domain.Table{ID: 1, Name: "#1", Capacity: 6, ReservationID: &resID}, nil)

	handler.seat(c)

	assert.Equal(t, http.StatusOK, w.Code)
	response := decode[tableResponse](t, w)
	require.NotNil(t, response.Data.ReservationID)
	assert.Equal(t, int64(3), *response.Data.ReservationID)
}

func TestTableHandler_seatConflicts(t *testing.T) {
	for _, kind := range []error{
		domain.ErrConflictAlreadyOccupied,
		domain.ErrConflictNotBooked,
		domain.ErrInsufficientCapacity,
	} {
		mockSeating := &MockSeatingUseCase{}
		handler := NewTableHandler(&MockTableUseCase{}, mockSeating)

		gin.SetMode(gin.TestMode)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Params = gin.Params{{Key: "table_id", Value: "1"}}
		c.Request = httptest.NewRequest(http.MethodPut, "/tables/1/seat", strings.NewReader(`{"data":{"reservation_id":3}}`))

		mockSeating.On("Seat", c.Request.Context(), int64(1), mock.Anything).Return(nil, fmt.Errorf("table 1: %w", kind))

		handler.seat(c)

		assert.Equal(t, http.StatusBadRequest, w.Code, kind.Error())
	}
}

func TestTableHandler_finish(t *testing.T) {
	mockSeating := &MockSeatingUseCase{}
	handler := NewTableHandler(&MockTableUseCase{}, mockSeating)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "table_id", Value: "1"}}
	c.Request = httptest.NewRequest(http.MethodDelete, "/tables/1/seat", nil)

	mockSeating.On("Finish", c.Request.Context(), int64(1)).Return(&domain.Table{ID: 1, Name: "#1", Capacity: 6}, nil)

	handler.finish(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, decode[tableResponse](t, w).Data.ReservationID)
}

func TestTableHandler_finishNotOccupied(t *testing.T) {
	mockSeating := &MockSeatingUseCase{}
	handler := NewTableHandler(&MockTableUseCase{}, mockSeating)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "table_id", Value: "1"}}
	c.Request = httptest.NewRequest(http.MethodDelete, "/tables/1/seat", nil)

	mockSeating.On("Finish", c.Request.Context(), int64(1)).Return(nil, fmt.Errorf("table 1: %w", domain.ErrConflictNotOccupied))

	handler.finish(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "table 1: table is not occupied", decode[any](t, w).Error)
}
