package api

import (
	"errors"
	"net/http"
	"testing"

	"helios_miniapp/internal/model"
	"helios_miniapp/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestAirdropRoutes_GrantTaskReward(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMock      func(as *mockAirdropService)
		expectedStatus int
		expectedBody   map[string]interface{}
	}{
		{
			name: "Granted",
			body: `{"taskPoints":100}`,
			setupMock: func(as *mockAirdropService) {
				as.On("GrantTaskReward", mock.Anything, int64(100), "follow_x", float64(100)).Return(float64(350), nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody: map[string]interface{}{
				"message":          "Airdrops updated successfully and task marked as completed.",
				"newAirdropsTotal": 350.0,
			},
		},
		{
			name:           "Missing points",
			body:           `{}`,
			setupMock:      func(*mockAirdropService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   map[string]interface{}{"message": "Invalid task points provided."},
		},
		{
			name:           "Points not a number",
			body:           `{"taskPoints":"lots"}`,
			setupMock:      func(*mockAirdropService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   map[string]interface{}{"message": "Invalid task points provided."},
		},
		{
			name: "Zero points",
			body: `{"taskPoints":0}`,
			setupMock: func(as *mockAirdropService) {
				as.On("GrantTaskReward", mock.Anything, int64(100), "follow_x", float64(0)).Return(float64(0), service.ErrInvalidInput)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   map[string]interface{}{"message": "Invalid task points provided."},
		},
		{
			name: "Unknown user",
			body: `{"taskPoints":10}`,
			setupMock: func(as *mockAirdropService) {
				as.On("GrantTaskReward", mock.Anything, int64(100), "follow_x", float64(10)).Return(float64(0), service.ErrUserNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   map[string]interface{}{"message": "User not found."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			as := &mockAirdropService{}
			tt.setupMock(as)
			router := newTestRouter(func(h *gin.RouterGroup) { NewAirdropRoutes(h, as, openAccess) })

			w := doRequest(router, http.MethodPost, "/api/airdrops/increase/100/follow_x", tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedBody, decodeObject(t, w))
			as.AssertExpectations(t)
		})
	}
}

func TestAirdropRoutes_Reads(t *testing.T) {
	as := &mockAirdropService{}
	as.On("ListAirdrops", mock.Anything, int64(100)).Return([]*model.Airdrop{{ID: 1, TelegramID: 100, Value: 2.5}}, nil)
	as.On("ClaimCount", mock.Anything, int64(100)).Return(3, nil)
	as.On("ClaimCount", mock.Anything, int64(404)).Return(0, service.ErrUserNotFound)
	as.On("SumAirdrops", mock.Anything, int64(100)).Return(12.5, nil)
	as.On("SumAndPersist", mock.Anything, int64(100)).Return(&model.AirdropSum{TotalValue: 12.5, NewTotalAirdrops: 112.5}, nil)
	as.On("GetTotalAirdrops", mock.Anything, int64(100)).Return(112.5, nil)
	as.On("GetTotalAirdrops", mock.Anything, int64(500)).Return(float64(0), errors.New("connection refused"))
	as.On("ResetAirdrops", mock.Anything, int64(100)).Return(nil)
	router := newTestRouter(func(h *gin.RouterGroup) { NewAirdropRoutes(h, as, openAccess) })

	w := doRequest(router, http.MethodGet, "/api/airdrops/100", "")
	assert.Equal(t, http.StatusOK, w.Code)
	list := decodeArray(t, w)
	assert.Len(t, list, 1)
	assert.Equal(t, 2.5, list[0]["value"])

	w = doRequest(router, http.MethodGet, "/api/airdrops/count/100", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3.0, decodeObject(t, w)["count"])

	w = doRequest(router, http.MethodGet, "/api/airdrops/count/404", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(router, http.MethodGet, "/api/airdrops/sum/100", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 12.5, decodeObject(t, w)["totalValue"])

	w = doRequest(router, http.MethodGet, "/api/airdrops/sum/update/100", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]interface{}{"totalValue": 12.5, "newTotalAirdrops": 112.5}, decodeObject(t, w))

	w = doRequest(router, http.MethodGet, "/api/airdrops/total/100", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 112.5, decodeObject(t, w)["totalAirdrops"])

	w = doRequest(router, http.MethodGet, "/api/airdrops/total/500", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal server error", decodeObject(t, w)["message"])

	w = doRequest(router, http.MethodDelete, "/api/airdrops/delete/100", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "All airdrops deleted and counts reset successfully", decodeObject(t, w)["message"])

	as.AssertExpectations(t)
}
