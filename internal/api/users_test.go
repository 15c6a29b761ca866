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

func TestUserRoutes_RegisterUser(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMock      func(us *mockUserService)
		expectedStatus int
		checkBody      func(t *testing.T, body map[string]interface{})
	}{
		{
			name:           "Telegram ID is a string",
			body:           `{"telegramId":"100","timezone":"UTC"}`,
			setupMock:      func(*mockUserService) {},
			expectedStatus: http.StatusBadRequest,
			checkBody: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, invalidTelegramID, body["error"])
			},
		},
		{
			name:           "Missing timezone",
			body:           `{"telegramId":100}`,
			setupMock:      func(*mockUserService) {},
			expectedStatus: http.StatusBadRequest,
			checkBody: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "Invalid timezone, must be a string", body["error"])
			},
		},
		{
			name: "Registered",
			body: `{"telegramId":100,"telegramUsername":"ann","firstName":"Ann","referralToken":"ref_aaaaaaaaaaaaaaaa","timezone":"UTC"}`,
			setupMock: func(us *mockUserService) {
				us.On("RegisterUser", mock.Anything, service.RegisterUserInput{
					TelegramID:       100,
					TelegramUsername: "ann",
					FirstName:        "Ann",
					ReferralToken:    "ref_aaaaaaaaaaaaaaaa",
					Timezone:         "UTC",
				}).Return(&model.User{TelegramID: 100, ReferralToken: "ref_0123456789abcdef", Timezone: "UTC"}, nil)
			},
			expectedStatus: http.StatusCreated,
			checkBody: func(t *testing.T, body map[string]interface{}) {
				user := body["user"].(map[string]interface{})
				assert.Equal(t, float64(100), user["telegramId"])
				assert.Equal(t, "ref_0123456789abcdef", user["referralToken"])
				assert.Nil(t, user["heliosUsername"])
			},
		},
		{
			name: "Storage failure",
			body: `{"telegramId":100,"timezone":"UTC"}`,
			setupMock: func(us *mockUserService) {
				us.On("RegisterUser", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			us := &mockUserService{}
			tt.setupMock(us)
			router := newTestRouter(func(h *gin.RouterGroup) { NewUserRoutes(h, us, openAccess) })

			w := doRequest(router, http.MethodPost, "/api/user", tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.checkBody != nil {
				tt.checkBody(t, decodeObject(t, w))
			}
			us.AssertExpectations(t)
		})
	}
}

func TestUserRoutes_UserExists(t *testing.T) {
	us := &mockUserService{}
	us.On("UserExists", mock.Anything, int64(100)).Return(true, nil)
	us.On("UserExists", mock.Anything, int64(404)).Return(false, nil)
	router := newTestRouter(func(h *gin.RouterGroup) { NewUserRoutes(h, us, openAccess) })

	w := doRequest(router, http.MethodGet, "/api/user/exists/100", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decodeObject(t, w)["exists"])

	w = doRequest(router, http.MethodGet, "/api/user/exists/404", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	body := decodeObject(t, w)
	assert.Equal(t, false, body["exists"])
	assert.Equal(t, "User not found", body["message"])

	w = doRequest(router, http.MethodGet, "/api/user/exists/abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	us.AssertExpectations(t)
}

func TestUserRoutes_ClaimUsername(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMock      func(us *mockUserService)
		expectedStatus int
		expectedBody   map[string]interface{}
	}{
		{
			name: "Claimed",
			body: `{"telegramId":100,"heliosUsername":"sunny"}`,
			setupMock: func(us *mockUserService) {
				us.On("ClaimUsername", mock.Anything, int64(100), "sunny").Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody: map[string]interface{}{
				"message":        "Username created successfully",
				"heliosUsername": "sunny",
			},
		},
		{
			name: "Taken",
			body: `{"telegramId":100,"heliosUsername":"sunny"}`,
			setupMock: func(us *mockUserService) {
				us.On("ClaimUsername", mock.Anything, int64(100), "sunny").Return(service.ErrUsernameTaken)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   map[string]interface{}{"error": "Username already taken"},
		},
		{
			name:           "Missing handle",
			body:           `{"telegramId":100}`,
			setupMock:      func(*mockUserService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   map[string]interface{}{"error": "Invalid heliosUsername, must be a string"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			us := &mockUserService{}
			tt.setupMock(us)
			router := newTestRouter(func(h *gin.RouterGroup) { NewUserRoutes(h, us, openAccess) })

			w := doRequest(router, http.MethodPost, "/api/username", tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedBody, decodeObject(t, w))
			us.AssertExpectations(t)
		})
	}
}

func TestUserRoutes_Lookups(t *testing.T) {
	handle := "sunny"
	us := &mockUserService{}
	us.On("UsernameAvailable", mock.Anything, "sunny").Return(false, nil)
	us.On("GetReferralToken", mock.Anything, int64(100)).Return("ref_0123456789abcdef", nil)
	us.On("GetReferralToken", mock.Anything, int64(404)).Return("", service.ErrUserNotFound)
	us.On("GetHeliosUsername", mock.Anything, int64(100)).Return(&handle, nil)
	us.On("GetReferrals", mock.Anything, int64(100)).Return([]*model.Referral{
		{ID: 1, ReferrerTelegramID: 100, ReferredUserTelegramID: 101, ReferredUsername: "bob"},
	}, nil)
	router := newTestRouter(func(h *gin.RouterGroup) { NewUserRoutes(h, us, openAccess) })

	w := doRequest(router, http.MethodPost, "/api/check-username", `{"heliosUsername":"sunny"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decodeObject(t, w)["available"])

	w = doRequest(router, http.MethodGet, "/api/user/referral-token/100", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ref_0123456789abcdef", decodeObject(t, w)["referralToken"])

	w = doRequest(router, http.MethodGet, "/api/user/referral-token/404", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(router, http.MethodGet, "/api/user/helios-username/100", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "sunny", decodeObject(t, w)["heliosUsername"])

	w = doRequest(router, http.MethodGet, "/api/user/referrals/100", "")
	assert.Equal(t, http.StatusOK, w.Code)
	refs := decodeArray(t, w)
	assert.Len(t, refs, 1)
	assert.Equal(t, "bob", refs[0]["referredUsername"])

	us.AssertExpectations(t)
}

func TestUserRoutes_SelfOnly(t *testing.T) {
	us := &mockUserService{}
	us.On("GetReferralToken", mock.Anything, int64(100)).Return("ref_0123456789abcdef", nil)
	router := newAuthedRouter(100, func(h *gin.RouterGroup) { NewUserRoutes(h, us, selfAccess) })

	w := doRequest(router, http.MethodGet, "/api/user/referral-token/100", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, http.MethodGet, "/api/user/referral-token/200", "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(router, http.MethodPost, "/api/username", `{"telegramId":200,"heliosUsername":"sunny"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)

	us.AssertExpectations(t)
}

func TestAvatarRoutes(t *testing.T) {
	path := "avatars/3.png"
	us := &mockUserService{}
	us.On("SetAvatar", mock.Anything, int64(100), "avatars/3.png").Return(nil)
	us.On("SetAvatar", mock.Anything, int64(404), "avatars/3.png").Return(service.ErrUserNotFound)
	us.On("GetAvatar", mock.Anything, int64(100)).Return(&path, nil)
	us.On("GetAvatar", mock.Anything, int64(404)).Return(nil, service.ErrUserNotFound)
	router := newTestRouter(func(h *gin.RouterGroup) { NewAvatarRoutes(h, us, openAccess) })

	w := doRequest(router, http.MethodPost, "/api/user/avatar", `{"telegramId":100,"avatarPath":"avatars/3.png"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Avatar updated successfully", decodeObject(t, w)["message"])

	w = doRequest(router, http.MethodPost, "/api/user/avatar", `{"telegramId":404,"avatarPath":"avatars/3.png"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(router, http.MethodPost, "/api/user/avatar", `{"telegramId":100}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(router, http.MethodGet, "/api/user/avatar/100", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "avatars/3.png", decodeObject(t, w)["avatarPath"])

	w = doRequest(router, http.MethodGet, "/api/user/avatar/404", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	us.AssertExpectations(t)
}
