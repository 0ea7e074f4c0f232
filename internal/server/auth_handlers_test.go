package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"filmrate/internal/auth"
	"filmrate/internal/config"
	"filmrate/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testSecret = "handler-test-secret"

func testConfig() *config.Config {
	return &config.Config{SecretKey: testSecret, Env: "test"}
}

func jsonRequest(method, target string, body any) *http.Request {
	b, _ := json.Marshal(body)
	req := httptest.NewRequest(method, target, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var body map[string]any
	decodeInto(t, resp, &body)
	return body
}

func decodeInto(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, out))
}

func TestRegister(t *testing.T) {
	tests := []struct {
		name           string
		body           map[string]string
		mockSetup      func(repo *MockUserRepository)
		expectedStatus int
	}{
		{
			name: "Success",
			body: map[string]string{"username": "alice", "password": "secret123"},
			mockSetup: func(repo *MockUserRepository) {
				repo.On("GetByUsername", mock.Anything, "alice").Return(nil, nil)
				repo.On("Create", mock.Anything, "alice", mock.Anything, "alice", "alice@placeholder.com").
					Return(&models.User{ID: 1, Username: "alice", DisplayName: "alice"}, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "Explicit display name and email",
			body: map[string]string{
				"username": "bob", "password": "secret123",
				"display_name": "Bob Smith", "email": "bob@example.com",
			},
			mockSetup: func(repo *MockUserRepository) {
				repo.On("GetByUsername", mock.Anything, "bob").Return(nil, nil)
				repo.On("Create", mock.Anything, "bob", mock.Anything, "Bob Smith", "bob@example.com").
					Return(&models.User{ID: 2, Username: "bob", DisplayName: "Bob Smith"}, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "Duplicate username",
			body: map[string]string{"username": "taken", "password": "secret123"},
			mockSetup: func(repo *MockUserRepository) {
				repo.On("GetByUsername", mock.Anything, "taken").Return(&models.User{ID: 3}, nil)
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Username too short",
			body:           map[string]string{"username": "ab", "password": "secret123"},
			mockSetup:      func(repo *MockUserRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Password too short",
			body:           map[string]string{"username": "alice", "password": "no"},
			mockSetup:      func(repo *MockUserRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			mockRepo := new(MockUserRepository)
			tt.mockSetup(mockRepo)

			s := &Server{config: testConfig(), userRepo: mockRepo}
			app.Post("/auth/register", s.Register)

			resp, err := app.Test(jsonRequest(http.MethodPost, "/auth/register", tt.body))
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.expectedStatus == http.StatusCreated {
				body := decodeBody(t, resp)
				token, _ := body["access_token"].(string)
				require.NotEmpty(t, token)
				_, ok := auth.CheckToken(testSecret, token)
				assert.True(t, ok, "issued token must validate")
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestLogin(t *testing.T) {
	hashed, err := auth.HashPassword("secret123")
	require.NoError(t, err)
	stored := &models.User{ID: 1, Username: "alice", DisplayName: "Alice", HashedPassword: hashed}

	tests := []struct {
		name           string
		body           map[string]string
		mockSetup      func(repo *MockUserRepository)
		expectedStatus int
	}{
		{
			name: "Success",
			body: map[string]string{"username": "alice", "password": "secret123"},
			mockSetup: func(repo *MockUserRepository) {
				u := *stored
				repo.On("GetByUsername", mock.Anything, "alice").Return(&u, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "Unknown user",
			body: map[string]string{"username": "ghost", "password": "secret123"},
			mockSetup: func(repo *MockUserRepository) {
				repo.On("GetByUsername", mock.Anything, "ghost").Return(nil, nil)
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "Wrong password",
			body: map[string]string{"username": "alice", "password": "wrong"},
			mockSetup: func(repo *MockUserRepository) {
				u := *stored
				repo.On("GetByUsername", mock.Anything, "alice").Return(&u, nil)
			},
			expectedStatus: http.StatusUnauthorized,
		},
	}

	var failureShapes []map[string]any
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			mockRepo := new(MockUserRepository)
			tt.mockSetup(mockRepo)

			s := &Server{config: testConfig(), userRepo: mockRepo}
			app.Post("/auth/login", s.Login)

			resp, err := app.Test(jsonRequest(http.MethodPost, "/auth/login", tt.body))
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			body := decodeBody(t, resp)
			if tt.expectedStatus == http.StatusOK {
				assert.NotEmpty(t, body["access_token"])
				user := body["user"].(map[string]any)
				assert.Equal(t, "alice", user["username"])
				_, leaked := user["hashed_password"]
				assert.False(t, leaked)
			} else {
				failureShapes = append(failureShapes, body)
			}
		})
	}

	// Unknown-user and wrong-password failures are indistinguishable.
	require.Len(t, failureShapes, 2)
	assert.Equal(t, failureShapes[0], failureShapes[1])
}

func TestAuthRequired(t *testing.T) {
	validToken := auth.IssueToken(testSecret, 1)

	tests := []struct {
		name           string
		header         string
		mockSetup      func(repo *MockUserRepository)
		expectedStatus int
	}{
		{
			name:           "Missing header",
			header:         "",
			mockSetup:      func(repo *MockUserRepository) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Not bearer",
			header:         "Basic abc",
			mockSetup:      func(repo *MockUserRepository) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Garbage token",
			header:         "Bearer not-a-token",
			mockSetup:      func(repo *MockUserRepository) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:   "Token for deleted user",
			header: "Bearer " + validToken,
			mockSetup: func(repo *MockUserRepository) {
				repo.On("GetByID", mock.Anything, int64(1)).Return(nil, nil)
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:   "Valid",
			header: "Bearer " + validToken,
			mockSetup: func(repo *MockUserRepository) {
				repo.On("GetByID", mock.Anything, int64(1)).
					Return(&models.User{ID: 1, Username: "alice"}, nil)
			},
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			mockRepo := new(MockUserRepository)
			tt.mockSetup(mockRepo)

			s := &Server{config: testConfig(), userRepo: mockRepo}
			app.Get("/me", s.AuthRequired(), s.Me)

			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}

func TestUpdateProfile(t *testing.T) {
	app := fiber.New()
	mockRepo := new(MockUserRepository)
	mockRepo.On("GetByID", mock.Anything, int64(1)).
		Return(&models.User{ID: 1, Username: "alice"}, nil)
	mockRepo.On("UpdateDisplayName", mock.Anything, int64(1), "New Name").Return(nil)

	s := &Server{config: testConfig(), userRepo: mockRepo}
	app.Post("/auth/update_profile", s.AuthRequired(), s.UpdateProfile)

	req := jsonRequest(http.MethodPost, "/auth/update_profile", map[string]string{"display_name": "New Name"})
	req.Header.Set("Authorization", "Bearer "+auth.IssueToken(testSecret, 1))

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "New Name", body["display_name"])
	mockRepo.AssertExpectations(t)
}
