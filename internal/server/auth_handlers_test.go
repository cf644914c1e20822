package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"inkwell/internal/config"
	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepository is a mock of the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func testConfig() *config.Config {
	return &config.Config{
		AppName:         "Inkwell",
		Env:             "test",
		JWTSecret:       "test_secret",
		ClientURL:       "http://localhost:3000",
		UploadMaxSizeMB: 10,
	}
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}

func TestSignup(t *testing.T) {
	app := fiber.New()
	mockRepo := new(MockUserRepository)

	s := &Server{
		config:   testConfig(),
		userRepo: mockRepo,
	}

	app.Post("/signup", s.Signup)

	tests := []struct {
		name           string
		body           map[string]string
		mockSetup      func()
		expectedStatus int
	}{
		{
			name: "Success",
			body: map[string]string{
				"name":     "Test User",
				"email":    "test@example.com",
				"password": "secret1",
			},
			mockSetup: func() {
				mockRepo.On("GetByEmail", mock.Anything, "test@example.com").Return(nil, nil)
				mockRepo.On("GetByUsername", mock.Anything, mock.Anything).Return(nil, nil)
				mockRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "Duplicate Email",
			body: map[string]string{
				"name":     "Test User",
				"email":    "exists@example.com",
				"password": "secret1",
			},
			mockSetup: func() {
				mockRepo.On("GetByEmail", mock.Anything, "exists@example.com").Return(&models.User{ID: 1}, nil)
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name: "Missing Name",
			body: map[string]string{
				"email":    "test2@example.com",
				"password": "secret1",
			},
			mockSetup:      func() {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Invalid Email",
			body: map[string]string{
				"name":     "Test User",
				"email":    "not-an-email",
				"password": "secret1",
			},
			mockSetup:      func() {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Short Password",
			body: map[string]string{
				"name":     "Test User",
				"email":    "test3@example.com",
				"password": "abc",
			},
			mockSetup:      func() {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			body, _ := json.Marshal(tt.body)
			req := httptest.NewRequest(http.MethodPost, "/signup", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")

			resp, _ := app.Test(req)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.expectedStatus == http.StatusCreated {
				assert.Equal(t, "Signup success! Please signin.", decodeBody(t, resp)["message"])
			}
		})
	}
}

func TestSignup_GeneratesUsernameAndProfile(t *testing.T) {
	app := fiber.New()
	mockRepo := new(MockUserRepository)

	var created *models.User
	mockRepo.On("GetByEmail", mock.Anything, "new@example.com").Return(nil, nil)
	mockRepo.On("GetByUsername", mock.Anything, mock.Anything).Return(nil, nil)
	mockRepo.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		created = args.Get(1).(*models.User)
	}).Return(nil)

	s := &Server{config: testConfig(), userRepo: mockRepo}
	app.Post("/signup", s.Signup)

	body, _ := json.Marshal(map[string]string{
		"name":     "New User",
		"email":    "new@example.com",
		"password": "secret1",
	})
	req := httptest.NewRequest(http.MethodPost, "/signup", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, _ := app.Test(req)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	require.NotNil(t, created)
	assert.Len(t, created.Username, 8)
	assert.Equal(t, "http://localhost:3000/profile/"+created.Username, created.ProfileURL)
	assert.Equal(t, models.RoleStandard, created.Role)
	assert.NotEqual(t, "secret1", created.Password, "password must be hashed")
}

func TestSignin(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.DefaultCost)
	require.NoError(t, err)
	storedUser := &models.User{
		ID:       1,
		Name:     "Test User",
		Email:    "test@example.com",
		Password: string(hashed),
		Username: "abcd1234",
	}

	app := fiber.New()
	mockRepo := new(MockUserRepository)
	mockRepo.On("GetByEmail", mock.Anything, "test@example.com").Return(storedUser, nil)
	mockRepo.On("GetByEmail", mock.Anything, "unknown@example.com").Return(nil, nil)

	s := &Server{config: testConfig(), userRepo: mockRepo}
	app.Post("/signin", s.Signin)

	t.Run("success returns token cookie and user summary", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{
			"email":    "test@example.com",
			"password": "secret1",
		})
		req := httptest.NewRequest(http.MethodPost, "/signin", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, _ := app.Test(req)
		defer func() { _ = resp.Body.Close() }()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		parsed := decodeBody(t, resp)
		assert.NotEmpty(t, parsed["token"])
		user, ok := parsed["user"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "abcd1234", user["username"])
		_, hasPassword := user["password"]
		assert.False(t, hasPassword)

		var tokenCookie *http.Cookie
		for _, cookie := range resp.Cookies() {
			if cookie.Name == "token" {
				tokenCookie = cookie
			}
		}
		require.NotNil(t, tokenCookie, "expected a token cookie")
		assert.True(t, tokenCookie.HttpOnly)
		assert.NotEmpty(t, tokenCookie.Value)
	})

	t.Run("unknown email", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{
			"email":    "unknown@example.com",
			"password": "secret1",
		})
		req := httptest.NewRequest(http.MethodPost, "/signin", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, _ := app.Test(req)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "User with that email does not exist. Please signup.",
			decodeBody(t, resp)["error"])
	})

	t.Run("wrong password", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{
			"email":    "test@example.com",
			"password": "wrongpw",
		})
		req := httptest.NewRequest(http.MethodPost, "/signin", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, _ := app.Test(req)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "Email and password do not match.",
			decodeBody(t, resp)["error"])
	})
}

func TestSignout(t *testing.T) {
	app := fiber.New()
	s := &Server{config: testConfig()}
	app.Post("/signout", s.Signout)

	req := httptest.NewRequest(http.MethodPost, "/signout", nil)
	resp, _ := app.Test(req)
	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Signout success.", decodeBody(t, resp)["message"])

	var tokenCookie *http.Cookie
	for _, cookie := range resp.Cookies() {
		if cookie.Name == "token" {
			tokenCookie = cookie
		}
	}
	require.NotNil(t, tokenCookie, "expected the token cookie to be cleared")
	assert.Empty(t, tokenCookie.Value)
}
