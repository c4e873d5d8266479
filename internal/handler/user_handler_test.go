package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"backoffice/internal/handler"
	"backoffice/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func setupUserTest() (*gin.Engine, *MockUserRepository) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	repo := new(MockUserRepository)
	h := handler.NewUserHandler(repo)
	r.GET("/users", h.GetUsers)
	r.GET("/users/:id", h.GetByID)

	return r, repo
}

func TestGetUsers_All(t *testing.T) {
	// Arrange
	router, repo := setupUserTest()
	repo.On("GetAll", mock.Anything).Return(directoryUsers(), nil)

	// Act
	req, _ := http.NewRequest("GET", "/users", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)

	var response []handler.UserResponse
	assert.NoError(t, json.Unmarshal(resp.Body.Bytes(), &response))
	assert.Len(t, response, 2)
	assert.Equal(t, "anna@example.com", response[0].Email)
	repo.AssertNotCalled(t, "SearchByName", mock.Anything, mock.Anything)
}

func TestGetUsers_SearchByName(t *testing.T) {
	// Arrange
	router, repo := setupUserTest()
	repo.On("SearchByName", mock.Anything, "ann").
		Return([]model.User{{ID: 1, Name: "Anna", Email: "anna@example.com"}}, nil)

	// Act
	req, _ := http.NewRequest("GET", "/users?name=ann", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)

	var response []handler.UserResponse
	assert.NoError(t, json.Unmarshal(resp.Body.Bytes(), &response))
	assert.Len(t, response, 1)
	assert.Equal(t, "Anna", response[0].Name)
	repo.AssertExpectations(t)
}

func TestGetUserByID_Found(t *testing.T) {
	// Arrange
	router, repo := setupUserTest()
	repo.On("GetByID", mock.Anything, uint(1)).
		Return(&model.User{ID: 1, Name: "Anna", Email: "anna@example.com"}, nil)

	// Act
	req, _ := http.NewRequest("GET", "/users/1", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)

	var response handler.UserResponse
	assert.NoError(t, json.Unmarshal(resp.Body.Bytes(), &response))
	assert.Equal(t, "anna@example.com", response.Email)
	repo.AssertExpectations(t)
}

func TestGetUserByID_NotFound(t *testing.T) {
	// Arrange
	router, repo := setupUserTest()
	repo.On("GetByID", mock.Anything, uint(99)).Return(nil, nil)

	// Act
	req, _ := http.NewRequest("GET", "/users/99", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusNotFound, resp.Code)
}
