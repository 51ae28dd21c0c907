package identity

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clinicbase/clinicbase/internal/platform/apperr"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the unauthenticated auth endpoints.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/auth/register", h.Register)
	api.POST("/auth/login", h.Login)
}

type authResponse struct {
	Message string      `json:"message"`
	Token   string      `json:"token"`
	User    interface{} `json:"user"`
}

func (h *Handler) Register(c echo.Context) error {
	var in RegisterInput
	if err := c.Bind(&in); err != nil {
		return apperr.New(apperr.Validation, "Invalid request body")
	}

	user, token, err := h.svc.Register(in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, authResponse{
		Message: "User registered successfully",
		Token:   token,
		User:    user,
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) Login(c echo.Context) error {
	var in loginRequest
	if err := c.Bind(&in); err != nil {
		return apperr.New(apperr.Validation, "Invalid request body")
	}

	user, token, err := h.svc.Login(in.Username, in.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, authResponse{
		Message: "Login successful",
		Token:   token,
		User:    user,
	})
}
