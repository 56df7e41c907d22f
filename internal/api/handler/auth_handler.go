package handler

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/seismo-watch/seismic-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type registerResponse struct {
	Message string       `json:"message"`
	User    userResponse `json:"user"`
}

// Register creates a visitor account from a multipart form.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       mpfd
// @Produce      json
// @Param        first_name     formData  string  true   "First name"
// @Param        last_name      formData  string  true   "Last name"
// @Param        email          formData  string  true   "Email"
// @Param        password       formData  string  true   "Password"
// @Param        phone          formData  string  false  "Phone"
// @Param        date_of_birth  formData  string  false  "Date of birth (YYYY-MM-DD)"
// @Param        photo          formData  file    false  "Profile photo (png, jpg, jpeg, gif)"
// @Success      201  {object}  registerResponse
// @Failure      400  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	dob, err := optionalDate("date_of_birth", req.DateOfBirth)
	if err != nil {
		return err
	}
	photo, closePhoto, err := formPhoto(c)
	if err != nil {
		return err
	}
	defer closePhoto()

	user, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Password:    req.Password,
		Phone:       optionalString(req.Phone),
		DateOfBirth: dob,
		Photo:       photo,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, registerResponse{
		Message: "User registered successfully",
		User:    toUserResponse(user),
	})
}

// Login authenticates a user and returns a bearer token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, loginResponse{AccessToken: token, User: toUserResponse(user)})
}

// Profile returns the caller's own account.
//
// @Summary      Get own profile
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/auth/profile [get]
func (h *AuthHandler) Profile(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	user, err := h.authService.Profile(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// UpdateProfile applies a partial update to the caller's own account.
//
// @Summary      Update own profile
// @Tags         auth
// @Accept       mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        first_name        formData  string  false  "First name"
// @Param        last_name         formData  string  false  "Last name"
// @Param        phone             formData  string  false  "Phone"
// @Param        date_of_birth     formData  string  false  "Date of birth (YYYY-MM-DD)"
// @Param        current_password  formData  string  false  "Required when changing the password"
// @Param        new_password      formData  string  false  "New password"
// @Param        photo             formData  file    false  "Replacement photo"
// @Success      200  {object}  userResponse
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/auth/profile [put]
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	dob, err := optionalFormDate(c, "date_of_birth")
	if err != nil {
		return err
	}
	photo, closePhoto, err := formPhoto(c)
	if err != nil {
		return err
	}
	defer closePhoto()

	user, err := h.authService.UpdateProfile(c.Request().Context(), ports.UpdateProfileInput{
		UserID:          userID,
		FirstName:       c.FormValue("first_name"),
		LastName:        c.FormValue("last_name"),
		Phone:           optionalFormString(c, "phone"),
		DateOfBirth:     dob,
		CurrentPassword: c.FormValue("current_password"),
		NewPassword:     c.FormValue("new_password"),
		Photo:           photo,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

func optionalFormString(c echo.Context, name string) *string {
	return optionalString(c.FormValue(name))
}

func optionalString(raw string) *string {
	v := strings.TrimSpace(raw)
	if v == "" {
		return nil
	}
	return &v
}

func optionalFormDate(c echo.Context, name string) (*time.Time, error) {
	return optionalDate(name, c.FormValue(name))
}

func optionalDate(name, raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	return parseFormDate(name, raw)
}

// formPhoto opens the optional "photo" part. The returned func closes it and
// is safe to call when no photo was sent.
func formPhoto(c echo.Context) (*ports.PhotoUpload, func(), error) {
	noop := func() {}
	fh, err := c.FormFile("photo")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, noop, nil
		}
		return nil, noop, echo.NewHTTPError(http.StatusBadRequest, "invalid photo upload")
	}
	if fh.Filename == "" {
		return nil, noop, nil
	}
	f, err := fh.Open()
	if err != nil {
		return nil, noop, echo.NewHTTPError(http.StatusBadRequest, "invalid photo upload")
	}
	return &ports.PhotoUpload{Filename: fh.Filename, Content: f}, closer(f), nil
}

func closer(f multipart.File) func() {
	return func() { _ = f.Close() }
}
