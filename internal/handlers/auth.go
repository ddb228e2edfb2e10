package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/freee021022/onco/internal/apperr"
	"github.com/freee021022/onco/internal/auth"
	"github.com/freee021022/onco/internal/events"
	"github.com/freee021022/onco/internal/models"
	"github.com/freee021022/onco/internal/storage"
	"github.com/freee021022/onco/internal/types"
	"github.com/freee021022/onco/internal/utils"
)

func (h *Handler) setTokenCookie(ctx *gin.Context, token string, maxAge int) {
	http.SetCookie(ctx.Writer, &http.Cookie{
		Name:     types.TokenCookieName,
		Value:    token,
		Path:     "/",
		Domain:   h.cfg.CookieDomain,
		MaxAge:   maxAge,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteNoneMode,
	})
}

func (h *Handler) startSession(ctx *gin.Context, user *models.User) error {
	token, err := h.issuer.Generate(user.ID, user.Username)
	if err != nil {
		return err
	}

	h.setTokenCookie(ctx, token, int(h.issuer.TTL().Seconds()))
	return nil
}

// ensureAvailable fails with a conflict if lookup finds an existing user.
func ensureAvailable(lookup func() (*models.User, error), message string) error {
	_, err := lookup()
	if err == nil {
		return apperr.New(apperr.CodeConflict, message)
	}
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	return err
}

func (h *Handler) Register(ctx *gin.Context) {
	var body types.InsertUser

	if err := bindJSON(ctx, &body, "Invalid user data"); err != nil {
		fail(ctx, err)
		return
	}

	reqCtx := ctx.Request.Context()

	if err := ensureAvailable(func() (*models.User, error) {
		return h.store.GetUserByUsername(reqCtx, body.Username)
	}, "Username already taken"); err != nil {
		fail(ctx, err)
		return
	}

	if err := ensureAvailable(func() (*models.User, error) {
		return h.store.GetUserByEmail(reqCtx, body.Email)
	}, "Email already registered"); err != nil {
		fail(ctx, err)
		return
	}

	passwordHash, err := auth.HashPassword(body.Password)
	if errors.Is(err, auth.ErrPasswordTooLong) {
		// max=72 counts characters; multibyte input can still exceed the byte limit.
		fail(ctx, apperr.Validation("Invalid user data", []apperr.Issue{{
			Path:    []string{"password"},
			Message: "String must contain at most 72 character(s)",
		}}))
		return
	}
	if err != nil {
		fail(ctx, err)
		return
	}

	user := body.Model(passwordHash)
	if err := h.store.CreateUser(reqCtx, &user); err != nil {
		fail(ctx, err)
		return
	}

	if err := h.startSession(ctx, &user); err != nil {
		fail(ctx, err)
		return
	}

	response := types.NewUserResponse(&user)
	h.publish(reqCtx, events.UserRegistered, strconv.FormatUint(uint64(user.ID), 10), response)

	ctx.JSON(http.StatusCreated, response)
}

func (h *Handler) Login(ctx *gin.Context) {
	var body types.LoginRequest

	if err := ctx.ShouldBindJSON(&body); err != nil || body.Username == "" || body.Password == "" {
		badRequest(ctx, "Username and password required")
		return
	}

	user, err := h.store.GetUserByUsername(ctx.Request.Context(), body.Username)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		fail(ctx, err)
		return
	}

	hash := ""
	if user != nil {
		hash = user.Password
	}

	if !auth.CheckPassword(hash, body.Password) {
		unauthorized(ctx, "Invalid credentials")
		return
	}

	if err := h.startSession(ctx, user); err != nil {
		fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, types.NewUserResponse(user))
}

func (h *Handler) Logout(ctx *gin.Context) {
	h.setTokenCookie(ctx, "", -1)

	ctx.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func (h *Handler) Me(ctx *gin.Context) {
	user, err := utils.GetCurrentUser(ctx)

	if err != nil {
		unauthorized(ctx, "User not authenticated")
		return
	}

	ctx.JSON(http.StatusOK, types.NewUserResponse(user))
}
