package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"finboard/internal/api"
	"finboard/internal/guard"
	"finboard/internal/http/middlewares"
	"finboard/internal/roles"
	"finboard/internal/session"
)

// LoginService is the credential exchange surface, kept small so tests can
// fake it.
type LoginService interface {
	Login(ctx context.Context, email, password string) (*session.Session, error)
}

type AuthHandler struct {
	login LoginService
	codec *session.Codec
	guard *guard.Guard
	log   *slog.Logger
}

func NewAuthHandler(login LoginService, codec *session.Codec, g *guard.Guard, log *slog.Logger) *AuthHandler {
	return &AuthHandler{
		login: login,
		codec: codec,
		guard: g,
		log:   log,
	}
}

type loginForm struct {
	Email       string `form:"email" binding:"required,email"`
	Password    string `form:"password" binding:"required"`
	CallbackURL string `form:"callbackUrl"`
}

// LoginPage renders the login form. The guard has already redirected anyone
// with a session, so this only ever sees anonymous requests.
func (h *AuthHandler) LoginPage(c *gin.Context) {
	data := page(c, "Sign in")
	data["CallbackURL"] = c.Query(guard.CallbackParam)
	data["Email"] = ""

	c.HTML(http.StatusOK, "login", data)
}

// Login exchanges the submitted credentials with the remote API. On success
// the signed session cookie is set and the user lands on the callback path if
// their role may reach it, their role home otherwise. On failure no cookie is
// set and the form re-renders with a message.
func (h *AuthHandler) Login(c *gin.Context) {
	var form loginForm

	if err := c.ShouldBind(&form); err != nil {
		h.renderLoginError(c, http.StatusBadRequest, form, bindMessage(err))
		return
	}

	sess, err := h.login.Login(c.Request.Context(), form.Email, form.Password)

	if err != nil {
		status := http.StatusBadGateway

		if errors.Is(err, api.ErrInvalidCredentials) {
			status = http.StatusUnauthorized
		}

		h.renderLoginError(c, status, form, api.UserMessage(err))
		return
	}

	raw, err := h.codec.Issue(sess)

	if err != nil {
		h.log.Error("session issue failed", "err", err)
		h.renderLoginError(c, http.StatusInternalServerError, form, "something went wrong")
		return
	}

	h.codec.SetCookie(c.Writer, raw)

	c.Redirect(http.StatusFound, h.guard.PostLogin(sess.Role, form.CallbackURL))
}

func bindMessage(err error) string {
	var verrs validator.ValidationErrors

	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if fe.Tag() == "email" {
				return "enter a valid email address"
			}
		}
	}

	return "email and password are required"
}

func (h *AuthHandler) renderLoginError(c *gin.Context, status int, form loginForm, msg string) {
	data := page(c, "Sign in")
	data["Flash"] = msg
	data["CallbackURL"] = form.CallbackURL
	data["Email"] = form.Email

	c.HTML(status, "login", data)
}

// Logout destroys the session artifact and, when a revocation store is
// configured, blacklists the session id.
func (h *AuthHandler) Logout(c *gin.Context) {
	sess := middlewares.SessionFromContext(c)

	if err := h.codec.Logout(c.Request.Context(), c.Writer, sess); err != nil {
		h.log.Warn("session revocation failed", "err", err)
	}

	c.Redirect(http.StatusFound, guard.LoginPath)
}

// SSO is the bridge page for the popup login flow: it accepts the token
// triple as query parameters, establishes the session cookie and renders a
// page that closes the window. A malformed role or missing token falls back
// to the login page.
func (h *AuthHandler) SSO(c *gin.Context) {
	token := c.Query("jwt")
	userID := c.Query("userId")
	roleStr := c.Query("role")
	email := c.Query("email")

	role, err := roles.Parse(roleStr)

	if token == "" || err != nil {
		c.Redirect(http.StatusFound, guard.LoginPath)
		return
	}

	sess := &session.Session{
		UserID: userID,
		Email:  email,
		Role:   role,
		Token:  token,
	}

	raw, err := h.codec.Issue(sess)

	if err != nil {
		h.log.Error("session issue failed", "err", err)
		c.Redirect(http.StatusFound, guard.LoginPath)
		return
	}

	h.codec.SetCookie(c.Writer, raw)

	c.HTML(http.StatusOK, "sso_close", nil)
}
