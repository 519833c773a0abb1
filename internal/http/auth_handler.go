package web

import (
	"net/http"
	"strings"

	"poll-maker/internal/domain/user"
	"poll-maker/internal/platform/apperr"
	"poll-maker/internal/platform/session"
)

type loginForm struct {
	Username string
	Next     string
}

type registerForm struct {
	Username string
	Email    string
}

func (h *Handler) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if sessionState(r).Authenticated() {
		h.redirect(w, r, "/")
		return
	}
	h.render(w, r, http.StatusOK, "login.html", "Login", loginForm{
		Next: safeNext(r.URL.Query().Get("next")),
	})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.fail(w, r, apperr.BadRequest("invalid_input", "invalid form", err))
		return
	}

	form := loginForm{
		Username: strings.TrimSpace(r.PostForm.Get("username")),
		Next:     safeNext(r.PostForm.Get("next")),
	}

	u, err := h.users.Login(r.Context(), form.Username, r.PostForm.Get("password"))
	if err != nil {
		h.renderFormError(w, r, "login.html", "Login", form, err)
		return
	}

	st := sessionState(r)
	if err := h.sessions.Login(w, st, u.ID, u.Username); err != nil {
		h.fail(w, r, err)
		return
	}

	slogLogger.Info("user logged in", "user_id", u.ID)
	st.AddFlash(session.FlashSuccess, "Logged in successfully!")

	to := form.Next
	if to == "" {
		to = "/"
	}
	h.redirect(w, r, to)
}

func (h *Handler) handleRegisterPage(w http.ResponseWriter, r *http.Request) {
	if sessionState(r).Authenticated() {
		h.redirect(w, r, "/")
		return
	}
	h.render(w, r, http.StatusOK, "register.html", "Register", registerForm{})
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.fail(w, r, apperr.BadRequest("invalid_input", "invalid form", err))
		return
	}

	form := registerForm{
		Username: strings.TrimSpace(r.PostForm.Get("username")),
		Email:    strings.TrimSpace(r.PostForm.Get("email")),
	}

	u, err := h.users.Register(r.Context(), user.RegisterInput{
		Username: form.Username,
		Email:    form.Email,
		Password: r.PostForm.Get("password"),
	})
	if err != nil {
		h.renderFormError(w, r, "register.html", "Register", form, err)
		return
	}

	slogLogger.Info("user registered", "user_id", u.ID)
	sessionState(r).AddFlash(session.FlashSuccess, "Registration successful! Please log in.")
	h.redirect(w, r, "/login")
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	st := sessionState(r)
	if st.Authenticated() {
		h.sessions.Logout(w, st)
		st.AddFlash(session.FlashInfo, "You have been logged out.")
	}
	h.redirect(w, r, "/")
}

// safeNext only accepts local absolute paths so the login form cannot be
// used as an open redirect.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return ""
	}
	return next
}
