package web

import (
	"errors"
	"net/http"
	"strings"

	"poll-maker/internal/domain/poll"
	"poll-maker/internal/domain/user"
	"poll-maker/internal/domain/vote"
	"poll-maker/internal/platform/apperr"
	"poll-maker/internal/platform/session"
	"poll-maker/internal/platform/validate"
)

func errorResponse(w http.ResponseWriter, err error) {
	appErr := mapError(err)
	if appErr.StatusCode() >= http.StatusInternalServerError {
		slogLogger.Error("request failed", "error", err)
	}
	writeJSON(w, appErr.StatusCode(), map[string]string{
		"error":   appErr.Code,
		"message": appErr.Message,
	})
}

func mapError(err error) *apperr.AppError {
	if err == nil {
		return apperr.Internal("internal_error", "internal server error", nil)
	}

	if appErr, ok := domainError(err); ok {
		return appErr
	}
	return apperr.FromError(err)
}

// domainError translates the domain sentinels. Errors that already carry an
// *apperr.AppError are left for apperr.FromError to pass through.
func domainError(err error) (*apperr.AppError, bool) {
	var appErr *apperr.AppError
	if errors.As(err, &appErr) {
		return nil, false
	}

	switch {
	case errors.Is(err, user.ErrInvalidCredentials):
		return apperr.Unauthorized("invalid_credentials", "Invalid username or password.", err), true
	case errors.Is(err, user.ErrUsernameTaken):
		return apperr.Conflict("username_taken", "That username is already taken.", err), true
	case errors.Is(err, user.ErrEmailTaken):
		return apperr.Conflict("email_taken", "That email is already registered.", err), true
	case errors.Is(err, user.ErrUserNotFound):
		return apperr.NotFound("user_not_found", "User not found.", err), true
	case errors.Is(err, validate.ErrInvalid):
		return apperr.BadRequest("invalid_input", sentence(validate.Message(err)), err), true
	case errors.Is(err, poll.ErrInvalidPoll):
		msg := strings.TrimPrefix(err.Error(), poll.ErrInvalidPoll.Error()+": ")
		return apperr.BadRequest("invalid_poll", sentence(msg), err), true
	case errors.Is(err, poll.ErrPollNotFound), errors.Is(err, vote.ErrPollNotFound):
		return apperr.NotFound("poll_not_found", "Poll not found.", err), true
	case errors.Is(err, vote.ErrAlreadyVoted):
		return apperr.Conflict("already_voted", "You have already voted on this poll.", err), true
	case errors.Is(err, vote.ErrInvalidOption):
		return apperr.BadRequest("invalid_option", "Please select one of the poll's options.", err), true
	case errors.Is(err, vote.ErrUnauthenticated):
		return apperr.Unauthorized("login_required", loginRequiredMessage, err), true
	default:
		return nil, false
	}
}

// sentence capitalises msg and ends it with a period.
func sentence(msg string) string {
	if msg == "" {
		return msg
	}
	msg = strings.ToUpper(msg[:1]) + msg[1:]
	if !strings.HasSuffix(msg, ".") {
		msg += "."
	}
	return msg
}

// fail renders the error page for err with its mapped status.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	appErr := mapError(err)
	if appErr.StatusCode() >= http.StatusInternalServerError {
		slogLogger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
	}
	h.render(w, r, appErr.StatusCode(), "error.html", appErr.Title(), appErr)
}

// renderFormError re-renders a form page with the failure as a danger flash.
// Unexpected errors fall through to the error page.
func (h *Handler) renderFormError(w http.ResponseWriter, r *http.Request, page, title string, form any, err error) {
	appErr := mapError(err)
	if appErr.StatusCode() >= http.StatusInternalServerError {
		h.fail(w, r, err)
		return
	}
	st := sessionState(r)
	st.AddFlash(session.FlashDanger, appErr.Message)
	h.render(w, r, appErr.StatusCode(), page, title, form)
}

func (h *Handler) handleNotFound(w http.ResponseWriter, r *http.Request) {
	h.fail(w, r, apperr.NotFound("not_found", "The page you requested does not exist.", nil))
}
