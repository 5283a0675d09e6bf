package session

import (
	"net/http"
	"time"

	"github.com/rocketscienceinc/dice-backend/internal/usecase"
)

const (
	CookieName = "user_session"

	cookieLifetime = 24 * time.Hour
)

type Manager interface {
	Get(id string) (*usecase.Session, error)
	GetOrCreate(id string) *usecase.Session
}

// Resolve finds the session named by the request cookie or starts a new one.
// The returned cookie is nil when the browser already holds the right id.
func Resolve(r *http.Request, manager Manager) (*usecase.Session, *http.Cookie) {
	var id string
	if cookie, err := r.Cookie(CookieName); err == nil {
		id = cookie.Value
	}

	if id != "" {
		if session, err := manager.Get(id); err == nil {
			return session, nil
		}
	}

	session := manager.GetOrCreate("")

	return session, &http.Cookie{
		Name:     CookieName,
		Value:    session.ID,
		Path:     "/",
		Expires:  time.Now().Add(cookieLifetime),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
