package sessions

import (
	"crypto/sha256"
	"encoding/gob"
	"net/http"

	"github.com/gorilla/sessions"
)

const (
	sessionName = "admin_session"
	adminIDKey  = "admin_id"
)

// Flash is a one-shot notification rendered on the next page load.
// Category matches the bootstrap-style alert classes the templates use
// ("success", "danger", "info").
type Flash struct {
	Category string
	Message  string
}

func init() {
	gob.Register(Flash{})
}

// Store wraps a cookie session store bound to the admin session
type Store struct {
	cookies *sessions.CookieStore
}

// New creates a Store from a single secret. Separate signing and encryption
// keys are derived from it, which is stronger than signing alone.
func New(secret string, secure bool) *Store {
	authKey := sha256.Sum256([]byte("auth:" + secret))
	encKey := sha256.Sum256([]byte("enc:" + secret))

	store := sessions.NewCookieStore(authKey[:], encKey[:])
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   0, // session cookie, gone when the browser closes
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
	}
	return &Store{cookies: store}
}

func (s *Store) session(r *http.Request) *sessions.Session {
	// Get never fails for a cookie store beyond handing back a fresh session
	session, _ := s.cookies.Get(r, sessionName)
	return session
}

// AdminID returns the authenticated administrator's id, if any
func (s *Store) AdminID(r *http.Request) (int64, bool) {
	session := s.session(r)
	if v, ok := session.Values[adminIDKey].(int64); ok {
		return v, true
	}
	return 0, false
}

// SetAdminID binds the session to an administrator identity
func (s *Store) SetAdminID(w http.ResponseWriter, r *http.Request, adminID int64) error {
	session := s.session(r)
	session.Values[adminIDKey] = adminID
	return session.Save(r, w)
}

// Clear removes the administrator identity from the session
func (s *Store) Clear(w http.ResponseWriter, r *http.Request) error {
	session := s.session(r)
	delete(session.Values, adminIDKey)
	return session.Save(r, w)
}

// AddFlash queues a one-shot message for the next rendered page
func (s *Store) AddFlash(w http.ResponseWriter, r *http.Request, category, message string) error {
	session := s.session(r)
	session.AddFlash(Flash{Category: category, Message: message})
	return session.Save(r, w)
}

// Flashes drains and returns all queued flash messages
func (s *Store) Flashes(w http.ResponseWriter, r *http.Request) []Flash {
	session := s.session(r)
	raw := session.Flashes()
	if len(raw) == 0 {
		return nil
	}
	// Reading flashes mutates the session; persist the drained state
	_ = session.Save(r, w)

	flashes := make([]Flash, 0, len(raw))
	for _, v := range raw {
		if f, ok := v.(Flash); ok {
			flashes = append(flashes, f)
		}
	}
	return flashes
}
