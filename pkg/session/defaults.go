package session

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/treasuretrove/ledger/pkg/logger"
)

const (
	sessionName  = "trove_form"
	containerKey = "container_id"
	locationKey  = "location"
)

// FormDefaults are the values the submission form opens with.
type FormDefaults struct {
	ContainerID string `json:"container_id,omitempty"`
	Location    string `json:"location,omitempty"`
}

type contextKey string

const defaultsKey contextKey = "form_defaults"

// WithDefaults returns a context carrying d.
func WithDefaults(ctx context.Context, d FormDefaults) context.Context {
	return context.WithValue(ctx, defaultsKey, d)
}

// DefaultsFromCtx returns the defaults loaded by Middleware, or the zero value.
func DefaultsFromCtx(ctx context.Context) FormDefaults {
	d, _ := ctx.Value(defaultsKey).(FormDefaults)
	return d
}

// Middleware loads the form defaults for every request. Sessions are a
// convenience: a broken or missing cookie is logged and ignored.
func Middleware(store sessions.Store, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d, err := Load(r, store)
			if err != nil {
				log.DebugContext(r.Context(), "ignoring unreadable session", "error", err)
			}
			next.ServeHTTP(w, r.WithContext(WithDefaults(r.Context(), d)))
		})
	}
}

// Load reads the defaults stored in the request's session.
func Load(r *http.Request, store sessions.Store) (FormDefaults, error) {
	s, err := store.Get(r, sessionName)
	if err != nil {
		return FormDefaults{}, fmt.Errorf("load session: %w", err)
	}
	var d FormDefaults
	d.ContainerID, _ = s.Values[containerKey].(string)
	d.Location, _ = s.Values[locationKey].(string)
	return d, nil
}

// Remember stores d in the session and writes the cookie. Empty fields are
// cleared so the form forgets a container the user stopped using.
func Remember(w http.ResponseWriter, r *http.Request, store sessions.Store, d FormDefaults) error {
	s, err := store.Get(r, sessionName)
	if err != nil {
		// Cookie from an old key; start over.
		s, err = store.New(r, sessionName)
		if s == nil {
			return fmt.Errorf("new session: %w", err)
		}
	}

	setOrDelete(s.Values, containerKey, d.ContainerID)
	setOrDelete(s.Values, locationKey, d.Location)

	if err := s.Save(r, w); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func setOrDelete(values map[any]any, key, v string) {
	if v == "" {
		delete(values, key)
		return
	}
	values[key] = v
}
