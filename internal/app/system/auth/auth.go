// internal/app/system/auth/auth.go

// Package auth owns the session boundary: a signed cookie carrying typed
// claims (user id + session epoch), validated once per request. The epoch
// on the cookie must match the user document's current session_epoch;
// signing in bumps the epoch, so older cookies stop validating instead of
// racing on a shared token field.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/leadrelay/leadrelay/internal/app/system/httpjson"
	"github.com/leadrelay/leadrelay/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// SessionMaxAge matches the 11-hour cookie lifetime set on magic-link
// consumption.
const SessionMaxAge = 11 * time.Hour

const (
	isAuthKey = "is_authenticated"
	userIDKey = "user_id"
	epochKey  = "session_epoch"
	emailKey  = "user_email"
	issuedKey = "issued_at"
)

// Claims is the session payload, decoded and validated exactly once at
// the authentication boundary.
type Claims struct {
	UserID primitive.ObjectID
	Email  string
	Epoch  int64
}

// UserFetcher loads the current user document for a request. LoadSessionUser
// fetches fresh on every request so role, membership, and epoch changes
// take effect immediately.
type UserFetcher interface {
	FetchByID(ctx context.Context, id primitive.ObjectID) (models.User, error)
}

// SessionManager wraps the cookie store and the per-request session
// middleware.
type SessionManager struct {
	store   *sessions.CookieStore
	name    string
	fetcher UserFetcher
	log     *zap.Logger
}

// NewSessionManager builds a cookie-backed session manager. In secure
// mode the cookie gets the __Secure- prefix, the Secure flag, and
// SameSite=None; dev mode uses Lax over plain HTTP.
func NewSessionManager(sessionKey, name, domain string, secure bool, logger *zap.Logger) (*SessionManager, error) {
	if sessionKey == "" {
		return nil, fmt.Errorf("session key is empty; provide ≥32 random chars")
	}
	if len(sessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(sessionKey)))
	}

	if secure && !strings.HasPrefix(name, "__Secure-") {
		name = "__Secure-" + name
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	opts := &sessions.Options{
		Domain:   domain,
		Path:     "/",
		MaxAge:   int(SessionMaxAge.Seconds()),
		Secure:   secure,
		HttpOnly: true,
	}
	if secure {
		opts.SameSite = http.SameSiteNoneMode
	} else {
		opts.SameSite = http.SameSiteLaxMode
	}
	store.Options = opts

	logger.Info("session store initialized",
		zap.String("cookie", name),
		zap.Bool("secure", secure),
		zap.String("domain", domain))

	return &SessionManager{store: store, name: name, log: logger}, nil
}

// SetUserFetcher wires the store used to load users during LoadSessionUser.
func (sm *SessionManager) SetUserFetcher(f UserFetcher) {
	sm.fetcher = f
}

// CookieName returns the session cookie name (with any secure prefix).
func (sm *SessionManager) CookieName() string {
	return sm.name
}

// SignIn writes the session cookie for the given user at its current
// session epoch.
func (sm *SessionManager) SignIn(w http.ResponseWriter, r *http.Request, u models.User) error {
	sess, _ := sm.store.Get(r, sm.name)
	sess.Values[isAuthKey] = true
	sess.Values[userIDKey] = u.ID.Hex()
	sess.Values[epochKey] = u.SessionEpoch
	sess.Values[emailKey] = u.Email
	sess.Values[issuedKey] = time.Now().UTC().Unix()
	return sess.Save(r, w)
}

// SignOut expires the session cookie.
func (sm *SessionManager) SignOut(w http.ResponseWriter, r *http.Request) error {
	sess, _ := sm.store.Get(r, sm.name)
	sess.Options.MaxAge = -1
	sess.Values = map[interface{}]interface{}{}
	return sess.Save(r, w)
}

// RawToken returns the opaque encoded cookie value, forwarded upstream as
// x-session-token.
func (sm *SessionManager) RawToken(r *http.Request) string {
	c, err := r.Cookie(sm.name)
	if err != nil {
		return ""
	}
	return c.Value
}

/* ───────────────────────── context plumbing ───────────────────────── */

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// Current bundles the validated claims with the freshly fetched user.
type Current struct {
	Claims Claims
	User   models.User
}

// CurrentUser returns the authenticated user for the request, if any.
func CurrentUser(r *http.Request) (*Current, bool) {
	cu, ok := r.Context().Value(currentUserKey).(*Current)
	return cu, ok
}

func withUser(r *http.Request, cu *Current) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, cu))
}

// decodeClaims extracts and validates claims from the cookie session.
// Returns ok=false for anything malformed; the request then proceeds
// unauthenticated.
func decodeClaims(sess *sessions.Session) (Claims, bool) {
	if isAuth, _ := sess.Values[isAuthKey].(bool); !isAuth {
		return Claims{}, false
	}
	hex, _ := sess.Values[userIDKey].(string)
	uid, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return Claims{}, false
	}
	epoch, ok := sess.Values[epochKey].(int64)
	if !ok {
		return Claims{}, false
	}
	email, _ := sess.Values[emailKey].(string)
	return Claims{UserID: uid, Email: email, Epoch: epoch}, true
}

// LoadSessionUser decodes claims, fetches the user, and injects a Current
// into the request context when everything checks out: user exists, is
// active, and the cookie epoch equals the user's session epoch. Any
// failure leaves the request unauthenticated; it never errors the request
// itself.
func (sm *SessionManager) LoadSessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if sm.fetcher == nil {
			next.ServeHTTP(w, r)
			return
		}

		sess, err := sm.store.Get(r, sm.name)
		if err != nil {
			if scErr, ok := err.(securecookie.Error); ok && scErr.IsDecode() {
				// Stale or tampered cookie after a key rotation; a fresh
				// anonymous session is returned alongside the error.
				sm.log.Warn("session cookie invalid, treating as signed out", zap.Error(err))
			} else {
				sm.log.Error("session store error", zap.Error(err))
			}
			next.ServeHTTP(w, r)
			return
		}
		claims, ok := decodeClaims(sess)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		u, err := sm.fetcher.FetchByID(r.Context(), claims.UserID)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		if u.Status != "active" || u.SessionEpoch != claims.Epoch {
			// Rotated epoch or disabled account: the cookie is dead.
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, withUser(r, &Current{Claims: claims, User: u}))
	})
}

/* ───────────────────────── gating middleware ──────────────────────── */

func wantsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

func loginRedirect(w http.ResponseWriter, r *http.Request) {
	ret := url.QueryEscape(r.URL.RequestURI())
	http.Redirect(w, r, "/login?return="+ret, http.StatusSeeOther)
}

// RequireSignedIn rejects unauthenticated requests: browsers get a 303 to
// the sign-in flow preserving the original destination, API callers a
// JSON 401.
func (sm *SessionManager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); ok {
			next.ServeHTTP(w, r)
			return
		}
		if wantsHTML(r) {
			loginRedirect(w, r)
			return
		}
		httpjson.Unauthorized(w, "unauthorized")
	})
}

// RequireAnyRole admits users holding one of the given roles in at least
// one membership. Role checks against a specific company happen in the
// handlers via the capability resolver; this is the coarse URL-prefix
// gate.
func (sm *SessionManager) RequireAnyRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cu, ok := CurrentUser(r)
			if !ok {
				if wantsHTML(r) {
					loginRedirect(w, r)
					return
				}
				httpjson.Unauthorized(w, "unauthorized")
				return
			}
			if !cu.User.HasAnyRole(roles...) {
				httpjson.Forbidden(w, "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// BlockRoles fences an entire URL-prefix area off from users whose only
// memberships carry one of the blocked roles. Users with any membership
// outside the blocked set pass through.
func (sm *SessionManager) BlockRoles(blocked ...string) func(http.Handler) http.Handler {
	set := make(map[string]struct{}, len(blocked))
	for _, role := range blocked {
		set[role] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cu, ok := CurrentUser(r)
			if !ok {
				if wantsHTML(r) {
					loginRedirect(w, r)
					return
				}
				httpjson.Unauthorized(w, "unauthorized")
				return
			}
			allowed := false
			for _, m := range cu.User.Memberships {
				if _, bad := set[m.Role]; !bad {
					allowed = true
					break
				}
			}
			if !allowed {
				httpjson.Forbidden(w, "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
