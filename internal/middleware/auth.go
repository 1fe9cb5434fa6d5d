package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/clerk/clerk-sdk-go/v2"
	clerkhttp "github.com/clerk/clerk-sdk-go/v2/http"
	"github.com/deppfellow/devevent/internal/errs"
	"github.com/deppfellow/devevent/internal/server"
	"github.com/labstack/echo/v4"
)

// AuthMiddleware verifies Clerk session tokens.
type AuthMiddleware struct {
	server *server.Server
}

func NewAuthMiddleware(s *server.Server) *AuthMiddleware {
	return &AuthMiddleware{
		server: s,
	}
}

// SignInPath is where clients are sent when a session is missing.
const SignInPath = "/sign-in"

func signInRequired() *errs.HTTPError {
	err := errs.NewUnauthorizedError("Unauthorized", false)
	err.Action = &errs.Action{
		Type:    errs.ActionTypeRedirect,
		Message: "Sign in to continue",
		Value:   SignInPath,
	}
	return err
}

// unauthorized writes the error envelope itself: Clerk calls it outside
// the echo chain, where the global error handler cannot reach.
func (auth *AuthMiddleware) unauthorized(w http.ResponseWriter, r *http.Request) {
	w.Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	w.WriteHeader(http.StatusUnauthorized)

	log := auth.server.Logger.With().
		Str("request_id", r.Header.Get(RequestIDHeader)).
		Str("path", r.URL.Path).
		Logger()

	if err := json.NewEncoder(w).Encode(signInRequired()); err != nil {
		log.Error().Err(err).Msg("failed to write unauthorized response")
		return
	}
	log.Warn().Msg("missing or invalid session token")
}

// RequireAuth admits requests carrying a valid Clerk session in
// `Authorization: Bearer`. The user id and organization role are stored in
// the echo context and added to the request logger.
func (auth *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	verify := echo.WrapMiddleware(clerkhttp.WithHeaderAuthorization(
		clerkhttp.AuthorizationFailureHandler(http.HandlerFunc(auth.unauthorized)),
	))

	return verify(func(c echo.Context) error {
		claims, ok := clerk.SessionClaimsFromContext(c.Request().Context())
		// Clerk lets requests without an Authorization header through
		// unverified; only a rejected token reaches unauthorized.
		if !ok {
			GetLogger(c).Warn().Msg("missing session token")
			return signInRequired()
		}

		c.Set(UserIDKey, claims.Subject)
		c.Set(UserRoleKey, claims.ActiveOrganizationRole)
		c.Set(PermissionsKey, claims.ActiveOrganizationPermissions)

		log := GetLogger(c).With().
			Str("user_id", claims.Subject).
			Str("user_role", claims.ActiveOrganizationRole).
			Logger()
		c.Set(LoggerKey, &log)
		c.SetRequest(c.Request().WithContext(log.WithContext(c.Request().Context())))

		log.Debug().Msg("session verified")

		return next(c)
	})
}
