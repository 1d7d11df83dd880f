package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cardwise/cardwise-api/internal/service"
	"github.com/cardwise/cardwise-api/internal/session"
	appErrors "github.com/cardwise/cardwise-api/pkg/errors"
	"github.com/cardwise/cardwise-api/pkg/response"
)

// ContextClaimsKey is the gin context key storing decoded session claims.
const ContextClaimsKey = "sessionClaims"

// ContextIdentityKey is the gin context key storing the resolved identity.
const ContextIdentityKey = "currentIdentity"

// Session reads the session cookie, consults the access policy and either
// redirects to the realm's login page or proceeds. Allowed requests with a
// valid session get the sliding refresh.
func Session(store *session.Store, policy *session.Policy, metrics *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := store.Read(c)
		if metrics != nil {
			outcome := "anonymous"
			if claims != nil {
				outcome = "valid"
			}
			metrics.ObserveSessionDecode(outcome)
		}

		decision := policy.Evaluate(c.Request.URL.Path, claims != nil)
		if !decision.Allow {
			c.Redirect(http.StatusFound, decision.RedirectTo)
			c.Abort()
			return
		}

		if claims != nil {
			c.Set(ContextClaimsKey, claims)
			store.Refresh(c)
		}
		c.Next()
	}
}

// Identity resolves the session subject to a concrete identity. A stale
// subject (user deleted since login) destroys the session and is treated as
// unauthenticated.
func Identity(store *session.Store, resolver *session.Resolver, policy *session.Policy) gin.HandlerFunc {
	return func(c *gin.Context) {
		claimsValue, ok := c.Get(ContextClaimsKey)
		if !ok {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		claims := claimsValue.(*session.Claims)

		identity, err := resolver.Resolve(c.Request.Context(), claims.SubjectID)
		if err != nil {
			if errors.Is(err, session.ErrSubjectNotFound) {
				store.Destroy(c)
				decision := policy.Evaluate(c.Request.URL.Path, false)
				if !decision.Allow && decision.RedirectTo != "" {
					c.Redirect(http.StatusFound, decision.RedirectTo)
				} else {
					response.Error(c, appErrors.ErrUnauthorized)
				}
				c.Abort()
				return
			}
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextIdentityKey, identity)
		c.Next()
	}
}

// RequireAdmin rejects non-administrator identities.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := CurrentIdentity(c)
		if identity == nil || !identity.Admin {
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireUser rejects identities without a stored user row, including the
// administrator, who has no profile.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := CurrentIdentity(c)
		if identity == nil || identity.User == nil {
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentIdentity returns the resolved identity from the context, or nil.
func CurrentIdentity(c *gin.Context) *session.Identity {
	value, ok := c.Get(ContextIdentityKey)
	if !ok {
		return nil
	}
	identity, _ := value.(*session.Identity)
	return identity
}
