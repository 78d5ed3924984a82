package internal

// Handler declares routes on a router.
//
// Example:
//
//	type Auth struct {
//	    creds Credentials
//	}
//
//	func (h *Auth) Routes(r internal.Router) {
//	    r.POST("/api/login", h.login)
//	    r.POST("/api/logout", h.logout)
//	}
type Handler interface {
	Routes(r Router)
}

// HandlerFunc is the signature for route handlers.
// Returning a non-nil error hands it to the app's ErrorHandler.
type HandlerFunc func(c Context) error

// Middleware wraps a HandlerFunc. It can inspect the request, short-circuit
// by returning an error, or call next.
//
// Example:
//
//	func Staff(next internal.HandlerFunc) internal.HandlerFunc {
//	    return func(c internal.Context) error {
//	        if _, err := c.Session(); err != nil {
//	            return internal.ErrUnauthorized("Authentication required")
//	        }
//	        return next(c)
//	    }
//	}
type Middleware func(next HandlerFunc) HandlerFunc

// ErrorHandler renders errors returned from handlers and middleware.
type ErrorHandler func(Context, error) error
