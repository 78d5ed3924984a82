package handlers

import (
	"net/http"

	"github.com/happydeel/mailroom/internal"
	"github.com/happydeel/mailroom/pkg/session"
	"github.com/happydeel/mailroom/views"
)

// PageHandler serves the console and login pages.
type PageHandler struct {
	storeName string
}

// NewPageHandler creates a PageHandler branded with storeName.
func NewPageHandler(storeName string) *PageHandler {
	return &PageHandler{storeName: storeName}
}

// Routes implements internal.Handler.
func (h *PageHandler) Routes(r internal.Router) {
	r.GET("/", h.console)
	r.GET("/login", h.login)
}

func (h *PageHandler) console(c internal.Context) error {
	tok, err := c.Session()
	if err != nil {
		if _, ok := session.AsUnauthenticated(err); ok {
			return c.Redirect(http.StatusFound, "/login")
		}
		return internal.ErrServiceUnavailable("Session check unavailable", internal.WithError(err))
	}
	return c.Render(http.StatusOK, views.Console(views.NewConsoleData(h.storeName, tok.Username)))
}

func (h *PageHandler) login(c internal.Context) error {
	if _, err := c.Session(); err == nil {
		return c.Redirect(http.StatusFound, "/")
	}
	return c.Render(http.StatusOK, views.Login(views.LoginData{StoreName: h.storeName}))
}
