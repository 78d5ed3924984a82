// Package views renders the console pages and ships their static assets.
//
// Pages are templ components backed by embedded html/template files, so
// they plug into Context.Render like any generated component.
package views

import (
	"context"
	"embed"
	"html/template"
	"io"

	"github.com/a-h/templ"

	"github.com/happydeel/mailroom/requests"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Assets holds the static files served under /static/.
//
//go:embed static
var Assets embed.FS

var pages = template.Must(template.New("").ParseFS(templatesFS, "templates/*.html"))

// Tab is one section of the console.
type Tab struct {
	ID    string
	Label string
}

// Tabs lists the console sections in display order.
var Tabs = []Tab{
	{ID: "shipping", Label: "Shipping Email"},
	{ID: "confirmation", Label: "Order Confirmation"},
	{ID: "refund", Label: "Refund Email"},
	{ID: "preview", Label: "Email Preview"},
}

// ConsoleData is the data of the main page.
type ConsoleData struct {
	StoreName string
	Username  string
	Tabs      []Tab
	// MaxTrackingNumberLen mirrors the server-side bound for maxlength.
	MaxTrackingNumberLen int
}

// LoginData is the data of the login page.
type LoginData struct {
	StoreName string
}

// Title is the document title.
func (d ConsoleData) Title() string { return d.StoreName + " Mailroom" }

// Title is the document title.
func (d LoginData) Title() string { return d.StoreName + " Mailroom - Sign in" }

// NewConsoleData fills the static parts of ConsoleData.
func NewConsoleData(storeName, username string) ConsoleData {
	return ConsoleData{
		StoreName:            storeName,
		Username:             username,
		Tabs:                 Tabs,
		MaxTrackingNumberLen: requests.MaxTrackingNumberLen,
	}
}

// Console renders the four-tab email console.
func Console(data ConsoleData) templ.Component {
	return page("console.html", data)
}

// Login renders the login form.
func Login(data LoginData) templ.Component {
	return page("login.html", data)
}

func page(name string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return pages.ExecuteTemplate(w, name, data)
	})
}
