package server

import (
	"fmt"
	"html"
	"net/http"
)

const contentTypeHTML = "text/html; charset=utf-8"

// ErrorPageHandler is the single generic error surface every flow
// failure redirects to. It renders the short reason and nothing else.
func (s *Server) ErrorPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		message := r.URL.Query().Get("error")
		if message == "" {
			message = "Something went wrong during authentication."
		}

		w.Header().Set("Content-Type", contentTypeHTML)
		fmt.Fprintf(w, `<!DOCTYPE html>
<html>
<head><title>Authentication Error</title></head>
<body>
<h1>Authentication Error</h1>
<p>%s</p>
<p><a href="/">Back to home</a></p>
</body>
</html>`, html.EscapeString(message))
	}
}

// DashboardHandler is a placeholder for the dashboard application; the
// real UI lives outside this subsystem. It exists so the session gate
// has a protected route to stand in front of.
func (s *Server) DashboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentTypeHTML)
		fmt.Fprintf(w, `<!DOCTYPE html>
<html>
<head><title>Dashboard</title></head>
<body>
<h1>Dashboard</h1>
<p>%s</p>
</body>
</html>`, html.EscapeString(r.URL.Query().Get("message")))
	}
}
