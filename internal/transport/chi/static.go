package chi

import (
	_ "embed"
	"net/http"
)

//go:embed assets/ui.html
var uiHTML []byte

//go:embed assets/brain.gif
var demoImage []byte

// Root handles GET /, a plain page confirming the server is up.
func (s *Server) Root(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte("<html><body><h1>NeuroDex</h1><p>Server is running. Try <a href=\"/ui\">/ui</a>.</p></body></html>\n"))
}

// UI handles GET /ui, the embedded single-page query UI.
func (s *Server) UI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(uiHTML)
}

// Img handles GET /img, the embedded demo image.
func (s *Server) Img(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "image/gif")
	_, _ = w.Write(demoImage)
}
