package httpserver

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

const (
	viewCookieName = "breakthrough_view"
	mobileSubdir   = "mobile"
)

// RegisterStaticRoutes mounts the frontend:
// - /web/*        -> webDir
// - /web_mobile/* -> webDir/mobile when it exists, webDir otherwise
// - /             -> redirect picked by ?view=, the view cookie or the User-Agent
func RegisterStaticRoutes(mux *http.ServeMux, webDir string) {
	if mux == nil {
		return
	}
	if webDir == "" {
		webDir = "."
	}
	mobileDir := filepath.Join(webDir, mobileSubdir)
	if fi, err := os.Stat(mobileDir); err != nil || !fi.IsDir() {
		mobileDir = webDir
	}

	mux.Handle("/web/", http.StripPrefix("/web/", http.FileServer(http.Dir(webDir))))
	mux.Handle("/web_mobile/", http.StripPrefix("/web_mobile/", http.FileServer(http.Dir(mobileDir))))

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/":
			target := "/web/"
			if pickView(w, r) == "mobile" {
				target = "/web_mobile/"
			}
			w.Header().Set("Vary", "User-Agent, Cookie")
			http.Redirect(w, r, target, http.StatusFound)
		case "/web", "/web_mobile":
			http.Redirect(w, r, r.URL.Path+"/", http.StatusFound)
		default:
			http.NotFound(w, r)
		}
	})
}

func pickView(w http.ResponseWriter, r *http.Request) string {
	if v, ok := normalizeView(r.URL.Query().Get("view")); ok {
		http.SetCookie(w, &http.Cookie{
			Name:     viewCookieName,
			Value:    v,
			Path:     "/",
			MaxAge:   30 * 24 * 60 * 60,
			SameSite: http.SameSiteLaxMode,
		})
		return v
	}
	if c, err := r.Cookie(viewCookieName); err == nil {
		if v, ok := normalizeView(c.Value); ok {
			return v
		}
	}
	if isMobileUA(r.UserAgent()) {
		return "mobile"
	}
	return "web"
}

func normalizeView(v string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "web", "desktop":
		return "web", true
	case "mobile", "m", "phone":
		return "mobile", true
	}
	return "", false
}

var mobileUANeedles = []string{"android", "iphone", "ipad", "ipod", "mobile", "windows phone"}

func isMobileUA(ua string) bool {
	s := strings.ToLower(ua)
	for _, n := range mobileUANeedles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
