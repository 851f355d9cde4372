package main

import (
	_ "embed"
	"html/template"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/tomz197/invaders/internal/config"
)

const (
	defaultHost = "0.0.0.0"
	defaultPort = "8080"
)

//go:embed index.html
var htmlPage string

var page = template.Must(template.New("index").Parse(htmlPage))

// pageData fills the landing page template.
type pageData struct {
	SSHHost string
	SSHPort string
}

func main() {
	logger := config.NewLogger(os.Stderr, "web")

	host := config.GetEnv("WEB_HOST", defaultHost)
	port := config.GetEnv("WEB_PORT", defaultPort)
	data := pageData{
		SSHHost: config.GetEnv("SSH_DISPLAY_HOST", "your-server.com"),
		SSHPort: config.GetEnv("SSH_DISPLAY_PORT", "2222"),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := page.Execute(w, data); err != nil {
			logger.Error("render page", "err", err)
		}
	})

	addr := net.JoinHostPort(host, port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	logger.Info("starting web server", "addr", "http://"+addr)
	if err := srv.ListenAndServe(); err != nil {
		logger.Fatal("server error", "err", err)
	}
}
