// Command auditor-server exposes the audit engine over the thin HTTP
// surface spec.md §6 describes (POST /audit, GET /health).
package main

import (
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/seoauditor/engine/internal/audit"
	"github.com/seoauditor/engine/internal/config"
	"github.com/seoauditor/engine/internal/httpapi"
	"github.com/seoauditor/engine/internal/metadata"
)

func main() {
	addr := os.Getenv("AUDITOR_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	cfg, err := config.WithDefault().Build()
	if err != nil {
		log.Fatal(err)
	}

	sink := metadata.NewRecorder(slog.Default())
	engine := audit.New(cfg, sink)
	server := httpapi.NewServer(engine)

	slog.Info("listening", "addr", addr)
	log.Fatal(http.ListenAndServe(addr, server.Routes()))
}
