package server

import (
	"log"
	"net/http"

	"merngen/internal/gateway/handler"
	"merngen/internal/gateway/middleware"
)

// NewMux routes the generation endpoints. allowedOrigins feeds the CORS
// middleware; empty means any origin.
func NewMux(generateHandler *handler.GenerateHandler, logger *log.Logger, allowedOrigins []string) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/generate", generateHandler.HandleGenerate)
	mux.HandleFunc("/", generateHandler.HandleStatus)

	// Middleware
	return middleware.RequestID(middleware.AccessLog(logger)(middleware.CORS(allowedOrigins)(mux)))
}
