package api

import (
	"bytes"
	"fmt"
	"log"
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/gorilla/mux"

	"FreightRecon/internal/config"
	"FreightRecon/internal/logger"
)

func extractClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	return r.RemoteAddr
}

// createReverseProxy returns a proxy handler for the given target URL with
// audit logging of every request and its upstream status.
func createReverseProxy(target string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientIP := extractClientIP(r)
		logger.Audit(fmt.Sprintf("[gateway] %s %s from %s", r.Method, r.URL.Path, clientIP))

		u, err := url.Parse(target)
		if err != nil {
			logger.Audit(fmt.Sprintf("[gateway] bad target URL %s for %s", target, r.URL.Path))
			http.Error(w, "Bad target URL", http.StatusInternalServerError)
			return
		}
		proxy := httputil.NewSingleHostReverseProxy(u)

		rw := &responseWriter{ResponseWriter: w, statusCode: 200}
		proxy.ServeHTTP(rw, r)
		if rw.statusCode >= 400 {
			logger.Audit(fmt.Sprintf("[gateway] proxied %s to %s, status %d: %s",
				r.URL.Path, target, rw.statusCode, rw.body.String()))
		} else {
			logger.Audit(fmt.Sprintf("[gateway] proxied %s to %s, status %d",
				r.URL.Path, target, rw.statusCode))
		}
	}
}

// responseWriter captures the upstream status and body for audit logging.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	body       bytes.Buffer
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.body.Write(b)
	return rw.ResponseWriter.Write(b)
}

// StartGateway starts the API gateway, fronting the freight service.
func StartGateway(port, freightPort int) {
	router := mux.NewRouter()

	freightTarget := fmt.Sprintf("http://localhost:%d", freightPort)
	router.PathPrefix("/freight/").HandlerFunc(createReverseProxy(freightTarget))

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("API Gateway is healthy"))
	}).Methods("GET")

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Audit("[gateway] " + r.URL.Path + " from " + r.RemoteAddr + " (route not found)")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("404 - Route not found"))
	})

	addr := fmt.Sprintf(":%d", port)
	log.Println("API Gateway started on", addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatalf("Gateway server failed: %v", err)
	}
}

type GatewayService struct {
	config map[string]interface{}
}

func NewGatewayService(cfg map[string]interface{}) *GatewayService {
	return &GatewayService{config: cfg}
}

func (s *GatewayService) Name() string {
	return "gateway"
}

func (s *GatewayService) Start() error {
	port := config.DefaultGatewayPort
	freightPort := config.DefaultFreightPort
	if s.config != nil {
		if v, ok := toInt(s.config["port"]); ok {
			port = v
		}
		if v, ok := toInt(s.config["freight_port"]); ok {
			freightPort = v
		}
	}
	go StartGateway(port, freightPort)
	return nil
}

func (s *GatewayService) Stop() error {
	return nil
}

func toInt(v interface{}) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case int64:
		return int(t), true
	case float64:
		return int(t), true
	}
	return 0, false
}
