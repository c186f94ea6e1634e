package main

import (
	"context"
	"log"
	"os"

	api "daycheck/internal/adapter/http"
	. "daycheck/pkg/config"
	. "daycheck/pkg/tracing"
)

func main() {
	ctx := context.Background()

	lokiURL := os.Getenv("LOKI_URL")

	if lokiURL == "" {
		lokiURL = "http://localhost:3100"
	}

	logger, err := NewLokiLogger("daycheck", lokiURL)

	if err != nil {
		log.Fatal("Failed to initialize Loki logger:", err)
	}

	defer logger.Sync()

	telemetry, err := InitTelemetry(TelemetryConfig{
		ServiceName:    "daycheck",
		ServiceVersion: "1.0.0",
		MetricsPort:    "9091",
		OTLPEndpoint:   "localhost:4317",
	})

	if err != nil {
		log.Fatal("Failed to initialize telemetry:", err)
	}

	defer telemetry.Shutdown(ctx)

	metrics := NewAppMetrics(telemetry.PrometheusRegistry)
	metrics.StartSystemMetrics(ctx)

	api.StartServerWithConfig(metrics, logger, LoadFromEnv())
}
