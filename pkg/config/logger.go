package config

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"daycheck/pkg/tracing"
)

// LokiLogger is the application logger: zap wrapped with otelzap for trace
// correlation, with an optional async push of each entry to a Loki endpoint.
type LokiLogger struct {
	Logger      *otelzap.Logger
	ServiceName string
	lokiURL     string
	httpClient  *http.Client
}

type lokiLogEntry struct {
	Streams []lokiStream `json:"streams"`
}

type lokiStream struct {
	Stream map[string]string `json:"stream"`
	Values [][]string        `json:"values"`
}

func NewLokiLogger(serviceName, lokiURL string) (*LokiLogger, error) {
	config := zap.NewProductionConfig()
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.TimeKey = "timestamp"

	zapLogger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to create zap logger: %w", err)
	}

	otelLogger := otelzap.New(zapLogger)

	return &LokiLogger{
		Logger:      otelLogger,
		ServiceName: serviceName,
		lokiURL:     lokiURL + "/loki/api/v1/push",
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}, nil
}

func (l *LokiLogger) Sync() error {
	return l.Logger.Sync()
}

func (l *LokiLogger) InfoWithTrace(ctx context.Context, msg string, fields ...zap.Field) {
	l.logWithTrace(ctx, zapcore.InfoLevel, msg, fields...)
}

func (l *LokiLogger) ErrorWithTrace(ctx context.Context, msg string, fields ...zap.Field) {
	l.logWithTrace(ctx, zapcore.ErrorLevel, msg, fields...)
}

func (l *LokiLogger) logWithTrace(ctx context.Context, level zapcore.Level, msg string, fields ...zap.Field) {
	logFields := append(fields,
		zap.String("service", l.ServiceName),
		zap.String("level", level.String()),
	)

	switch level {
	case zapcore.ErrorLevel:
		l.Logger.Ctx(ctx).Error(msg, logFields...)
	default:
		l.Logger.Ctx(ctx).Info(msg, logFields...)
	}

	go l.SendToLokiSimple(ctx, level, msg, logFields)
}

// SendToLokiSimple ships one entry to Loki. Failures are swallowed; the local
// zap log already has the line.
func (l *LokiLogger) SendToLokiSimple(ctx context.Context, level zapcore.Level, msg string, fields []zap.Field) {
	logData := map[string]interface{}{
		"timestamp": time.Now().Format(time.RFC3339Nano),
		"level":     level.String(),
		"message":   msg,
		"service":   l.ServiceName,
	}

	if traceID := tracing.GetTraceID(ctx); traceID != "" {
		logData["trace_id"] = traceID
		logData["span_id"] = tracing.GetSpanID(ctx)
	}

	for _, field := range fields {
		switch field.Type {
		case zapcore.StringType:
			logData[field.Key] = field.String
		case zapcore.Int64Type:
			logData[field.Key] = field.Integer
		case zapcore.BoolType:
			logData[field.Key] = field.Integer == 1
		default:
			logData[field.Key] = fmt.Sprintf("%v", field.Interface)
		}
	}

	jsonBytes, err := json.Marshal(logData)
	if err != nil {
		return
	}

	entry := lokiLogEntry{
		Streams: []lokiStream{
			{
				Stream: map[string]string{
					"service": l.ServiceName,
					"level":   level.String(),
				},
				Values: [][]string{
					{fmt.Sprintf("%d", time.Now().UnixNano()), string(jsonBytes)},
				},
			},
		},
	}

	l.sendToLokiHTTP(entry)
}

func (l *LokiLogger) sendToLokiHTTP(entry lokiLogEntry) {
	payload, err := json.Marshal(entry)
	if err != nil {
		return
	}

	resp, err := l.httpClient.Post(l.lokiURL, "application/json", bytes.NewReader(payload))
	if err != nil {
		return
	}

	resp.Body.Close()
}
