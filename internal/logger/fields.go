package logger

import (
	"strings"

	"go.uber.org/zap"
)

// Keys shared by every command, so log queries can join on them.
const (
	FieldProvider = "ai_provider"
	FieldModel    = "ai_model"
	FieldRunID    = "run_id"
	FieldCatalog  = "catalog"
)

// Strings turns alternating key, value arguments into zap string fields.
// Blank keys or values are skipped, a trailing key without a value too.
func Strings(kv ...string) []zap.Field {
	result := make([]zap.Field, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, value := strings.TrimSpace(kv[i]), strings.TrimSpace(kv[i+1])
		if key != "" && value != "" {
			result = append(result, zap.String(key, value))
		}
	}
	return result
}

// WithFields is logger.With that tolerates a nil logger.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		return zap.NewNop().With(fields...)
	}
	if len(fields) == 0 {
		return logger
	}
	return logger.With(fields...)
}

func CommonFields(provider, model string) []zap.Field {
	return Strings(FieldProvider, provider, FieldModel, model)
}

// RunFields tags entries of one match run.
func RunFields(runID, catalog string) []zap.Field {
	return Strings(FieldRunID, runID, FieldCatalog, catalog)
}
