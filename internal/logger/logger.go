package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Standard field names for structured logging.
const (
	FieldInterviewID = "interview_id"
	FieldCareerID    = "career_id"
	FieldScreeningID = "screening_id"
	FieldAction      = "action"
	FieldStage       = "stage"
	FieldWorkerID    = "worker_id"
	FieldError       = "error"
)

var (
	// Logger is the process-wide logger. It is a no-op until Initialize is called.
	Logger *zap.SugaredLogger
	// JSONOutput reports whether the logger emits JSON.
	JSONOutput bool
)

func init() {
	Logger = zap.NewNop().Sugar()
}

// Initialize sets up the global logger. JSON output is meant for production
// log shipping; console output for local development.
func Initialize(jsonOutput bool) error {
	JSONOutput = jsonOutput

	var zapLogger *zap.Logger
	var err error

	if jsonOutput {
		config := zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
		zapLogger, err = config.Build()
	} else {
		encoderConfig := zap.NewDevelopmentEncoderConfig()
		encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapLogger = zap.New(
			zapcore.NewCore(
				zapcore.NewConsoleEncoder(encoderConfig),
				zapcore.AddSync(os.Stdout),
				zap.DebugLevel,
			),
		)
	}

	if err != nil {
		return err
	}

	Logger = zapLogger.Sugar()
	return nil
}

// Cleanup flushes any buffered log entries
func Cleanup() {
	if Logger != nil {
		_ = Logger.Sync()
	}
}

// Named returns a child logger tagged with a component name.
func Named(component string) *zap.SugaredLogger {
	return Logger.Named(component)
}

func Debugf(format string, args ...interface{}) {
	Logger.Debugf(format, args...)
}

func Infof(format string, args ...interface{}) {
	Logger.Infof(format, args...)
}

// Infow logs an info message with structured fields
func Infow(msg string, keysAndValues ...interface{}) {
	Logger.Infow(msg, keysAndValues...)
}

func Warnf(format string, args ...interface{}) {
	Logger.Warnf(format, args...)
}

// Warnw logs a warning with structured fields
func Warnw(msg string, keysAndValues ...interface{}) {
	Logger.Warnw(msg, keysAndValues...)
}

func Errorf(format string, args ...interface{}) {
	Logger.Errorf(format, args...)
}

// Errorw logs an error with structured fields
func Errorw(msg string, keysAndValues ...interface{}) {
	Logger.Errorw(msg, keysAndValues...)
}

// Fatalf logs and exits the process.
func Fatalf(format string, args ...interface{}) {
	Logger.Fatalf(format, args...)
}
