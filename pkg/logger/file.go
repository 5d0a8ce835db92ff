package logger

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// ErrCreateLogDir is returned when the log directory cannot be created.
var ErrCreateLogDir = errors.New("failed to create log directory")

// FileConfig configures the rotating file sinks.
type FileConfig struct {
	Enabled    bool   `env:"LOG_FILES_ENABLED" envDefault:"true"` // Enabled toggles the file sinks.
	Dir        string `env:"LOG_DIR" envDefault:"logs"`           // Dir is the directory holding log files.
	MaxSizeMB  int    `env:"LOG_MAX_SIZE_MB" envDefault:"20"`     // MaxSizeMB is the size that triggers rotation.
	MaxAgeDays int    `env:"LOG_MAX_AGE_DAYS" envDefault:"14"`    // MaxAgeDays is how long rotated files are kept.
	MaxBackups int    `env:"LOG_MAX_BACKUPS" envDefault:"0"`      // MaxBackups caps rotated files, 0 keeps all within MaxAgeDays.
	Compress   bool   `env:"LOG_COMPRESS" envDefault:"false"`     // Compress gzips rotated files.
}

// FileSinks holds the severity-partitioned rotating files:
//
//	application.log  INFO and above
//	requests.log     HTTP access records only
//	error.log        ERROR and above
//
// All files are JSON encoded.
type FileSinks struct {
	handlers []slog.Handler
	closers  []io.Closer
}

// OpenFileSinks prepares the file sinks described by cfg. Files are created
// lazily on first write. A disabled config yields empty sinks.
func OpenFileSinks(cfg FileConfig) (*FileSinks, error) {
	fs := &FileSinks{}
	if !cfg.Enabled {
		return fs, nil
	}

	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, errors.Join(ErrCreateLogDir, err)
	}

	application := fs.open(cfg, "application.log")
	requests := fs.open(cfg, "requests.log")
	errorsFile := fs.open(cfg, "error.log")

	fs.handlers = []slog.Handler{
		newJSONHandler(application, slog.LevelInfo),
		LevelRange(newJSONHandler(requests, LevelHTTP), LevelHTTP, LevelHTTP),
		newJSONHandler(errorsFile, slog.LevelError),
	}
	return fs, nil
}

// Handlers returns the sink handlers for use with WithSinks.
func (fs *FileSinks) Handlers() []slog.Handler {
	return fs.handlers
}

// Close flushes and closes all files.
func (fs *FileSinks) Close() error {
	var errs []error
	for _, c := range fs.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (fs *FileSinks) open(cfg FileConfig, name string) io.Writer {
	w := &lumberjack.Logger{
		Filename:   filepath.Join(cfg.Dir, name),
		MaxSize:    cfg.MaxSizeMB,
		MaxAge:     cfg.MaxAgeDays,
		MaxBackups: cfg.MaxBackups,
		LocalTime:  true,
		Compress:   cfg.Compress,
	}
	fs.closers = append(fs.closers, w)
	return w
}

func newJSONHandler(w io.Writer, level slog.Leveler) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level, ReplaceAttr: replaceLevel})
}
