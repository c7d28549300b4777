package management

import (
	"log/slog"
	"net/http"
	"sort"
	"sync"

	"github.com/gin-gonic/gin"
	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/appgate/internal/errors"
	"github.com/allisson/appgate/internal/httputil"
	customValidation "github.com/allisson/appgate/internal/validation"
)

// rootLoggerName addresses the process-wide default level.
const rootLoggerName = "root"

var logLevelNames = []string{"DEBUG", "INFO", "WARN", "ERROR"}

// SetLogLevelRequest is the write payload for the loggers endpoint.
type SetLogLevelRequest struct {
	ConfiguredLevel string `json:"configuredLevel"`
}

// Validate checks the requested level against the supported set.
func (r *SetLogLevelRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.ConfiguredLevel,
			validation.Required,
			customValidation.NotBlank,
			validation.In("DEBUG", "INFO", "WARN", "ERROR"),
		),
	)
}

// LoggersHandler exposes runtime log level control. The root level is the
// shared slog.LevelVar the application logger was built on, so a write takes
// effect immediately. Named loggers are created on first write.
type LoggersHandler struct {
	logger *slog.Logger

	mu     sync.RWMutex
	root   *slog.LevelVar
	levels map[string]*slog.LevelVar
}

// NewLoggersHandler creates the loggers endpoint handler around the shared
// root level.
func NewLoggersHandler(root *slog.LevelVar, logger *slog.Logger) *LoggersHandler {
	return &LoggersHandler{
		logger: logger,
		root:   root,
		levels: make(map[string]*slog.LevelVar),
	}
}

// Read returns every known logger, or a single logger when a selector is
// present. Unknown selectors yield 404.
func (h *LoggersHandler) Read(c *gin.Context, selector string) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if selector != "" {
		level, ok := h.lookup(selector)
		if !ok {
			httputil.HandleErrorGin(c, apperrors.Wrap(apperrors.ErrNotFound, "unknown logger"), h.logger)
			return
		}
		c.JSON(http.StatusOK, gin.H{"configuredLevel": levelName(level.Level())})
		return
	}

	loggers := gin.H{
		rootLoggerName: gin.H{"configuredLevel": levelName(h.root.Level())},
	}

	names := make([]string, 0, len(h.levels))
	for name := range h.levels {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		loggers[name] = gin.H{"configuredLevel": levelName(h.levels[name].Level())}
	}

	c.JSON(http.StatusOK, gin.H{
		"levels":  logLevelNames,
		"loggers": loggers,
	})
}

// Write changes the configured level of the addressed logger. Without a
// selector the root level changes; named loggers are created on demand.
func (h *LoggersHandler) Write(c *gin.Context, selector string) {
	var request SetLogLevelRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := request.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	level := parseLevel(request.ConfiguredLevel)

	h.mu.Lock()
	target, ok := h.lookup(selector)
	if !ok {
		target = &slog.LevelVar{}
		h.levels[selector] = target
	}
	target.Set(level)
	h.mu.Unlock()

	name := selector
	if name == "" {
		name = rootLoggerName
	}
	h.logger.Info("log level changed",
		slog.String("logger", name),
		slog.String("configured_level", request.ConfiguredLevel),
	)

	c.Status(http.StatusNoContent)
}

// lookup resolves a selector to its level var. Callers hold h.mu.
func (h *LoggersHandler) lookup(selector string) (*slog.LevelVar, bool) {
	if selector == "" || selector == rootLoggerName {
		return h.root, true
	}
	level, ok := h.levels[selector]
	return level, ok
}

// parseLevel maps a validated level name to its slog.Level.
func parseLevel(name string) slog.Level {
	switch name {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// levelName maps a slog.Level back to its exposed name.
func levelName(level slog.Level) string {
	switch {
	case level <= slog.LevelDebug:
		return "DEBUG"
	case level <= slog.LevelInfo:
		return "INFO"
	case level <= slog.LevelWarn:
		return "WARN"
	default:
		return "ERROR"
	}
}
