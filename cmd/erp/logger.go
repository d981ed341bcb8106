package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
)

// dualHandler пишет всё в основной вывод, а ошибки дублирует в файл
type dualHandler struct {
	coreHandler  slog.Handler
	errorHandler slog.Handler
}

func (h *dualHandler) Enabled(ctx context.Context, lvl slog.Level) bool {
	return h.coreHandler.Enabled(ctx, lvl) || h.errorHandler.Enabled(ctx, lvl)
}

func (h *dualHandler) Handle(ctx context.Context, r slog.Record) error {
	var err error

	if h.coreHandler.Enabled(ctx, r.Level) {
		if err = h.coreHandler.Handle(ctx, r); err != nil {
			return err
		}
	}

	if r.Level >= slog.LevelError && h.errorHandler.Enabled(ctx, r.Level) {
		// ошибку записи в файл наружу не отдаём
		if fileErr := h.errorHandler.Handle(ctx, r.Clone()); fileErr != nil {
			fmt.Fprintf(os.Stderr, "errors.log: %v\n", fileErr)
		}
	}

	return err
}

func (h *dualHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &dualHandler{
		coreHandler:  h.coreHandler.WithAttrs(attrs),
		errorHandler: h.errorHandler.WithAttrs(attrs),
	}
}

func (h *dualHandler) WithGroup(name string) slog.Handler {
	return &dualHandler{
		coreHandler:  h.coreHandler.WithGroup(name),
		errorHandler: h.errorHandler.WithGroup(name),
	}
}

func newCoreHandler(env string) slog.Handler {
	level := slog.LevelDebug
	if env == envProd {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	switch env {
	case envDev:
		return slog.NewJSONHandler(os.Stdout, opts)
	default:
		return slog.NewTextHandler(os.Stdout, opts)
	}
}

// setupLogger возвращает логгер и функцию закрытия файла ошибок
func setupLogger(env, errorLogPath string) (*slog.Logger, func()) {
	coreHandler := newCoreHandler(env)

	errorFile, err := os.OpenFile(errorLogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		logger := slog.New(coreHandler)
		logger.Warn("Cannot open error log file", slog.String("path", errorLogPath), slog.String("error", err.Error()))
		return logger, func() {}
	}

	errorHandler := slog.NewTextHandler(errorFile, &slog.HandlerOptions{Level: slog.LevelError})

	logger := slog.New(&dualHandler{
		coreHandler:  coreHandler,
		errorHandler: errorHandler,
	})

	return logger, func() { errorFile.Close() }
}
