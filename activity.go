package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

const (
	activityLogin           = "Login"
	activityLogout          = "Logout"
	activityAPICall         = "API call"
	activityImageAnalysis   = "Image analysis"
	activityImageProcessing = "Image processing"

	anonymousActor = "anonymous"
)

// ActivityEntry is one user-visible event. Entries are written once and
// never read back.
type ActivityEntry struct {
	Actor    string
	Activity string
	Success  bool
	At       time.Time
}

func (e ActivityEntry) String() string {
	status := "failed"
	if e.Success {
		status = "success"
	}
	return fmt.Sprintf("User '%s' - %s: %s", e.Actor, e.Activity, status)
}

// ActivityRecorder appends activity entries to some sink.
type ActivityRecorder interface {
	Record(ctx context.Context, e ActivityEntry)
}

// newLogger builds the process logger. Colour is only used on terminals.
func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	noColor := true
	if f, ok := w.(*os.File); ok {
		noColor = !isatty.IsTerminal(f.Fd())
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05",
		NoColor:    noColor,
	}))
}

type logRecorder struct {
	logger *slog.Logger
}

// NewLogRecorder writes entries as info lines on logger.
func NewLogRecorder(logger *slog.Logger) ActivityRecorder {
	return &logRecorder{logger: logger}
}

func (r *logRecorder) Record(ctx context.Context, e ActivityEntry) {
	r.logger.InfoContext(ctx, e.String())
}

type multiRecorder []ActivityRecorder

// MultiRecorder forwards every entry to each recorder in order.
func MultiRecorder(recorders ...ActivityRecorder) ActivityRecorder {
	return multiRecorder(recorders)
}

func (m multiRecorder) Record(ctx context.Context, e ActivityEntry) {
	for _, r := range m {
		r.Record(ctx, e)
	}
}

// record stamps and records a single entry.
func record(ctx context.Context, r ActivityRecorder, actor, activity string, success bool) {
	r.Record(ctx, ActivityEntry{
		Actor:    actor,
		Activity: activity,
		Success:  success,
		At:       time.Now(),
	})
}
