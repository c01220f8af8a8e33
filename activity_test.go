package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"strings"
	"testing"
)

func TestActivityEntryString(t *testing.T) {
	ok := ActivityEntry{Actor: "Alice", Activity: "Login", Success: true}
	if got := ok.String(); got != "User 'Alice' - Login: success" {
		t.Fatalf("unexpected line %q", got)
	}
	failed := ActivityEntry{Actor: "anonymous", Activity: "Login"}
	if got := failed.String(); got != "User 'anonymous' - Login: failed" {
		t.Fatalf("unexpected line %q", got)
	}
}

func TestLogRecorder(t *testing.T) {
	var buf bytes.Buffer
	r := NewLogRecorder(newLogger(&buf, slog.LevelInfo))

	record(context.Background(), r, "Bob", "Image analysis", true)

	line := buf.String()
	if !strings.Contains(line, "User 'Bob' - Image analysis: success") {
		t.Fatalf("unexpected log line %q", line)
	}
	if !strings.Contains(line, "INF") {
		t.Fatalf("expected info level in %q", line)
	}
}

func TestMultiRecorder(t *testing.T) {
	a, b := &recordingRecorder{}, &recordingRecorder{}
	m := MultiRecorder(a, b)

	record(context.Background(), m, "Bob", "API call", true)
	record(context.Background(), m, "Bob", "Image analysis", false)

	for _, r := range []*recordingRecorder{a, b} {
		assertEntries(t, r.Entries(),
			wantEntry{"Bob", "API call", true},
			wantEntry{"Bob", "Image analysis", false},
		)
	}
}

func TestPostgresRecorder(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	pg, err := NewPostgresRecorder(ctx, dsn, discardLogger())
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer pg.Close()

	var before int
	pg.pool.QueryRow(ctx, "SELECT count(*) FROM activity_log WHERE actor = 'pg-test'").Scan(&before)

	record(ctx, pg, "pg-test", "Login", true)

	var after int
	if err := pg.pool.QueryRow(ctx, "SELECT count(*) FROM activity_log WHERE actor = 'pg-test'").Scan(&after); err != nil {
		t.Fatalf("count: %v", err)
	}
	if after != before+1 {
		t.Fatalf("expected one new row, got %d -> %d", before, after)
	}
}
