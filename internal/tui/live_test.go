package tui

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/san-kum/sortviz/internal/dataset"
	"github.com/san-kum/sortviz/internal/session"
	"github.com/san-kum/sortviz/internal/sorter"
)

func TestPlayLive(t *testing.T) {
	sess := session.New(session.DefaultConfig())
	if _, err := sess.StartRun(sorter.Quick, dataset.Demo()); err != nil {
		t.Fatalf("start: %v", err)
	}
	sess.SetSpeed(30)

	var out bytes.Buffer
	r := NewLiveRenderer(&out, "quick", 200)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := PlayLive(ctx, sess, r); err != nil {
		t.Fatalf("play: %v", err)
	}

	text := out.String()
	if !strings.Contains(text, "finished") {
		t.Errorf("final frame should report finished:\n%s", text)
	}
	if r.consumed != sess.Log().Len() {
		t.Errorf("observer saw %d steps, log has %d", r.consumed, sess.Log().Len())
	}
}

func TestPlayLiveCancelled(t *testing.T) {
	sess := session.New(session.DefaultConfig())
	if _, err := sess.StartRun(sorter.Insertion, dataset.Demo()); err != nil {
		t.Fatalf("start: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	if err := PlayLive(ctx, sess, NewLiveRenderer(&out, "insertion", 60)); err == nil {
		t.Error("expected context error")
	}
}
