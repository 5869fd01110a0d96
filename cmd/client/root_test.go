package client

import (
	"testing"
	"time"
)

// TestReplyContextWithoutTimeout verifies that 0 means waiting without deadline
func TestReplyContextWithoutTimeout(t *testing.T) {
	ctx, cancel := replyContext(0)
	defer cancel()

	if _, ok := ctx.Deadline(); ok {
		t.Error("Expected no deadline for timeout 0")
	}
	if ctx.Err() != nil {
		t.Errorf("Context done right away: %v", ctx.Err())
	}

	cancel()
	if ctx.Err() == nil {
		t.Error("Expected cancel to end the context")
	}
}

// TestReplyContextWithTimeout verifies that a positive timeout sets the deadline
func TestReplyContextWithTimeout(t *testing.T) {
	ctx, cancel := replyContext(2)
	defer cancel()

	deadline, ok := ctx.Deadline()
	if !ok {
		t.Fatal("Expected a deadline")
	}
	if left := time.Until(deadline); left <= time.Second || left > 2*time.Second {
		t.Errorf("Unexpected time left until deadline: %s", left)
	}
}
