package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/funvibe/tycore/internal/config"
)

func TestRun(t *testing.T) {
	tests := []struct {
		args     []string
		code     int
		stdout   string
		stderrIn string
	}{
		{[]string{"eval", "1 + 2 * 3"}, 0, "7\n", ""},
		{[]string{"eval", "7", "/", "2"}, 0, "3.5\n", ""},
		{[]string{"eval", "X = 2; X * 3"}, 0, "6\n", ""},
		{[]string{"eval", "len([1, 2, 3])"}, 0, "3\n", ""},
		{[]string{"eval", "1 +"}, 1, "", "P001"},
		{[]string{"eval", "Imt + 1"}, 1, "", "E001"},
		{[]string{"lookup", "Int"}, 0, "Int: ", ""},
		{[]string{"lookup", "Imt"}, 1, "", "Int"},
		{[]string{"bogus"}, 2, "", "unknown command"},
		{nil, 2, "", "Usage"},
	}
	for _, tt := range tests {
		var stdout, stderr bytes.Buffer
		code := run(tt.args, &stdout, &stderr)
		if code != tt.code {
			t.Errorf("run(%v) = %d, want %d (stderr %s)", tt.args, code, tt.code, stderr.String())
		}
		if tt.stdout != "" && !strings.HasPrefix(stdout.String(), tt.stdout) {
			t.Errorf("run(%v) stdout = %q, want prefix %q", tt.args, stdout.String(), tt.stdout)
		}
		if tt.stderrIn != "" && !strings.Contains(stderr.String(), tt.stderrIn) {
			t.Errorf("run(%v) stderr = %q, want it to mention %q", tt.args, stderr.String(), tt.stderrIn)
		}
	}
}

func TestRunDir(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"dir"}, &stdout, &stderr); code != 0 {
		t.Fatalf("run(dir) = %d, stderr %s", code, stderr.String())
	}
	for _, name := range []string{"Int", "Nat", "len", "abs", "print!"} {
		if !strings.Contains(stdout.String(), name+": ") {
			t.Errorf("dir output misses %s", name)
		}
	}
}

func TestNewSessionSharesBuiltins(t *testing.T) {
	cfg := config.DefaultConfig()
	sess, err := newSession(&cfg, cfg.NewLogger())
	if err != nil {
		t.Fatalf("newSession: %v", err)
	}
	if sess.cache.Len() != 1 {
		t.Errorf("cache Len() = %d, want 1", sess.cache.Len())
	}
	registered, ok := sess.cache.BuiltinsCtx()
	if !ok || registered != sess.builtins {
		t.Error("the listed builtins should be the registered ones")
	}
	if _, err := sess.module.GetVarInfo("len"); err != nil {
		t.Errorf("GetVarInfo(len): %v", err)
	}
}
