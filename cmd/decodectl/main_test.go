package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/danmuck/pktdecode/internal/protocol"
)

func TestRunStdin(t *testing.T) {
	var out bytes.Buffer
	if err := run(nil, strings.NewReader("8A004A801A8002F478\n"), &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := out.String(); got != "version_sum=16\nvalue=15\n" {
		t.Fatalf("unexpected output: %q", got)
	}
}

func TestRunFileWithTree(t *testing.T) {
	path := filepath.Join(t.TempDir(), "16")
	if err := os.WriteFile(path, []byte("9C0141080250320F1802104A08\n"), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	var out bytes.Buffer
	if err := run([]string{"-input", path, "-tree"}, nil, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	want := "version_sum=20\nvalue=1\nexpression=(sum(1, 3) == product(2, 2))\n"
	if out.String() != want {
		t.Fatalf("unexpected output: %q", out.String())
	}
}

func TestRunJSON(t *testing.T) {
	var out bytes.Buffer
	if err := run([]string{"-json"}, strings.NewReader("04005AC33890"), &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	var got report
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Value != 54 || got.VersionSum != 8 || got.Packets != 3 || got.Depth != 2 {
		t.Fatalf("unexpected report: %+v", got)
	}
}

func TestRunErrors(t *testing.T) {
	var out bytes.Buffer
	if err := run(nil, strings.NewReader("D2F"), &out); !errors.Is(err, protocol.ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
	if err := run(nil, strings.NewReader("020000"), &out); !errors.Is(err, protocol.ErrMalformedExpression) {
		t.Fatalf("expected ErrMalformedExpression, got %v", err)
	}
	if err := run([]string{"-max-depth", "1"}, strings.NewReader("C200B40A82"), &out); !errors.Is(err, protocol.ErrDepthExceeded) {
		t.Fatalf("expected ErrDepthExceeded, got %v", err)
	}
	if err := run([]string{"-input", filepath.Join(t.TempDir(), "missing")}, nil, &out); err == nil {
		t.Fatalf("expected missing file error")
	}
	if err := run([]string{"extra"}, strings.NewReader(""), &out); err == nil {
		t.Fatalf("expected unexpected argument error")
	}
	if out.Len() != 0 {
		t.Fatalf("failed runs wrote output: %q", out.String())
	}
}
