package decoder

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/danmuck/pktdecode/internal/config"
	"github.com/danmuck/pktdecode/internal/protocol"
	"github.com/danmuck/pktdecode/internal/testutil/testlog"
	"github.com/google/go-cmp/cmp"
)

func newService(t *testing.T, cfg Config) *Service {
	t.Helper()
	s, err := New(cfg)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return s
}

func TestDecodeResult(t *testing.T) {
	testlog.Start(t)
	s := newService(t, DefaultConfig())

	got, err := s.Decode(" 9c0141080250320f1802104a08\n")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := Result{
		VersionSum: 20,
		Value:      1,
		Packets:    7,
		Depth:      3,
		Expression: "(sum(1, 3) == product(2, 2))",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("result mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeCachesByNormalizedTransmission(t *testing.T) {
	testlog.Start(t)
	s := newService(t, DefaultConfig())

	first, err := s.Decode("C200B40A82")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if first.Cached {
		t.Fatalf("first decode reported cached")
	}
	second, err := s.Decode("c200b40a82 ")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !second.Cached || second.Value != 3 || second.VersionSum != first.VersionSum {
		t.Fatalf("expected cached copy of first result, got %+v", second)
	}
}

func TestDecodeWithoutCache(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CacheSize = 0
	s := newService(t, cfg)
	for i := 0; i < 2; i++ {
		res, err := s.Decode("04005AC33890")
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if res.Cached || res.Value != 54 {
			t.Fatalf("unexpected result: %+v", res)
		}
	}
}

func TestDecodeErrorsAreKinded(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxTransmissionHex = 32
	s := newService(t, cfg)

	cases := []struct {
		in   string
		want error
		kind string
	}{
		{"", ErrEmptyTransmission, "empty"},
		{strings.Repeat("0", 33), ErrTransmissionTooLarge, "too_large"},
		{"D2FEZ8", protocol.ErrInvalidCharacter, "invalid_character"},
		{"D2FE", protocol.ErrTruncated, "truncated"},
		{"020000", protocol.ErrMalformedExpression, "malformed_expression"},
	}
	for _, tc := range cases {
		_, err := s.Decode(tc.in)
		if !errors.Is(err, tc.want) {
			t.Fatalf("%q: expected %v, got %v", tc.in, tc.want, err)
		}
		if kind := ErrorKind(err); kind != tc.kind {
			t.Fatalf("%q: kind %q, want %q", tc.in, kind, tc.kind)
		}
	}
	if kind := ErrorKind(fmt.Errorf("wrapped: %w", protocol.ErrTrailingData)); kind != "trailing_data" {
		t.Fatalf("kind %q, want trailing_data", kind)
	}
	if ErrorKind(errors.New("other")) != "internal" {
		t.Fatalf("expected internal kind for unknown errors")
	}
}

func TestDecodeIgnoresTrailingBits(t *testing.T) {
	s := newService(t, DefaultConfig())
	res, err := s.Decode("D2FE29")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Value != 2021 || res.VersionSum != 6 {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestDecodeDepthLimit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Limits = protocol.Limits{MaxDepth: 2}
	s := newService(t, cfg)
	_, err := s.Decode("8A004A801A8002F478")
	if ErrorKind(err) != "depth_exceeded" {
		t.Fatalf("expected depth_exceeded, got %v", err)
	}
}

func TestDecodeConcurrentCallers(t *testing.T) {
	s := newService(t, DefaultConfig())
	inputs := map[string]uint64{
		"C200B40A82":     3,
		"04005AC33890":   54,
		"880086C3E88112": 7,
		"CE00C43D881120": 9,
	}
	var wg sync.WaitGroup
	errs := make(chan error, 4*len(inputs))
	for i := 0; i < 4; i++ {
		for in, want := range inputs {
			wg.Add(1)
			go func(in string, want uint64) {
				defer wg.Done()
				res, err := s.Decode(in)
				if err != nil {
					errs <- err
					return
				}
				if res.Value != want {
					errs <- errors.New(in + ": wrong value")
				}
			}(in, want)
		}
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatal(err)
	}
}

func TestConfigFromServiceConfig(t *testing.T) {
	cfg := ConfigFrom(config.ServiceConfig{CacheSize: 8, MaxTransmissionHex: 100, MaxDepth: 3})
	want := Config{CacheSize: 8, MaxTransmissionHex: 100, Limits: protocol.Limits{MaxDepth: 3}}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}
