// Package decoder runs the packet decoder and evaluator for callers that
// handle many transmissions: it bounds input, caches results and records
// metrics.
package decoder

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/danmuck/pktdecode/internal/config"
	"github.com/danmuck/pktdecode/internal/observability"
	"github.com/danmuck/pktdecode/internal/protocol"
	"github.com/danmuck/pktdecode/internal/protocol/eval"
	lru "github.com/hashicorp/golang-lru/v2"
)

var (
	ErrEmptyTransmission    = errors.New("decoder: empty transmission")
	ErrTransmissionTooLarge = errors.New("decoder: transmission too large")
)

// Result is everything derived from one transmission.
type Result struct {
	VersionSum uint64 `json:"version_sum"`
	Value      uint64 `json:"value"`
	Packets    int    `json:"packets"`
	Depth      int    `json:"depth"`
	Expression string `json:"expression"`
	Cached     bool   `json:"cached"`
}

type Config struct {
	CacheSize          int
	MaxTransmissionHex int
	Limits             protocol.Limits
}

func DefaultConfig() Config {
	return Config{
		CacheSize:          1024,
		MaxTransmissionHex: 1 << 20,
		Limits:             protocol.Limits{MaxDepth: 512},
	}
}

// ConfigFrom derives decoder settings from the service config file.
func ConfigFrom(cfg config.ServiceConfig) Config {
	return Config{
		CacheSize:          cfg.CacheSize,
		MaxTransmissionHex: cfg.MaxTransmissionHex,
		Limits:             protocol.Limits{MaxDepth: cfg.MaxDepth},
	}
}

// Service is safe for concurrent use; each call decodes on its own cursor
// and only the result cache is shared.
type Service struct {
	cfg   Config
	cache *lru.Cache[string, Result]
}

func New(cfg Config) (*Service, error) {
	s := &Service{cfg: cfg}
	if cfg.CacheSize > 0 {
		cache, err := lru.New[string, Result](cfg.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("decoder: result cache: %w", err)
		}
		s.cache = cache
	}
	return s, nil
}

// Decode decodes and evaluates one hex transmission.
func (s *Service) Decode(transmission string) (Result, error) {
	start := time.Now()
	res, err := s.decode(transmission)
	kind := "ok"
	if err != nil {
		kind = ErrorKind(err)
	}
	if !res.Cached {
		observability.RecordDecode(kind, res.Packets, time.Since(start))
	}
	return res, err
}

func (s *Service) decode(transmission string) (Result, error) {
	key := strings.ToUpper(strings.TrimSpace(transmission))
	if key == "" {
		return Result{}, ErrEmptyTransmission
	}
	if s.cfg.MaxTransmissionHex > 0 && len(key) > s.cfg.MaxTransmissionHex {
		return Result{}, fmt.Errorf("%w: %d hex digits, limit %d", ErrTransmissionTooLarge, len(key), s.cfg.MaxTransmissionHex)
	}

	if s.cache != nil {
		res, ok := s.cache.Get(key)
		observability.RecordCacheLookup(ok)
		if ok {
			res.Cached = true
			return res, nil
		}
	}

	p, err := protocol.DecodeHexWithLimits(key, s.cfg.Limits)
	if err != nil {
		return Result{}, err
	}
	value, err := eval.Evaluate(p)
	if err != nil {
		return Result{}, err
	}
	res := Result{
		VersionSum: eval.VersionSum(p),
		Value:      value,
		Packets:    protocol.Count(p),
		Depth:      protocol.Depth(p),
		Expression: eval.Render(p),
	}
	if s.cache != nil {
		s.cache.Add(key, res)
	}
	return res, nil
}

// ErrorKind maps a decode failure to a stable label for metrics and
// API responses.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, protocol.ErrInvalidCharacter):
		return "invalid_character"
	case errors.Is(err, protocol.ErrTruncated):
		return "truncated"
	case errors.Is(err, protocol.ErrMalformedExpression):
		return "malformed_expression"
	case errors.Is(err, protocol.ErrPayloadOverflow):
		return "payload_overflow"
	case errors.Is(err, protocol.ErrTrailingData):
		return "trailing_data"
	case errors.Is(err, protocol.ErrDepthExceeded):
		return "depth_exceeded"
	case errors.Is(err, ErrEmptyTransmission):
		return "empty"
	case errors.Is(err, ErrTransmissionTooLarge):
		return "too_large"
	default:
		return "internal"
	}
}
