// Package roller parses and rolls notation on behalf of callers, handling
// seeds and tracing around the dice core.
package roller

import (
	"context"
	"strconv"
	"strings"

	"github.com/aawilson/rputils/internal/core/dice"
	"github.com/aawilson/rputils/internal/core/notation"
	apperrors "github.com/aawilson/rputils/internal/platform/errors"
	"github.com/aawilson/rputils/internal/random"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/aawilson/rputils/internal/services/roller"

// MaxTimes caps how many times one request may roll its notation.
const MaxTimes = 1000

// Request describes one notation to roll.
type Request struct {
	Notation string
	// Seed replays a previous roll when set.
	Seed *int64
	// Detail asks for per-pool outcomes.
	Detail bool
	// Times rolls the notation repeatedly, each time fresh. Zero means once.
	Times int
}

// Roll is one evaluation of the notation.
type Roll struct {
	Total int
	Pools []notation.PoolBreakdown
}

// Response carries every roll plus the seed that produced them.
type Response struct {
	Notation   string
	Canonical  string
	Seed       int64
	SeedSource random.SeedSource
	Rolls      []Roll
}

// Total returns the first roll's total.
func (r Response) Total() int {
	if len(r.Rolls) == 0 {
		return 0
	}
	return r.Rolls[0].Total
}

// Option configures a Service.
type Option func(*Service)

// WithTracerProvider sets the provider spans are recorded on.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *Service) {
		if tp != nil {
			s.tracer = tp.Tracer(instrumentationName)
		}
	}
}

// WithSeedGenerator replaces the entropy seed generator.
func WithSeedGenerator(generate func() (int64, error)) Option {
	return func(s *Service) {
		if generate != nil {
			s.newSeed = generate
		}
	}
}

// WithSourceFactory replaces how a seed becomes a dice.Source.
func WithSourceFactory(factory func(seed int64) dice.Source) Option {
	return func(s *Service) {
		if factory != nil {
			s.newSource = factory
		}
	}
}

// Service rolls notation. It is safe for concurrent use: every request gets
// its own expression tree and source.
type Service struct {
	tracer    trace.Tracer
	newSeed   func() (int64, error)
	newSource func(seed int64) dice.Source
}

// NewService builds a Service seeded from system entropy by default.
func NewService(opts ...Option) *Service {
	s := &Service{
		tracer:  otel.GetTracerProvider().Tracer(instrumentationName),
		newSeed: random.NewSeed,
		newSource: func(seed int64) dice.Source {
			return dice.NewRandSource(seed)
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Roll parses req.Notation and evaluates it req.Times times.
func (s *Service) Roll(ctx context.Context, req Request) (Response, error) {
	_, span := s.tracer.Start(ctx, "roller.Roll", trace.WithAttributes(
		attribute.String("dice.notation", req.Notation),
	))
	defer span.End()

	times := req.Times
	if times <= 0 {
		times = 1
	}
	if times > MaxTimes {
		return Response{}, fail(span, apperrors.WithMetadata(
			apperrors.CodeDiceInvalidParameter,
			"times must not exceed "+strconv.Itoa(MaxTimes),
			map[string]string{"Times": strconv.Itoa(times)},
		))
	}

	expr, err := notation.Parse(strings.TrimSpace(req.Notation))
	if err != nil {
		return Response{}, fail(span, err)
	}
	if draws := expr.Draws(); draws > 0 && times > notation.MaxDraws/draws {
		return Response{}, fail(span, apperrors.WithMetadata(
			apperrors.CodeDiceInvalidParameter,
			"times multiplied by dice rolled must not exceed "+strconv.Itoa(notation.MaxDraws),
			map[string]string{"Times": strconv.Itoa(times), "Draws": strconv.Itoa(draws)},
		))
	}

	seed, seedSource, err := random.ResolveSeed(req.Seed, s.newSeed)
	if err != nil {
		return Response{}, fail(span, err)
	}
	src := s.newSource(seed)

	resp := Response{
		Notation:   req.Notation,
		Canonical:  expr.String(),
		Seed:       seed,
		SeedSource: seedSource,
		Rolls:      make([]Roll, 0, times),
	}
	for i := 0; i < times; i++ {
		if i > 0 {
			expr.Reset()
		}
		roll, err := evaluate(expr, src, req.Detail)
		if err != nil {
			return Response{}, fail(span, err)
		}
		resp.Rolls = append(resp.Rolls, roll)
	}

	span.SetAttributes(
		attribute.String("dice.canonical", resp.Canonical),
		attribute.Int("dice.total", resp.Total()),
		attribute.Int("dice.times", times),
		attribute.String("dice.seed_source", string(seedSource)),
	)
	return resp, nil
}

func evaluate(expr *notation.Expression, src dice.Source, detail bool) (Roll, error) {
	if !detail {
		total, err := expr.Evaluate(src)
		if err != nil {
			return Roll{}, err
		}
		return Roll{Total: total}, nil
	}
	breakdown, err := expr.Detail(src)
	if err != nil {
		return Roll{}, err
	}
	return Roll{Total: breakdown.Total, Pools: breakdown.Pools}, nil
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	span.SetAttributes(attribute.String("error.code", string(apperrors.GetCode(err))))
	return err
}
