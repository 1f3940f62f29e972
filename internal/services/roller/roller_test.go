package roller

import (
	"context"
	"errors"
	"testing"

	"github.com/aawilson/rputils/internal/core/dice"
	"github.com/aawilson/rputils/internal/core/dice/dicetest"
	"github.com/aawilson/rputils/internal/core/notation"
	apperrors "github.com/aawilson/rputils/internal/platform/errors"
	"github.com/aawilson/rputils/internal/random"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newRecordedService(t *testing.T, opts ...Option) (*Service, *tracetest.SpanRecorder) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return NewService(append([]Option{WithTracerProvider(tp)}, opts...)...), recorder
}

func constantSource(value int) func(int64) dice.Source {
	return func(int64) dice.Source { return dicetest.NewSequence(value) }
}

func TestRollUsesGeneratedSeed(t *testing.T) {
	var gotSeed int64
	svc, recorder := newRecordedService(t,
		WithSeedGenerator(func() (int64, error) { return 99, nil }),
		WithSourceFactory(func(seed int64) dice.Source {
			gotSeed = seed
			return dicetest.NewSequence(3)
		}),
	)

	resp, err := svc.Roll(context.Background(), Request{Notation: " 2d6+3 "})
	if err != nil {
		t.Fatalf("Roll returned error: %v", err)
	}
	if resp.Total() != 9 {
		t.Fatalf("total = %d, want 9", resp.Total())
	}
	if gotSeed != 99 || resp.Seed != 99 {
		t.Fatalf("seed = %d (factory %d), want 99", resp.Seed, gotSeed)
	}
	if resp.SeedSource != random.SeedSourceGenerated {
		t.Fatalf("seed source = %q, want %q", resp.SeedSource, random.SeedSourceGenerated)
	}
	if resp.Canonical != "2d6+3" {
		t.Fatalf("canonical = %q, want %q", resp.Canonical, "2d6+3")
	}
	if resp.Rolls[0].Pools != nil {
		t.Fatal("expected no breakdown without Detail")
	}

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("spans = %d, want 1", len(spans))
	}
	if spans[0].Name() != "roller.Roll" {
		t.Fatalf("span name = %q, want %q", spans[0].Name(), "roller.Roll")
	}
	if !hasAttribute(spans[0].Attributes(), attribute.Int("dice.total", 9)) {
		t.Fatalf("span attributes missing total: %v", spans[0].Attributes())
	}
}

func TestRollReplaysRequestedSeed(t *testing.T) {
	svc := NewService(WithSeedGenerator(func() (int64, error) {
		return 0, errors.New("generator should not run")
	}))
	seed := int64(2024)

	first, err := svc.Roll(context.Background(), Request{Notation: "4i6 + d%", Seed: &seed, Times: 5})
	if err != nil {
		t.Fatalf("Roll returned error: %v", err)
	}
	second, err := svc.Roll(context.Background(), Request{Notation: "4i6 + d%", Seed: &seed, Times: 5})
	if err != nil {
		t.Fatalf("Roll returned error: %v", err)
	}
	if first.SeedSource != random.SeedSourceClient {
		t.Fatalf("seed source = %q, want %q", first.SeedSource, random.SeedSourceClient)
	}
	if len(first.Rolls) != 5 {
		t.Fatalf("rolls = %d, want 5", len(first.Rolls))
	}
	for i := range first.Rolls {
		if first.Rolls[i].Total != second.Rolls[i].Total {
			t.Fatalf("roll %d differs: %d != %d", i, first.Rolls[i].Total, second.Rolls[i].Total)
		}
	}
}

func TestRollTimesDrawsFreshEachTime(t *testing.T) {
	svc := NewService(WithSourceFactory(func(int64) dice.Source {
		return dicetest.NewSequence(1, 2, 3, 4, 5, 6)
	}))
	resp, err := svc.Roll(context.Background(), Request{Notation: "1d6", Times: 3, Detail: true})
	if err != nil {
		t.Fatalf("Roll returned error: %v", err)
	}
	for i, roll := range resp.Rolls {
		if roll.Total != i+1 {
			t.Fatalf("roll %d total = %d, want %d", i, roll.Total, i+1)
		}
		if len(roll.Pools) != 1 || roll.Pools[0].Outcomes[0] != i+1 {
			t.Fatalf("roll %d pools = %+v", i, roll.Pools)
		}
	}
}

func TestRollDetail(t *testing.T) {
	svc := NewService(WithSourceFactory(constantSource(4)))
	resp, err := svc.Roll(context.Background(), Request{Notation: "3 x 2d6", Detail: true})
	if err != nil {
		t.Fatalf("Roll returned error: %v", err)
	}
	if resp.Total() != 24 {
		t.Fatalf("total = %d, want 24", resp.Total())
	}
	if len(resp.Rolls[0].Pools) != 3 {
		t.Fatalf("pools = %d, want 3", len(resp.Rolls[0].Pools))
	}
}

func TestRollErrors(t *testing.T) {
	tests := []struct {
		name     string
		request  Request
		wantErr  error
		wantCode apperrors.Code
	}{
		{name: "syntax", request: Request{Notation: "2d"}, wantErr: notation.ErrSyntax, wantCode: apperrors.CodeNotationSyntax},
		{name: "invalid parameter", request: Request{Notation: "2d0"}, wantErr: dice.ErrInvalidParameter, wantCode: apperrors.CodeDiceInvalidParameter},
		{name: "empty pool", request: Request{Notation: "0d6"}, wantErr: dice.ErrEmptyPool, wantCode: apperrors.CodeDiceEmptyPool},
		{name: "too many times", request: Request{Notation: "1d6", Times: MaxTimes + 1}, wantErr: dice.ErrInvalidParameter, wantCode: apperrors.CodeDiceInvalidParameter},
		{name: "times over draw budget", request: Request{Notation: "1000d6", Times: 101}, wantErr: dice.ErrInvalidParameter, wantCode: apperrors.CodeDiceInvalidParameter},
		{name: "huge sides", request: Request{Notation: "z9223372036854775807"}, wantErr: dice.ErrInvalidParameter, wantCode: apperrors.CodeDiceInvalidParameter},
		{name: "huge count", request: Request{Notation: "99999999999999d6"}, wantErr: dice.ErrInvalidParameter, wantCode: apperrors.CodeDiceInvalidParameter},
		{name: "huge repeat", request: Request{Notation: "1000000000000 x d6"}, wantErr: dice.ErrInvalidParameter, wantCode: apperrors.CodeDiceInvalidParameter},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, recorder := newRecordedService(t, WithSourceFactory(constantSource(1)))
			_, err := svc.Roll(context.Background(), tt.request)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Roll error = %v, want %v", err, tt.wantErr)
			}
			spans := recorder.Ended()
			if len(spans) != 1 {
				t.Fatalf("spans = %d, want 1", len(spans))
			}
			if spans[0].Status().Code != codes.Error {
				t.Fatalf("span status = %v, want %v", spans[0].Status().Code, codes.Error)
			}
			if !hasAttribute(spans[0].Attributes(), attribute.String("error.code", string(tt.wantCode))) {
				t.Fatalf("span attributes missing error code: %v", spans[0].Attributes())
			}
		})
	}
}

func TestRollSeedUnavailable(t *testing.T) {
	svc := NewService(WithSeedGenerator(func() (int64, error) {
		return 0, errors.New("no entropy")
	}))
	_, err := svc.Roll(context.Background(), Request{Notation: "1d6"})
	if !apperrors.IsCode(err, apperrors.CodeSeedUnavailable) {
		t.Fatalf("Roll error = %v, want code %q", err, apperrors.CodeSeedUnavailable)
	}
}

func hasAttribute(attrs []attribute.KeyValue, want attribute.KeyValue) bool {
	for _, attr := range attrs {
		if attr.Key == want.Key && attr.Value == want.Value {
			return true
		}
	}
	return false
}
