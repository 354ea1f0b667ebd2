package analysis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/seoplanner-backend/internal/platform/ctxutil"
	"github.com/yungbote/seoplanner-backend/internal/platform/httpx"
	"github.com/yungbote/seoplanner-backend/internal/platform/logger"
)

var ErrNoGenerator = errors.New("analysis: generator not configured")

// Policy controls retries and pacing of model calls.
type Policy struct {
	MaxRetries   int
	RetryBackoff time.Duration
	BatchDelay   time.Duration
	CallTimeout  time.Duration
}

func DefaultPolicy() Policy {
	return Policy{
		MaxRetries:   2,
		RetryBackoff: 2 * time.Second,
		BatchDelay:   500 * time.Millisecond,
		CallTimeout:  120 * time.Second,
	}
}

type Orchestrator struct {
	log    *logger.Logger
	gen    Generator
	cache  Cache
	policy Policy
	cfg    GenerateConfig
	sleep  func(ctx context.Context, d time.Duration) error
	tracer trace.Tracer
}

type Option func(*Orchestrator)

func WithCache(c Cache) Option { return func(o *Orchestrator) { o.cache = c } }

func WithPolicy(p Policy) Option { return func(o *Orchestrator) { o.policy = p } }

func WithGenerateConfig(cfg GenerateConfig) Option { return func(o *Orchestrator) { o.cfg = cfg } }

// WithSleep replaces the wait between retries and batches.
func WithSleep(fn func(ctx context.Context, d time.Duration) error) Option {
	return func(o *Orchestrator) {
		if fn != nil {
			o.sleep = fn
		}
	}
}

func NewOrchestrator(log *logger.Logger, gen Generator, opts ...Option) *Orchestrator {
	if log == nil {
		log = logger.Nop()
	}
	o := &Orchestrator{
		log:    log.With("service", "AnalysisOrchestrator"),
		gen:    gen,
		policy: DefaultPolicy(),
		cfg:    DefaultGenerateConfig,
		sleep:  httpx.Sleep,
		tracer: otel.Tracer("seoplanner/analysis"),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.policy.MaxRetries < 0 {
		o.policy.MaxRetries = 0
	}
	return o
}

// Analyze runs every batch in order and merges what succeeded. A failed batch
// is recorded and the loop moves on; only cancellation of ctx stops it early,
// in which case the partial result is returned with ctx's error.
func (o *Orchestrator) Analyze(ctx context.Context, keywords []string) (*SemanticAnalysisResult, error) {
	out := &SemanticAnalysisResult{
		AnalysisPayload: AnalysisPayload{
			Duplicates:      []Duplicate{},
			Clusters:        []ProposedCluster{},
			Canibalizations: []Canibalization{},
			Intentions:      map[string]string{},
		},
		FailedBatches: []int{},
	}
	batches := Split(keywords)
	out.TotalBatches = len(batches)
	if len(batches) == 0 {
		return out, nil
	}
	// Without a generator only a fully cached run can succeed.
	if o.gen == nil && !o.cachedAll(ctx, batches) {
		return nil, ErrNoGenerator
	}

	ctx, span := o.tracer.Start(ctx, "analysis.analyze", trace.WithAttributes(
		attribute.Int("keywords", len(keywords)),
		attribute.Int("batches", len(batches)),
	))
	defer span.End()

	for i, batch := range batches {
		if i > 0 {
			if err := o.sleep(ctx, o.policy.BatchDelay); err != nil {
				o.failRemaining(out, i, err)
				return out, err
			}
		}
		payload, cached, err := o.runBatch(ctx, i, batch)
		if err != nil {
			if ctx.Err() != nil {
				o.failRemaining(out, i, ctx.Err())
				return out, ctx.Err()
			}
			out.FailedBatches = append(out.FailedBatches, i)
			out.BatchErrors = append(out.BatchErrors, fmt.Sprintf("batch %d: %v", i, err))
			continue
		}
		if cached {
			out.CachedBatches++
		}
		merge(&out.AnalysisPayload, payload)
	}
	out.FailedCount = len(out.FailedBatches)
	if out.FailedCount > 0 {
		span.SetAttributes(attribute.Int("failed_batches", out.FailedCount))
		o.log.Warn("Semantic analysis finished with failed batches",
			append(ctxutil.LogFields(ctx), "failed", out.FailedCount, "total", out.TotalBatches)...)
	}
	return out, nil
}

func (o *Orchestrator) cachedAll(ctx context.Context, batches [][]string) bool {
	if o.cache == nil {
		return false
	}
	for _, batch := range batches {
		if p, ok, err := o.cache.Get(ctx, BatchKey(batch)); err != nil || !ok || p == nil {
			return false
		}
	}
	return true
}

func (o *Orchestrator) failRemaining(out *SemanticAnalysisResult, from int, err error) {
	for j := from; j < out.TotalBatches; j++ {
		out.FailedBatches = append(out.FailedBatches, j)
		out.BatchErrors = append(out.BatchErrors, fmt.Sprintf("batch %d: %v", j, err))
	}
	out.FailedCount = len(out.FailedBatches)
}

func (o *Orchestrator) runBatch(ctx context.Context, idx int, batch []string) (*AnalysisPayload, bool, error) {
	ctx, span := o.tracer.Start(ctx, "analysis.batch", trace.WithAttributes(
		attribute.Int("batch.index", idx),
		attribute.Int("batch.size", len(batch)),
	))
	defer span.End()

	key := BatchKey(batch)
	if o.cache != nil {
		p, ok, err := o.cache.Get(ctx, key)
		if err != nil {
			o.log.Warn("Analysis cache read failed", "batch", idx, "error", err)
		} else if ok && p != nil {
			span.SetAttributes(attribute.Bool("cache.hit", true))
			return p, true, nil
		}
	}
	if o.gen == nil {
		return nil, false, ErrNoGenerator
	}

	resp, err := o.Call(ctx, AnalysisPrompt(batch), KindAnalysis)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, false, err
	}
	if o.cache != nil {
		if err := o.cache.Set(ctx, key, resp.Analysis); err != nil {
			o.log.Warn("Analysis cache write failed", "batch", idx, "error", err)
		}
	}
	return resp.Analysis, false, nil
}

// Call sends one prompt and parses the reply as kind, retrying any failure up
// to MaxRetries times with a fixed backoff. Each attempt gets its own timeout.
func (o *Orchestrator) Call(ctx context.Context, prompt string, kind Kind) (Response, error) {
	if o.gen == nil {
		return Response{}, ErrNoGenerator
	}
	var lastErr error
	for attempt := 0; attempt <= o.policy.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return Response{}, err
		}
		resp, err := o.callOnce(ctx, prompt, kind)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return Response{}, ctx.Err()
		}
		if attempt == o.policy.MaxRetries {
			break
		}
		o.log.Warn("Model call failed, retrying",
			append(ctxutil.LogFields(ctx),
				"kind", string(kind),
				"attempt", attempt+1,
				"max_retries", o.policy.MaxRetries,
				"transient", httpx.IsRetryableError(err) || IsMalformed(err),
				"error", err.Error(),
			)...)
		if err := o.sleep(ctx, o.policy.RetryBackoff); err != nil {
			return Response{}, err
		}
	}
	return Response{}, fmt.Errorf("%s call failed after %d attempts: %w", kind, o.policy.MaxRetries+1, lastErr)
}

func (o *Orchestrator) callOnce(ctx context.Context, prompt string, kind Kind) (Response, error) {
	callCtx := ctx
	if o.policy.CallTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, o.policy.CallTimeout)
		defer cancel()
	}
	raw, err := o.gen.Generate(callCtx, prompt, o.cfg)
	if err != nil {
		return Response{}, err
	}
	return Parse(raw, kind)
}

// merge concatenates lists and lets later batches win on intention keys.
func merge(dst *AnalysisPayload, src *AnalysisPayload) {
	if src == nil {
		return
	}
	dst.Duplicates = append(dst.Duplicates, src.Duplicates...)
	dst.Clusters = append(dst.Clusters, src.Clusters...)
	dst.Canibalizations = append(dst.Canibalizations, src.Canibalizations...)
	for k, v := range src.Intentions {
		dst.Intentions[k] = v
	}
}
