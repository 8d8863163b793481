// Package orchestrator implements the pipeline state machine described in §4.9:
// Init -> Validate -> (Deconstruct || Preliminary-Diagnose) -> Diagnose -> Design ->
// Sample -> Evaluate -> Done, with adaptive parallel/sequential dispatch and an
// explicit, never-fatal error envelope.
package orchestrator

import (
	"context"
	"sync"

	"github.com/meridianai/promptforge/internal/agents"
	"github.com/meridianai/promptforge/internal/metrics"
	"github.com/meridianai/promptforge/internal/parser"
	"github.com/meridianai/promptforge/internal/retry"
	"github.com/meridianai/promptforge/internal/tracing"
	"github.com/meridianai/promptforge/internal/validate"
)

// maxParallelWorkers bounds concurrent role calls within one optimisation request, per
// the §5 concurrency model.
const maxParallelWorkers = 3

// parallelLengthThreshold is the prompt-length dispatch trigger independent of category.
const parallelLengthThreshold = 500

// sampleOutputPlaceholder is fed to Evaluate when Sample exhausts its retry budget, so
// Evaluate can still run against something. Per §4.9 it is never stored in the record's
// sample_output field, which is left null on exhaustion; see DESIGN.md.
const sampleOutputPlaceholder = "Sample output generation failed."

// Orchestrator owns per-request state exclusively; it holds no cross-request mutable
// state of its own beyond the shared, thread-safe Runtime it was constructed with.
type Orchestrator struct {
	runtime *agents.Runtime
	metrics *metrics.Registry
	sem     chan struct{}
}

// New constructs an Orchestrator around a shared agents.Runtime.
func New(runtime *agents.Runtime, reg *metrics.Registry) *Orchestrator {
	return &Orchestrator{
		runtime: runtime,
		metrics: reg,
		sem:     make(chan struct{}, maxParallelWorkers),
	}
}

// Optimize runs one full optimisation request end to end, returning a Record that is
// always non-nil. Validation failures short-circuit immediately; downstream failures
// degrade the record but never produce a hard error.
func (o *Orchestrator) Optimize(ctx context.Context, rawPrompt, category string) *Record {
	o.metrics.IncAPIRequest()

	validated, err := validate.Validate(rawPrompt, category)
	if err != nil {
		return &Record{
			Original:     rawPrompt,
			Category:     category,
			WorkflowMode: ModeSequential,
			Errors:       []string{err.Error()},
		}
	}

	ctx, rootSpan := tracing.StartRequest(ctx, string(validated.Category))
	defer rootSpan.End()

	record := &Record{Original: validated.RawText, Category: string(validated.Category)}

	useParallel := agents.ParallelEligible[validated.Category] || len(validated.RawText) > parallelLengthThreshold
	if useParallel {
		record.WorkflowMode = ModeParallel
	} else {
		record.WorkflowMode = ModeSequential
	}

	deconstruction, diagnosis, ok := o.runDeconstructAndDiagnose(ctx, validated, useParallel, record)
	if !ok {
		return record
	}
	record.Deconstruction = ptr(deconstruction)
	record.Diagnosis = ptr(diagnosis)

	designContent, ok := o.runDesign(ctx, validated, deconstruction, diagnosis, record)
	if !ok {
		return record
	}
	record.OptimizedPrompt = ptr(designContent)

	optimizedPromptText := parser.ExtractOptimizedPrompt(designContent)

	sampleOutput, sampleOK := o.runSample(ctx, optimizedPromptText, validated.Category, record)
	if sampleOK {
		record.SampleOutput = ptr(sampleOutput)
	}

	o.runEvaluate(ctx, validated.RawText, optimizedPromptText, sampleOutput, validated.Category, record)

	return record
}

func (o *Orchestrator) runDeconstructAndDiagnose(ctx context.Context, req validate.Result, useParallel bool, record *Record) (deconstruction, diagnosis string, ok bool) {
	stageCtx, span := tracing.StartStage(ctx, "deconstruct_diagnose")
	defer span.End()

	var deconstructOut, preliminaryOut struct {
		content string
		success bool
		errs    []string
	}

	if useParallel {
		var wg sync.WaitGroup
		wg.Add(2)

		go func() {
			defer wg.Done()
			o.acquire()
			defer o.release()
			out := o.runtime.Deconstruct(stageCtx, req.RawText, req.Category)
			deconstructOut.content, deconstructOut.success, deconstructOut.errs = out.Content, out.Success, out.Errors
		}()
		go func() {
			defer wg.Done()
			o.acquire()
			defer o.release()
			// advisory only; its result is discarded once the full Diagnose runs
			o.runtime.PreliminaryDiagnose(stageCtx, req.RawText, req.Category)
		}()
		wg.Wait()
	} else {
		out := o.runtime.Deconstruct(stageCtx, req.RawText, req.Category)
		deconstructOut.content, deconstructOut.success, deconstructOut.errs = out.Content, out.Success, out.Errors
	}

	if !deconstructOut.success {
		record.Errors = append(record.Errors, deconstructOut.errs...)
		return "", "", false
	}

	diagnoseOut := o.runtime.Diagnose(stageCtx, req.RawText, deconstructOut.content, req.Category)
	if !diagnoseOut.Success {
		record.Errors = append(record.Errors, diagnoseOut.Errors...)
		return "", "", false
	}

	return deconstructOut.content, diagnoseOut.Content, true
}

func (o *Orchestrator) runDesign(ctx context.Context, req validate.Result, deconstruction, diagnosis string, record *Record) (string, bool) {
	stageCtx, span := tracing.StartStage(ctx, "design")
	defer span.End()

	out := o.runtime.Design(stageCtx, req.RawText, deconstruction, diagnosis, req.Category, agents.RAGHints{})
	if !out.Success {
		record.Errors = append(record.Errors, out.Errors...)
		return "", false
	}
	return out.Content, true
}

// runSample returns the sample text to feed Evaluate plus whether it should be recorded
// on the Record. On retry exhaustion it returns the placeholder for Evaluate's benefit
// but reports ok=false so the caller leaves sample_output null (§4.9).
func (o *Orchestrator) runSample(ctx context.Context, optimizedPrompt string, category agents.Category, record *Record) (output string, ok bool) {
	stageCtx, span := tracing.StartStage(ctx, "sample")
	defer span.End()

	cfg := retry.SampleEvaluateConfig()
	out := o.runtime.Sample(stageCtx, optimizedPrompt, category, &cfg)
	if !out.Success {
		record.Errors = append(record.Errors, out.Errors...)
		return sampleOutputPlaceholder, false
	}
	return out.Content, true
}

func (o *Orchestrator) runEvaluate(ctx context.Context, original, optimizedPrompt, sampleOutput string, category agents.Category, record *Record) {
	stageCtx, span := tracing.StartStage(ctx, "evaluate")
	defer span.End()

	cfg := retry.SampleEvaluateConfig()
	result := o.runtime.Evaluate(stageCtx, original, optimizedPrompt, sampleOutput, category, &cfg)
	if !result.Output.Success {
		record.Errors = append(record.Errors, result.Output.Errors...)
		return
	}

	record.Evaluation = ptr(result.Output.Content)
	record.QualityScore = intPtr(result.QualityScore)
	if result.ScoreDefaulted {
		record.Errors = append(record.Errors, "quality_score defaulted")
	}
}

func (o *Orchestrator) acquire() { o.sem <- struct{}{} }
func (o *Orchestrator) release() { <-o.sem }
