// Package scanner drives the reflect, classify, exploit pipeline for every
// parameter of a target.
package scanner

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog/log"

	"xsscan/internal/ai"
	"xsscan/internal/contexts"
	"xsscan/internal/models"
	"xsscan/internal/payloads"
	"xsscan/internal/probe"
	"xsscan/internal/requester"
)

const defaultWorkers = 5

// snippetChars is how much surrounding HTML is captured for the AI
// collaborator on each side of the probe.
const snippetChars = 200

// Reporter consumes findings as they are confirmed. Calls are synchronous
// and must be cheap; persistence happens after the scan.
type Reporter interface {
	AddFinding(f models.Finding)
}

// Engine runs the per-parameter scan tasks for one target.
type Engine struct {
	target  models.ScanTarget
	client  *requester.HTTPClient
	catalog *payloads.Catalog
	gen     *ai.Generator
	rep     Reporter

	// Coarse lock covering the found counter and the reporter hand-off.
	// Critical sections are tiny; nothing finer is needed.
	mu    sync.Mutex
	found int
}

// New creates an Engine. gen may be nil (no AI payloads); rep may be nil
// (findings are only counted).
func New(target models.ScanTarget, client *requester.HTTPClient, catalog *payloads.Catalog, gen *ai.Generator, rep Reporter) *Engine {
	return &Engine{
		target:  target,
		client:  client,
		catalog: catalog,
		gen:     gen,
		rep:     rep,
	}
}

// Run schedules one task per parameter onto a fixed-size worker pool and
// blocks until all tasks finish, returning the total number of confirmed
// findings. Findings surface in completion order; no ordering across
// parameters is promised. Cancelling ctx stops scheduling new tasks and
// ends in-flight payload loops early, but findings already recorded stay.
func (e *Engine) Run(ctx context.Context) int {
	workers := e.target.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}

	log.Info().
		Int("params", len(e.target.Params)).
		Int("workers", workers).
		Str("method", e.target.Method).
		Msg("Scan starting")

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for name := range e.target.Params {
		if ctx.Err() != nil {
			log.Warn().Msg("Scan interrupted, waiting for in-flight tasks")
			break
		}

		wg.Add(1)
		go func(param string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			// One parameter's fault never aborts its siblings.
			defer func() {
				if r := recover(); r != nil {
					log.Error().Interface("panic", r).Str("param", param).Msg("Parameter scan failed")
				}
			}()
			e.scanParameter(ctx, param)
		}(name)
	}

	wg.Wait()
	return e.Found()
}

// Found returns the number of findings recorded so far.
func (e *Engine) Found() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.found
}

// scanParameter runs the full per-parameter procedure: inject a probe,
// confirm reflection, classify contexts, then test context-specific
// payloads until the first confirmed hit per context.
func (e *Engine) scanParameter(ctx context.Context, param string) {
	marker := probe.New()

	resp, err := e.client.Send(ctx, e.target, param, marker)
	if err != nil {
		// Transport failure means "no reflection" for this probe, not a
		// scan-aborting error.
		log.Debug().Err(err).Str("param", param).Msg("Probe request failed")
		return
	}
	if !strings.Contains(resp.Body, marker) {
		log.Debug().Str("param", param).Msg("Probe not reflected")
		return
	}

	detected := contexts.Classify(resp.Body, marker, resp.ContentType)
	if detected.Cardinality() == 0 {
		log.Debug().Str("param", param).Msg("Reflected but no injection context detected")
		return
	}
	log.Info().
		Str("param", param).
		Int("contexts", detected.Cardinality()).
		Msg("Probe reflected")

	snippet := extractSnippet(resp.Body, marker, snippetChars)

	// One trigger per parameter-scan keeps the oracle's keyword match
	// consistent across every template tested here.
	trigger := e.catalog.Trigger()

	for ictx := range detected.Iter() {
		e.testContext(ctx, param, ictx, trigger, snippet)
	}
}

// testContext tests payloads for a single detected context in list order,
// stopping at the first confirmed hit. One confirmed vector per context is
// sufficient signal; further payloads in the same context are not tried.
func (e *Engine) testContext(ctx context.Context, param string, ictx contexts.Context, trigger, snippet string) {
	candidates := e.catalog.For(ictx, trigger)
	if extra := e.gen.Payloads(ctx, param, ictx.String(), snippet); len(extra) > 0 {
		candidates = append(candidates, extra...)
	}

	for _, payload := range candidates {
		if ctx.Err() != nil {
			return
		}
		resp, err := e.client.Send(ctx, e.target, param, payload)
		if err != nil {
			log.Debug().Err(err).Str("param", param).Msg("Payload request failed")
			continue
		}
		if !isExploited(resp.Body, payload) {
			continue
		}

		e.record(models.Finding{
			Param:      param,
			Context:    ictx.String(),
			Payload:    payload,
			ExploitURL: resp.FinalURL,
			Method:     e.target.Method,
			Timestamp:  time.Now(),
		})
		return
	}
}

func (e *Engine) record(f models.Finding) {
	e.mu.Lock()
	e.found++
	if e.rep != nil {
		e.rep.AddFinding(f)
	}
	e.mu.Unlock()

	log.Info().
		Str("param", f.Param).
		Str("context", f.Context).
		Str("payload", f.Payload).
		Msg(color.RedString("XSS confirmed"))
}

// extractSnippet returns the HTML around the probe, contextChars on each
// side, for the AI collaborator.
func extractSnippet(body, marker string, contextChars int) string {
	idx := strings.Index(body, marker)
	if idx < 0 {
		return ""
	}
	start := idx - contextChars
	if start < 0 {
		start = 0
	}
	end := idx + len(marker) + contextChars
	if end > len(body) {
		end = len(body)
	}
	return body[start:end]
}
