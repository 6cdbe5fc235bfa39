package pipeline

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/sneakwear05-commits/vinted-auto-ia/internal/domain"
	"github.com/sneakwear05-commits/vinted-auto-ia/internal/infra"
	"github.com/sneakwear05-commits/vinted-auto-ia/internal/payload"
)

// State is the tagged position of a run inside the two-stage pipeline.
type State string

const (
	StateIdle               State = "idle"
	StateCollecting         State = "collecting"
	StateListingRequested   State = "listing_requested"
	StateListingReceived    State = "listing_received"
	StateMannequinRequested State = "mannequin_requested"
	StateMannequinReceived  State = "mannequin_received"
	StateDone               State = "done"
	StateError              State = "error"
)

// MannequinOutcome distinguishes the three ways the Stage 2 surface can end
// up: a generated photo, an explicit "disabled" state, or a visible failure
// that leaves Stage 1's output intact.
type MannequinOutcome string

const (
	MannequinGenerated MannequinOutcome = "generated"
	MannequinDisabled  MannequinOutcome = "disabled"
	MannequinFailed    MannequinOutcome = "failed"
)

// API is the server surface the orchestrator drives. The production
// implementation lives in the client package.
type API interface {
	GenerateListing(ctx context.Context, req payload.ListingRequest) (*domain.ListingResult, error)
	GenerateMannequin(ctx context.Context, req payload.MannequinRequest) (*domain.MannequinResult, error)
}

// Options are the seller-facing toggles for one run.
type Options struct {
	UseAI        bool
	UseMannequin bool
	Gender       string
	Extra        string
}

// Result is everything one run produced. Listing is always set on success;
// the mannequin fields depend on the outcome tag.
type Result struct {
	Listing          *domain.ListingResult
	Mannequin        *domain.MannequinResult
	MannequinOutcome MannequinOutcome
	// MannequinNote is a short user-facing note for the disabled and failed
	// outcomes.
	MannequinNote string
}

// Orchestrator sequences the two generation stages for one run at a time.
// It holds no presentation state: callers render Result however they like.
type Orchestrator struct {
	api      API
	logger   *infra.Logger
	inFlight atomic.Bool

	mu    sync.Mutex
	state State
}

func New(api API, logger *infra.Logger) *Orchestrator {
	return &Orchestrator{api: api, logger: logger, state: StateIdle}
}

// State reports the current run position; safe for concurrent observers.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

func (o *Orchestrator) setState(s State) {
	o.mu.Lock()
	o.state = s
	o.mu.Unlock()
}

// Execute runs one user-initiated pipeline pass. Runs are single-flight:
// starting a second run while one is in progress fails with ErrRunInFlight
// instead of interleaving image collection or result rendering.
//
// Stage 1 always runs. Stage 2 runs only when both toggles are on; its
// failure is recorded in the result, never propagated, so the listing stays
// rendered.
func (o *Orchestrator) Execute(ctx context.Context, images []string, opts Options) (*Result, error) {
	if !o.inFlight.CompareAndSwap(false, true) {
		return nil, domain.ErrRunInFlight
	}
	defer o.inFlight.Store(false)

	o.setState(StateCollecting)
	if len(images) == 0 {
		o.setState(StateError)
		return nil, domain.ErrNoImages
	}
	collected := payload.ImageList(images).Cap(payload.CollectCap)

	o.setState(StateListingRequested)
	listing, err := o.api.GenerateListing(ctx, payload.ListingRequest{
		Images: collected,
		Extra:  opts.Extra,
		UseAI:  opts.UseAI,
	})
	if err != nil {
		o.setState(StateError)
		return nil, err
	}
	o.setState(StateListingReceived)

	result := &Result{Listing: listing}

	if !opts.UseAI || !opts.UseMannequin {
		result.MannequinOutcome = MannequinDisabled
		result.MannequinNote = "disabled"
		o.setState(StateDone)
		return result, nil
	}

	o.setState(StateMannequinRequested)
	mannequin, err := o.api.GenerateMannequin(ctx, payload.MannequinRequest{
		Images:      collected,
		Description: mannequinDescription(listing),
		Gender:      opts.Gender,
	})
	if err != nil {
		// Stage failures are isolated: the listing above stays valid.
		if o.logger != nil {
			o.logger.Warn().Err(err).Msg("pipeline: mannequin stage failed")
		}
		result.MannequinOutcome = MannequinFailed
		result.MannequinNote = "generation failed"
		o.setState(StateDone)
		return result, nil
	}
	o.setState(StateMannequinReceived)

	result.Mannequin = mannequin
	result.MannequinOutcome = MannequinGenerated
	o.setState(StateDone)
	return result, nil
}

// mannequinDescription picks the Stage 2 prompt content from Stage 1's
// output: mannequin_prompt, then title, then a fixed garment placeholder.
func mannequinDescription(listing *domain.ListingResult) string {
	switch {
	case listing == nil:
		return "a garment"
	case listing.MannequinPrompt != "":
		return listing.MannequinPrompt
	case listing.Title != "":
		return listing.Title
	default:
		return "a garment"
	}
}
