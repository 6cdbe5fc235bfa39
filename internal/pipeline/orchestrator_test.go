package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sneakwear05-commits/vinted-auto-ia/internal/domain"
	"github.com/sneakwear05-commits/vinted-auto-ia/internal/payload"
)

type fakeAPI struct {
	mu             sync.Mutex
	listing        *domain.ListingResult
	listingErr     error
	listingCalls   []payload.ListingRequest
	mannequin      *domain.MannequinResult
	mannequinErr   error
	mannequinCalls []payload.MannequinRequest
	block          chan struct{}
}

func (f *fakeAPI) GenerateListing(_ context.Context, req payload.ListingRequest) (*domain.ListingResult, error) {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	f.listingCalls = append(f.listingCalls, req)
	f.mu.Unlock()
	return f.listing, f.listingErr
}

func (f *fakeAPI) GenerateMannequin(_ context.Context, req payload.MannequinRequest) (*domain.MannequinResult, error) {
	f.mu.Lock()
	f.mannequinCalls = append(f.mannequinCalls, req)
	f.mu.Unlock()
	return f.mannequin, f.mannequinErr
}

func someListing() *domain.ListingResult {
	return &domain.ListingResult{
		Title:           "blue jacket",
		Description:     "warm and clean",
		Price:           "25€ (range: 20-30€)",
		MannequinPrompt: "a blue jacket with white logo",
	}
}

func TestExecuteRejectsZeroImages(t *testing.T) {
	o := New(&fakeAPI{}, nil)

	_, err := o.Execute(context.Background(), nil, Options{UseAI: true})

	require.ErrorIs(t, err, domain.ErrNoImages)
	assert.Equal(t, StateError, o.State())
}

func TestExecuteFullRun(t *testing.T) {
	api := &fakeAPI{
		listing:   someListing(),
		mannequin: &domain.MannequinResult{ImageDataURL: "data:image/png;base64,AA=="},
	}
	o := New(api, nil)

	res, err := o.Execute(context.Background(), []string{"img1", "img2"}, Options{
		UseAI:        true,
		UseMannequin: true,
		Gender:       "femme",
	})

	require.NoError(t, err)
	assert.Equal(t, StateDone, o.State())
	assert.Equal(t, "blue jacket", res.Listing.Title)
	assert.Equal(t, MannequinGenerated, res.MannequinOutcome)
	require.NotNil(t, res.Mannequin)

	// Stage 2 reuses Stage 1's image set and prompt output.
	require.Len(t, api.mannequinCalls, 1)
	assert.Equal(t, []string{"img1", "img2"}, []string(api.mannequinCalls[0].Images))
	assert.Equal(t, "a blue jacket with white logo", api.mannequinCalls[0].Description)
	assert.Equal(t, "femme", api.mannequinCalls[0].Gender)
}

func TestExecuteStageTwoDisabled(t *testing.T) {
	for _, tc := range []struct {
		name string
		opts Options
	}{
		{"ai off", Options{UseAI: false, UseMannequin: true}},
		{"mannequin off", Options{UseAI: true, UseMannequin: false}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			api := &fakeAPI{listing: someListing()}
			o := New(api, nil)

			res, err := o.Execute(context.Background(), []string{"img"}, tc.opts)

			require.NoError(t, err)
			assert.Equal(t, MannequinDisabled, res.MannequinOutcome)
			assert.Equal(t, "disabled", res.MannequinNote)
			assert.Nil(t, res.Mannequin)
			assert.Empty(t, api.mannequinCalls, "stage 2 must be skipped")
		})
	}
}

func TestExecuteStageTwoFailureKeepsListing(t *testing.T) {
	api := &fakeAPI{
		listing:      someListing(),
		mannequinErr: &domain.ProviderError{Status: 500, Message: "boom"},
	}
	o := New(api, nil)

	res, err := o.Execute(context.Background(), []string{"img"}, Options{UseAI: true, UseMannequin: true})

	require.NoError(t, err, "stage 2 failure must not fail the run")
	assert.Equal(t, "blue jacket", res.Listing.Title, "stage 1 output must survive")
	assert.Equal(t, MannequinFailed, res.MannequinOutcome)
	assert.Equal(t, "generation failed", res.MannequinNote)
	assert.Nil(t, res.Mannequin)
}

func TestExecuteStageOneFailure(t *testing.T) {
	api := &fakeAPI{listingErr: errors.New("network down")}
	o := New(api, nil)

	_, err := o.Execute(context.Background(), []string{"img"}, Options{UseAI: true, UseMannequin: true})

	require.Error(t, err)
	assert.Equal(t, StateError, o.State())
	assert.Empty(t, api.mannequinCalls, "stage 2 must not run after a stage 1 failure")
}

func TestExecuteCapsCollectedImages(t *testing.T) {
	api := &fakeAPI{listing: someListing()}
	o := New(api, nil)

	images := make([]string, 12)
	for i := range images {
		images[i] = string(rune('a' + i))
	}
	_, err := o.Execute(context.Background(), images, Options{UseAI: true})

	require.NoError(t, err)
	require.Len(t, api.listingCalls, 1)
	assert.Len(t, api.listingCalls[0].Images, payload.CollectCap)
	assert.Equal(t, "a", api.listingCalls[0].Images[0])
}

func TestExecuteIsSingleFlight(t *testing.T) {
	api := &fakeAPI{listing: someListing(), block: make(chan struct{})}
	o := New(api, nil)

	done := make(chan error, 1)
	go func() {
		_, err := o.Execute(context.Background(), []string{"img"}, Options{UseAI: true})
		done <- err
	}()

	// Wait until the first run is inside Stage 1.
	for o.State() != StateListingRequested {
		time.Sleep(time.Millisecond)
	}

	_, err := o.Execute(context.Background(), []string{"img"}, Options{UseAI: true})
	require.ErrorIs(t, err, domain.ErrRunInFlight)

	close(api.block)
	require.NoError(t, <-done)

	// A finished run releases the guard.
	_, err = o.Execute(context.Background(), []string{"img"}, Options{UseAI: true})
	require.NoError(t, err)
}
