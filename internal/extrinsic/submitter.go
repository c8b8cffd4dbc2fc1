// Package extrinsic submits calls on behalf of a form: it estimates and caches
// fees, tracks whether a submission is in flight and fires the form callbacks.
package extrinsic

import (
	"context"
	"sync"

	lru "github.com/hashicorp/golang-lru"
	"github.com/rs/zerolog/log"

	"github.com/jask/stakedash/internal/chain"
	"github.com/jask/stakedash/internal/metrics"
	"github.com/jask/stakedash/internal/units"
)

const feeCacheSize = 128

// Options is what a form hands over on every render.
type Options struct {
	// Tx is nil while the form has nothing submittable.
	Tx           *chain.Call
	From         string
	ShouldSubmit bool
	// CallbackSubmit runs once the chain accepts the extrinsic.
	CallbackSubmit func()
	// CallbackInBlock runs once the extrinsic is included in a block.
	CallbackInBlock func()
}

// Submitter is safe for use from the UI loop and from commands.
type Submitter struct {
	client chain.Client
	fees   *lru.ARCCache

	mu         sync.Mutex
	opts       Options
	fee        *units.Planck
	submitting bool
}

func New(client chain.Client) *Submitter {
	fees, _ := lru.NewARC(feeCacheSize)
	return &Submitter{client: client, fees: fees}
}

// Update replaces the options. The fee estimate is dropped when the call or
// payer changed.
func (s *Submitter) Update(opts Options) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if feeKey(s.opts) != feeKey(opts) {
		s.fee = nil
	}
	s.opts = opts
}

func feeKey(o Options) string {
	if o.Tx == nil {
		return ""
	}
	return o.From + "|" + o.Tx.String()
}

// EstimatedFee is nil while no estimate is available.
func (s *Submitter) EstimatedFee() *units.Planck {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fee == nil {
		return nil
	}
	fee := *s.fee
	return &fee
}

// Submitting reports whether a submission is in flight.
func (s *Submitter) Submitting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitting
}

// EstimateFee estimates the fee for the current call. It returns nil without
// error when there is no call.
func (s *Submitter) EstimateFee(ctx context.Context) (*units.Planck, error) {
	s.mu.Lock()
	opts := s.opts
	s.mu.Unlock()

	key := feeKey(opts)
	if key == "" {
		return nil, nil
	}
	done := metrics.StartFeeEstimateTimer(opts.Tx.Name())
	if v, ok := s.fees.Get(key); ok {
		done(true)
		fee := v.(units.Planck)
		s.storeFee(key, fee)
		return &fee, nil
	}
	fee, err := s.client.EstimateFee(ctx, *opts.Tx, opts.From)
	done(false)
	if err != nil {
		return nil, classify(err)
	}
	s.fees.Add(key, fee)
	s.storeFee(key, fee)
	return &fee, nil
}

// storeFee keeps fee only if the options have not moved on meanwhile.
func (s *Submitter) storeFee(key string, fee units.Planck) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if feeKey(s.opts) == key {
		s.fee = &fee
	}
}

// Submit sends the current call. It refuses when there is no call, the form
// says not to submit, or a submission is already in flight.
func (s *Submitter) Submit(ctx context.Context) (chain.Receipt, error) {
	s.mu.Lock()
	opts := s.opts
	switch {
	case opts.Tx == nil:
		s.mu.Unlock()
		return chain.Receipt{}, &Error{Code: NotSubmittable, Err: errNoTx}
	case !opts.ShouldSubmit:
		s.mu.Unlock()
		return chain.Receipt{}, &Error{Code: NotSubmittable, Err: errNotAllowed}
	case s.submitting:
		s.mu.Unlock()
		return chain.Receipt{}, &Error{Code: NotSubmittable, Err: errInFlight}
	}
	s.submitting = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.submitting = false
		s.mu.Unlock()
	}()

	call := *opts.Tx
	receipt, err := s.client.Submit(ctx, call, opts.From)
	if err != nil {
		metrics.RecordSubmission(call.Name(), metrics.Error)
		log.Ctx(ctx).Error().Err(err).Str("call", call.String()).Str("from", opts.From).Msg("submission failed")
		return chain.Receipt{}, classify(err)
	}
	metrics.RecordSubmission(call.Name(), metrics.Success)
	log.Ctx(ctx).Info().Str("call", call.String()).Str("hash", receipt.Hash).Msg("submission accepted")

	if opts.CallbackSubmit != nil {
		opts.CallbackSubmit()
	}
	if receipt.Status == chain.StatusInBlock || receipt.Status == chain.StatusFinalized {
		if opts.CallbackInBlock != nil {
			opts.CallbackInBlock()
		}
	}
	return receipt, nil
}
