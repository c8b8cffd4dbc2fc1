package extrinsic

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/stakedash/internal/chain"
	"github.com/jask/stakedash/internal/units"
)

type fakeClient struct {
	mu        sync.Mutex
	estimates int
	submits   []chain.Call
	submitErr error
	status    chain.Status
	block     chan struct{}
}

func (f *fakeClient) Connected() bool { return true }

func (f *fakeClient) Network() chain.Network { return chain.Network{Unit: "DOT", Units: 10} }

func (f *fakeClient) EstimateFee(ctx context.Context, call chain.Call, from string) (units.Planck, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.estimates++
	return units.FromUint64(1000), nil
}

func (f *fakeClient) Submit(ctx context.Context, call chain.Call, from string) (chain.Receipt, error) {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.submitErr != nil {
		return chain.Receipt{}, f.submitErr
	}
	f.submits = append(f.submits, call)
	status := f.status
	if status == "" {
		status = chain.StatusInBlock
	}
	return chain.Receipt{Hash: "0xabc", Status: status, BlockNumber: 1}, nil
}

func unbondCall(n uint64) *chain.Call {
	c := chain.StakingUnbond(units.FromUint64(n))
	return &c
}

func TestSubmitFiresCallbacks(t *testing.T) {
	client := &fakeClient{}
	s := New(client)
	submitted, inBlock := 0, 0
	s.Update(Options{
		Tx:              unbondCall(5),
		From:            "ctrl",
		ShouldSubmit:    true,
		CallbackSubmit:  func() { submitted++ },
		CallbackInBlock: func() { inBlock++ },
	})

	receipt, err := s.Submit(context.Background())
	require.NoError(t, err)
	require.Equal(t, "0xabc", receipt.Hash)
	require.Equal(t, 1, submitted)
	require.Equal(t, 1, inBlock)
	require.False(t, s.Submitting())
	require.Len(t, client.submits, 1)
}

func TestSubmitReadyDoesNotFireInBlock(t *testing.T) {
	client := &fakeClient{status: chain.StatusReady}
	s := New(client)
	submitted, inBlock := 0, 0
	s.Update(Options{
		Tx:              unbondCall(5),
		ShouldSubmit:    true,
		CallbackSubmit:  func() { submitted++ },
		CallbackInBlock: func() { inBlock++ },
	})
	_, err := s.Submit(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, submitted)
	require.Equal(t, 0, inBlock)
}

func TestSubmitGating(t *testing.T) {
	client := &fakeClient{}
	s := New(client)

	_, err := s.Submit(context.Background())
	require.Equal(t, NotSubmittable, CodeOf(err))

	s.Update(Options{Tx: unbondCall(5), ShouldSubmit: false})
	_, err = s.Submit(context.Background())
	require.Equal(t, NotSubmittable, CodeOf(err))
	require.Empty(t, client.submits)
}

func TestSubmitRejectsWhileInFlight(t *testing.T) {
	client := &fakeClient{block: make(chan struct{})}
	s := New(client)
	s.Update(Options{Tx: unbondCall(5), ShouldSubmit: true})

	done := make(chan error, 1)
	go func() {
		_, err := s.Submit(context.Background())
		done <- err
	}()
	require.Eventually(t, s.Submitting, time.Second, time.Millisecond)

	_, err := s.Submit(context.Background())
	require.Equal(t, NotSubmittable, CodeOf(err))

	close(client.block)
	require.NoError(t, <-done)
	require.False(t, s.Submitting())
}

func TestSubmitClassifiesErrors(t *testing.T) {
	client := &fakeClient{submitErr: chain.ErrDisconnected}
	s := New(client)
	s.Update(Options{Tx: unbondCall(5), ShouldSubmit: true})
	_, err := s.Submit(context.Background())
	require.Equal(t, Connection, CodeOf(err))
	require.True(t, errors.Is(err, chain.ErrDisconnected))

	client.submitErr = &chain.DispatchError{Call: "staking.unbond", Reason: "not a controller"}
	_, err = s.Submit(context.Background())
	require.Equal(t, Rejected, CodeOf(err))
	require.EqualError(t, err, "staking.unbond: not a controller")

	client.submitErr = errors.New("boom")
	_, err = s.Submit(context.Background())
	require.Equal(t, Internal, CodeOf(err))
}

func TestEstimateFeeCachesAndResets(t *testing.T) {
	ctx := context.Background()
	client := &fakeClient{}
	s := New(client)

	fee, err := s.EstimateFee(ctx)
	require.NoError(t, err)
	require.Nil(t, fee)
	require.Nil(t, s.EstimatedFee())

	s.Update(Options{Tx: unbondCall(5), From: "a"})
	fee, err = s.EstimateFee(ctx)
	require.NoError(t, err)
	require.Equal(t, "1000", fee.String())
	require.Equal(t, "1000", s.EstimatedFee().String())

	// new call drops the estimate until re-estimated
	s.Update(Options{Tx: unbondCall(6), From: "a"})
	require.Nil(t, s.EstimatedFee())
	_, err = s.EstimateFee(ctx)
	require.NoError(t, err)

	// back to the first call: served from cache
	s.Update(Options{Tx: unbondCall(5), From: "a"})
	_, err = s.EstimateFee(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, client.estimates)
	require.NotNil(t, s.EstimatedFee())

	// same call again keeps the estimate
	s.Update(Options{Tx: unbondCall(5), From: "a", ShouldSubmit: true})
	require.NotNil(t, s.EstimatedFee())
}
