package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRecordSubmission(t *testing.T) {
	Init(0)
	Init(0) // registers once

	before := testutil.ToFloat64(extrinsicsSubmitted.WithLabelValues("staking.unbond", "success"))
	RecordSubmission("staking.unbond", Success)
	RecordSubmission("staking.unbond", Error)
	require.Equal(t, before+1, testutil.ToFloat64(extrinsicsSubmitted.WithLabelValues("staking.unbond", "success")))
	require.GreaterOrEqual(t, testutil.ToFloat64(extrinsicsSubmitted.WithLabelValues("staking.unbond", "error")), 1.0)
}

func TestFeeEstimateTimer(t *testing.T) {
	done := StartFeeEstimateTimer("nominationPools.unbond")
	done(false)
	require.Equal(t, 1, testutil.CollectAndCount(feeEstimateDuration, "stakedash_fee_estimate_duration_seconds"))
}
