package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedulerRunOnce(t *testing.T) {
	pub := &recordingPublisher{}
	scanner := newScanner(t, &fakePrices{bars: 60}, &countingPacer{}, WithScanPublisher(pub))
	lock := &fakeLocker{held: map[string]bool{"scheduler:scan:empty": true}}

	s := NewScanScheduler(scanner, []string{"default", "empty", "missing"}, "", lock, nil)
	assert.Equal(t, 1, s.RunOnce(context.Background()))
	assert.Equal(t, []string{"scheduler:scan:default", "scheduler:scan:missing"}, lock.locked)
	require.Len(t, pub.got, 1)
	assert.Equal(t, "default", pub.got[0].Universe)
}

func TestSchedulerRegister(t *testing.T) {
	s := NewScanScheduler(nil, nil, "", nil, nil)
	require.NoError(t, s.Register("30 21 * * 1-5"))
	assert.Error(t, s.Register("not a spec"))

	s.Start()
	require.NoError(t, s.Stop(context.Background()))
}
