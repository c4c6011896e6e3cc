package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKafkaScanHandler(t *testing.T) {
	pub := &recordingPublisher{}
	scanner := newScanner(t, &fakePrices{bars: 60}, &countingPacer{}, WithScanPublisher(pub))
	h := NewKafkaScanHandler("scan.requests", scanner, nil, nil)
	assert.Equal(t, "scan.requests", h.Topic())

	require.NoError(t, h.Handle(context.Background(), []byte(`{"symbols":["AAPL","MSFT"],"strategy":"classic"}`)))
	require.Len(t, pub.got, 1)
	assert.Equal(t, "classic", pub.got[0].Strategy)
	assert.Len(t, pub.got[0].Signals, 2)

	assert.Error(t, h.Handle(context.Background(), []byte(`{not json`)))
	assert.ErrorIs(t, h.Handle(context.Background(), []byte(`{"universe":"nope"}`)), ErrUnknownUniverse)
	assert.ErrorContains(t, h.Handle(context.Background(), []byte(`{"symbols":["AAPL"],"strategy":"hype"}`)), "invalid scan request")
	assert.Len(t, pub.got, 1)
}
