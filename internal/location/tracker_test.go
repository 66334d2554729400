package location_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/daytrip/internal/domain"
	"github.com/pkordes/daytrip/internal/location"
)

// deniedSource is a Source whose subscription always fails.
type deniedSource struct{}

func (deniedSource) Watch(location.WatchOptions, func(domain.Coordinate), func(error)) (func(), error) {
	return nil, location.ErrPermissionDenied
}

// recordingSource captures the options passed to Watch.
type recordingSource struct {
	*location.PushSource
	opts location.WatchOptions
}

func (r *recordingSource) Watch(opts location.WatchOptions, onFix func(domain.Coordinate), onErr func(error)) (func(), error) {
	r.opts = opts
	return r.PushSource.Watch(opts, onFix, onErr)
}

var _ location.Source = (*recordingSource)(nil)

func TestTracker_ErrorKeepsLastKnown(t *testing.T) {
	src := location.NewPushSource()
	tr := location.NewTracker(src, nil)
	tr.Start(context.Background())
	t.Cleanup(tr.Stop)

	src.Push(domain.Coordinate{Lat: 62.47, Lng: 6.15})
	src.Fail(errors.New("signal lost"))

	got, ok := tr.Latest()
	require.True(t, ok, "error must not clear the previous fix")
	assert.Equal(t, domain.Coordinate{Lat: 62.47, Lng: 6.15}, got)

	src.Push(domain.Coordinate{Lat: 62.48, Lng: 6.16})

	got, ok = tr.Latest()
	require.True(t, ok)
	assert.Equal(t, domain.Coordinate{Lat: 62.48, Lng: 6.16}, got)
}

func TestTracker_RequestsHighAccuracy(t *testing.T) {
	src := &recordingSource{PushSource: location.NewPushSource()}
	tr := location.NewTracker(src, nil)

	tr.Start(context.Background())
	defer tr.Stop()

	assert.True(t, src.opts.HighAccuracy)
}

func TestTracker_NoSourceIsPermanentlyUnknown(t *testing.T) {
	tr := location.NewTracker(nil, nil)

	tr.Start(context.Background())
	_, ok := tr.Latest()
	tr.Stop()

	assert.False(t, ok)
}

func TestTracker_SubscriptionDenied(t *testing.T) {
	tr := location.NewTracker(deniedSource{}, nil)

	tr.Start(context.Background())
	_, ok := tr.Latest()

	assert.False(t, ok)
	assert.NotPanics(t, tr.Stop)
}

func TestTracker_InvalidFixIgnored(t *testing.T) {
	src := location.NewPushSource()
	tr := location.NewTracker(src, nil)
	tr.Start(context.Background())
	defer tr.Stop()

	src.Push(domain.Coordinate{Lat: 62.47, Lng: 6.15})
	src.Push(domain.Coordinate{Lat: 200, Lng: 6.15})

	got, _ := tr.Latest()
	assert.Equal(t, 62.47, got.Lat)
}

func TestTracker_StopCancelsSubscription(t *testing.T) {
	src := location.NewPushSource()
	tr := location.NewTracker(src, nil)

	tr.Start(context.Background())
	tr.Start(context.Background()) // no second subscription
	require.Equal(t, 1, src.Watchers())

	tr.Stop()
	tr.Stop()
	assert.Equal(t, 0, src.Watchers())

	src.Push(domain.Coordinate{Lat: 1, Lng: 1})
	_, ok := tr.Latest()
	assert.False(t, ok, "fixes after Stop are not recorded")
}

func TestTracker_ContextCancelReleasesSubscription(t *testing.T) {
	src := location.NewPushSource()
	tr := location.NewTracker(src, nil)
	ctx, cancel := context.WithCancel(context.Background())

	tr.Start(ctx)
	require.Equal(t, 1, src.Watchers())
	cancel()

	assert.Eventually(t, func() bool { return src.Watchers() == 0 }, time.Second, time.Millisecond)
}

func TestTracker_OnUpdate(t *testing.T) {
	src := location.NewPushSource()
	tr := location.NewTracker(src, nil)
	var seen []domain.Coordinate
	tr.OnUpdate(func(c domain.Coordinate) { seen = append(seen, c) })
	tr.Start(context.Background())
	defer tr.Stop()

	src.Push(domain.Coordinate{Lat: 1, Lng: 2})
	src.Fail(errors.New("boom"))
	src.Push(domain.Coordinate{Lat: 3, Lng: 4})

	assert.Equal(t, []domain.Coordinate{{Lat: 1, Lng: 2}, {Lat: 3, Lng: 4}}, seen)
}
