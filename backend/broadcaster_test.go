package backend

import (
	"context"
	"testing"
	"time"

	"github.com/b0bbywan/go-luminous-portal/events"
)

func TestBroadcaster_Subscribe_ReceivesAll(t *testing.T) {
	upstream := make(chan events.Event, 4)
	b := NewBroadcaster(context.Background(), upstream)

	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	upstream <- events.Event{Type: events.TypeSettingChanged}
	upstream <- events.Event{Type: events.TypeSessionClosed}

	for _, want := range []string{events.TypeSettingChanged, events.TypeSessionClosed} {
		select {
		case got := <-ch:
			if got.Type != want {
				t.Errorf("got %s, want %s", got.Type, want)
			}
		case <-time.After(100 * time.Millisecond):
			t.Fatalf("timed out waiting for event %s", want)
		}
	}
}

func TestBroadcaster_PreservesOrder(t *testing.T) {
	upstream := make(chan events.Event, 8)
	b := NewBroadcaster(context.Background(), upstream)

	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	keys := []string{"color-scheme", "accent-color", "color-scheme", "accent-color"}
	for _, k := range keys {
		upstream <- events.Event{Type: events.TypeSettingChanged, Data: events.SettingChangedData{Key: k}}
	}

	for i, want := range keys {
		select {
		case got := <-ch:
			data := got.Data.(events.SettingChangedData)
			if data.Key != want {
				t.Errorf("event %d: key %s, want %s", i, data.Key, want)
			}
		case <-time.After(100 * time.Millisecond):
			t.Fatalf("timed out waiting for event %d", i)
		}
	}
}

func TestBroadcaster_SubscribeFunc_FiltersEvents(t *testing.T) {
	upstream := make(chan events.Event, 4)
	b := NewBroadcaster(context.Background(), upstream)

	ch := b.SubscribeFunc(events.FilterTypes([]string{events.TypeSessionClosed}))
	defer b.Unsubscribe(ch)

	upstream <- events.Event{Type: events.TypeSettingChanged}
	upstream <- events.Event{Type: events.TypeSessionClosed}

	select {
	case got := <-ch:
		if got.Type != events.TypeSessionClosed {
			t.Errorf("got %s, want %s", got.Type, events.TypeSessionClosed)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("timed out waiting for session.closed event")
	}

	select {
	case got := <-ch:
		t.Errorf("unexpected event %s delivered through filter", got.Type)
	case <-time.After(30 * time.Millisecond):
	}
}

func TestBroadcaster_SubscribeFunc_NilFilterPassesAll(t *testing.T) {
	upstream := make(chan events.Event, 4)
	b := NewBroadcaster(context.Background(), upstream)

	ch := b.SubscribeFunc(nil)
	defer b.Unsubscribe(ch)

	upstream <- events.Event{Type: events.TypeSessionClosed, Data: events.SessionClosedData{Path: "/s/1"}}

	select {
	case got := <-ch:
		data, ok := got.Data.(events.SessionClosedData)
		if !ok {
			t.Fatalf("data is %T, want SessionClosedData", got.Data)
		}
		if data.Path != "/s/1" {
			t.Errorf("data.Path = %q", data.Path)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("timed out waiting for session.closed event")
	}
}

func TestBroadcaster_UnsubscribeTwice(t *testing.T) {
	b := NewBroadcaster(context.Background(), make(chan events.Event))
	ch := b.Subscribe()
	b.Unsubscribe(ch)
	b.Unsubscribe(ch)

	if _, ok := <-ch; ok {
		t.Error("channel should be closed after Unsubscribe")
	}
}

func TestNewBroadcasterFromBackend_Empty_NoPanic(t *testing.T) {
	b := &Backend{}
	broadcaster := newBroadcasterFromBackend(context.Background(), b)
	ch := broadcaster.Subscribe()
	defer broadcaster.Unsubscribe(ch)

	select {
	case got := <-ch:
		t.Errorf("unexpected event %s from empty backend", got.Type)
	case <-time.After(20 * time.Millisecond):
	}
}

func TestBroadcaster_MultipleSubscribersIndependentFilters(t *testing.T) {
	upstream := make(chan events.Event, 8)
	b := NewBroadcaster(context.Background(), upstream)

	allCh := b.Subscribe()
	defer b.Unsubscribe(allCh)

	settingsOnly := b.SubscribeFunc(func(e events.Event) bool { return e.Type == events.TypeSettingChanged })
	defer b.Unsubscribe(settingsOnly)

	upstream <- events.Event{Type: events.TypeSettingChanged}
	upstream <- events.Event{Type: events.TypeSessionClosed}

	for _, want := range []string{events.TypeSettingChanged, events.TypeSessionClosed} {
		select {
		case got := <-allCh:
			if got.Type != want {
				t.Errorf("allCh: got %s, want %s", got.Type, want)
			}
		case <-time.After(100 * time.Millisecond):
			t.Fatalf("allCh: timed out waiting for %s", want)
		}
	}

	select {
	case got := <-settingsOnly:
		if got.Type != events.TypeSettingChanged {
			t.Errorf("settingsOnly: got %s", got.Type)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("settingsOnly: timed out")
	}

	select {
	case got := <-settingsOnly:
		t.Errorf("settingsOnly: unexpected event %s", got.Type)
	case <-time.After(30 * time.Millisecond):
	}
}

func TestFanIn_ClosesWhenSourcesClose(t *testing.T) {
	a := make(chan events.Event, 1)
	c := make(chan events.Event, 1)
	merged := fanIn(context.Background(), a, nil, c)

	a <- events.Event{Type: events.TypeSettingChanged}
	close(a)
	close(c)

	got := 0
	for range merged {
		got++
	}
	if got != 1 {
		t.Errorf("received %d events, want 1", got)
	}
}
