package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/surligne/pkg/adapters/redis"
	"github.com/aretw0/surligne/pkg/domain"
	"github.com/aretw0/surligne/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T, opts ...redis.Option) (*miniredis.Miniredis, *redis.Notifier) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, redis.NewFromClient(client, opts...)
}

func TestRedisNotifier_Contract(t *testing.T) {
	_, notifier := setup(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	messages, _, err := notifier.Subscribe(ctx)
	require.NoError(t, err)

	ports.RunNotifierContract(t, notifier, func(n int, deadline time.Duration) []domain.SettingsChange {
		var got []domain.SettingsChange
		timeout := time.After(deadline)
		for len(got) < n {
			select {
			case msg := <-messages:
				got = append(got, msg.Changes...)
			case <-timeout:
				return got
			}
		}
		return got
	})
}

func TestRedisNotifier_PublishesJSON(t *testing.T) {
	mr, notifier := setup(t, redis.WithChannel("diagram:test"), redis.WithWorkspace("ws-1"))
	assert.Equal(t, "diagram:test", notifier.Channel())

	ctx := context.Background()
	err := notifier.Notify(ctx, []domain.SettingsChange{
		{Keyword: "si", Zone: "conditions", Shape: domain.ShapeDiamond, Color: "#7fb3ff"},
	})
	require.NoError(t, err)

	// No subscriber: the publish still succeeds and reaches nobody.
	assert.Equal(t, 0, mr.PubSubNumSub("diagram:test")["diagram:test"])
}

func TestRedisNotifier_WorkspaceTag(t *testing.T) {
	_, notifier := setup(t, redis.WithWorkspace("ws-1"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	messages, closeSub, err := notifier.Subscribe(ctx)
	require.NoError(t, err)
	defer closeSub()

	require.NoError(t, notifier.Notify(ctx, []domain.SettingsChange{{Keyword: "pour", Zone: "boucles", Shape: domain.ShapeRectangle, Color: "#2bd58a"}}))

	select {
	case msg := <-messages:
		assert.Equal(t, "ws-1", msg.Workspace)
		require.Len(t, msg.Changes, 1)
		assert.Equal(t, "pour", msg.Changes[0].Keyword)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for published message")
	}
}

func TestRedisNotifier_ServerDown(t *testing.T) {
	mr, notifier := setup(t)
	mr.Close()

	err := notifier.Notify(context.Background(), []domain.SettingsChange{{Keyword: "si"}})
	assert.Error(t, err)
}

func TestRedisNotifier_ForWorkspace(t *testing.T) {
	_, notifier := setup(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	messages, closeSub, err := notifier.Subscribe(ctx)
	require.NoError(t, err)
	defer closeSub()

	scoped := notifier.ForWorkspace("ws-2")
	assert.Equal(t, notifier.Channel(), scoped.Channel())
	require.NoError(t, scoped.Notify(ctx, []domain.SettingsChange{{Keyword: "si", Zone: "conditions"}}))

	select {
	case msg := <-messages:
		assert.Equal(t, "ws-2", msg.Workspace)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for published message")
	}
}
