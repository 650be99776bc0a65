package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"

	"github.com/bitcheongmo/sitefeed/internal/content"
	"github.com/bitcheongmo/sitefeed/internal/store"
)

func TestDispatchedRefreshRetriesFailedLookup(t *testing.T) {
	lookups := 0
	handler := NewRefreshHandler(func(string) (Refresher, error) {
		lookups++
		if lookups == 1 {
			return nil, errors.New("document host unavailable")
		}
		return &stubRefresher{result: store.Result{Metadata: content.SyncMetadata{SyncStatus: content.SyncSuccess}}}, nil
	}, nil, WithTimeout[RefreshCollection](time.Second))

	sub := dispatcher.SubscribeCommand(handler, runner.WithMaxRetries(1))
	t.Cleanup(sub.Unsubscribe)

	if err := dispatcher.Dispatch(context.Background(), RefreshCollection{Collection: "statements"}); err != nil {
		t.Fatalf("dispatch: expected success after retry, got %v", err)
	}
	if lookups != 2 {
		t.Fatalf("expected 2 lookups, got %d", lookups)
	}
}

func TestDispatchedRefreshGivesUpAfterRetries(t *testing.T) {
	lookups := 0
	handler := NewRefreshHandler(func(string) (Refresher, error) {
		lookups++
		return nil, errors.New("document host unavailable")
	}, nil, WithTimeout[RefreshCollection](time.Second))

	sub := dispatcher.SubscribeCommand(handler, runner.WithMaxRetries(2))
	t.Cleanup(sub.Unsubscribe)

	if err := dispatcher.Dispatch(context.Background(), RefreshCollection{Collection: "statements"}); err == nil {
		t.Fatal("expected an error once retries are exhausted")
	}
	if lookups != 3 {
		t.Fatalf("expected 3 lookups, got %d", lookups)
	}
}
