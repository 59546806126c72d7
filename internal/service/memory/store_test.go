package memory_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/rafamelo/econochat/backend/internal/model/chat"
	"github.com/rafamelo/econochat/backend/internal/service/memory"
)

func TestHistoryUnseenSessionIsEmpty(t *testing.T) {
	store := memory.NewInMemoryStore(10, 100)

	turns, err := store.History("never-seen")
	if err != nil {
		t.Fatalf("History err: %v", err)
	}
	if len(turns) != 0 {
		t.Fatalf("expected empty history, got %d turns", len(turns))
	}
}

func TestAppendKeepsOrder(t *testing.T) {
	store := memory.NewInMemoryStore(10, 100)

	store.Append("s1", chat.RoleUser, "oi")
	store.Append("s1", chat.RoleAssistant, "olá")
	store.Append("s1", chat.RoleUser, "tudo bem?")

	turns, err := store.History("s1")
	if err != nil {
		t.Fatalf("History err: %v", err)
	}
	if len(turns) != 3 {
		t.Fatalf("expected 3 turns, got %d", len(turns))
	}
	if turns[0].Content != "oi" || turns[2].Content != "tudo bem?" {
		t.Fatalf("unexpected order: %q ... %q", turns[0].Content, turns[2].Content)
	}
}

func TestAppendEvictsOldestBeyondCap(t *testing.T) {
	store := memory.NewInMemoryStore(3, 100)

	for i := 0; i < 5; i++ {
		store.Append("s1", chat.RoleUser, fmt.Sprintf("msg-%d", i))
	}

	turns, err := store.History("s1")
	if err != nil {
		t.Fatalf("History err: %v", err)
	}
	if len(turns) != 3 {
		t.Fatalf("expected history capped at 3, got %d", len(turns))
	}
	for i, want := range []string{"msg-2", "msg-3", "msg-4"} {
		if turns[i].Content != want {
			t.Fatalf("turn %d: got %q want %q", i, turns[i].Content, want)
		}
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	store := memory.NewInMemoryStore(10, 100)

	store.Append("s1", chat.RoleUser, "para s1")
	store.Append("s2", chat.RoleUser, "para s2")

	turns, _ := store.History("s1")
	if len(turns) != 1 || turns[0].Content != "para s1" {
		t.Fatalf("s1 history leaked: %+v", turns)
	}
}

func TestClearRemovesSession(t *testing.T) {
	store := memory.NewInMemoryStore(10, 100)

	store.Append("s1", chat.RoleUser, "oi")
	store.Clear("s1")

	turns, _ := store.History("s1")
	if len(turns) != 0 {
		t.Fatalf("expected cleared session, got %d turns", len(turns))
	}
}

func TestSessionMapIsBounded(t *testing.T) {
	store := memory.NewInMemoryStore(10, 2)

	store.Append("s1", chat.RoleUser, "a")
	time.Sleep(time.Millisecond)
	store.Append("s2", chat.RoleUser, "b")
	time.Sleep(time.Millisecond)
	store.Append("s3", chat.RoleUser, "c")

	// s1 was touched least recently and must have been evicted.
	turns, _ := store.History("s1")
	if len(turns) != 0 {
		t.Fatalf("expected s1 evicted, got %d turns", len(turns))
	}
	if turns, _ := store.History("s3"); len(turns) != 1 {
		t.Fatalf("expected s3 retained, got %d turns", len(turns))
	}
}

func TestHistoryReturnsCopy(t *testing.T) {
	store := memory.NewInMemoryStore(10, 100)

	store.Append("s1", chat.RoleUser, "original")
	turns, _ := store.History("s1")
	turns[0].Content = "mutated"

	fresh, _ := store.History("s1")
	if fresh[0].Content != "original" {
		t.Fatal("mutating the returned slice must not affect stored history")
	}
}
