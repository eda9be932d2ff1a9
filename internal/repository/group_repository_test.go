package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/Shujath786/free-genai-bootcamp-2025/lang-portal/internal/database/dbtest"
	"github.com/Shujath786/free-genai-bootcamp-2025/lang-portal/internal/models"
)

func TestGroupRepositoryAddWordsIsIdempotent(t *testing.T) {
	db := dbtest.New(t)
	words := NewWordRepository(db, zerolog.Nop())
	groups := NewGroupRepository(db, zerolog.Nop())
	ctx := context.Background()

	g := &models.Group{Name: "Core Verbs"}
	if err := groups.Create(ctx, g); err != nil {
		t.Fatalf("create group: %v", err)
	}

	var ids []int64
	for _, english := range []string{"write", "read"} {
		w := &models.Word{English: english, Arabic: english}
		if err := words.Create(ctx, w); err != nil {
			t.Fatalf("create word: %v", err)
		}
		ids = append(ids, w.ID)
	}

	if err := groups.AddWords(ctx, g.ID, ids); err != nil {
		t.Fatalf("add words: %v", err)
	}
	if err := groups.AddWords(ctx, g.ID, ids[:1]); err != nil {
		t.Fatalf("re-add words: %v", err)
	}
	if err := groups.RecountWords(ctx, g.ID); err != nil {
		t.Fatalf("recount: %v", err)
	}

	got, err := groups.GetByID(ctx, g.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.WordsCount != 2 {
		t.Fatalf("expected words_count 2, got %d", got.WordsCount)
	}
}

func TestGroupRepositoryDuplicateName(t *testing.T) {
	db := dbtest.New(t)
	groups := NewGroupRepository(db, zerolog.Nop())
	ctx := context.Background()

	if err := groups.Create(ctx, &models.Group{Name: "Nouns"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := groups.Create(ctx, &models.Group{Name: "Nouns"}); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestGroupRepositoryRecountAllFixesStaleCounts(t *testing.T) {
	db := dbtest.New(t)
	words := NewWordRepository(db, zerolog.Nop())
	groups := NewGroupRepository(db, zerolog.Nop())
	ctx := context.Background()

	stale := &models.Group{Name: "Stale", WordsCount: 7}
	if err := groups.Create(ctx, stale); err != nil {
		t.Fatalf("create: %v", err)
	}
	fresh := &models.Group{Name: "Fresh"}
	if err := groups.Create(ctx, fresh); err != nil {
		t.Fatalf("create: %v", err)
	}
	w := &models.Word{English: "sun", Arabic: "شمس"}
	if err := words.Create(ctx, w); err != nil {
		t.Fatalf("create word: %v", err)
	}
	if err := groups.AddWords(ctx, stale.ID, []int64{w.ID}); err != nil {
		t.Fatalf("add: %v", err)
	}

	changed, err := groups.RecountAll(ctx)
	if err != nil {
		t.Fatalf("recount all: %v", err)
	}
	if changed != 1 {
		t.Fatalf("expected 1 changed group, got %d", changed)
	}

	list, err := groups.GetAll(ctx, "words_count", "desc", 10, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].Name != "Stale" || list[0].WordsCount != 1 || list[1].WordsCount != 0 {
		t.Fatalf("unexpected groups %+v", list)
	}
}
