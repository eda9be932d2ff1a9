package importer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/Shujath786/free-genai-bootcamp-2025/lang-portal/internal/database/dbtest"
	"github.com/Shujath786/free-genai-bootcamp-2025/lang-portal/internal/repository"
)

type fixture struct {
	importer   *Importer
	words      repository.WordRepository
	groups     repository.GroupRepository
	activities repository.StudyActivityRepository
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	db := dbtest.New(t)
	log := zerolog.Nop()

	f := fixture{
		words:      repository.NewWordRepository(db, log),
		groups:     repository.NewGroupRepository(db, log),
		activities: repository.NewStudyActivityRepository(db, log),
	}
	f.importer = New(repository.NewSQLRepository(db, log), f.words, f.groups, f.activities, log)
	return f
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

const verbsJSON = `{
  "verbs": [
    {"english": "to write", "arabic": "كتب", "root": "ك ت ب", "transliteration": "kataba",
     "parts": [{"arabic": "ك", "transliteration": "ka"}]},
    {"english": "to read", "arabic": "قرأ", "root": "ق ر أ", "transliteration": "qara'a",
     "letters": ["ق", "ر", "أ"]},
    {"english": "", "arabic": "??"}
  ]
}`

func TestImportWordsJSON(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	path := writeFile(t, "verbs.json", verbsJSON)

	result, err := f.importer.ImportWordsJSON(ctx, "Core Verbs", path, "verbs")
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if result.WordsCreated != 2 || result.Skipped != 1 || result.WordsCount != 2 {
		t.Fatalf("unexpected result %+v", result)
	}

	read, err := f.words.GetByEnglish(ctx, "to read")
	if err != nil || read == nil {
		t.Fatalf("expected imported word, got %v (%v)", read, err)
	}
	if string(read.Parts) != `["ق", "ر", "أ"]` {
		t.Fatalf("expected letters to be stored as parts, got %s", read.Parts)
	}

	// Importing again reuses the words and keeps the count stable.
	again, err := f.importer.ImportWordsJSON(ctx, "Core Verbs", path, "verbs")
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if again.WordsCreated != 0 || again.WordsReused != 2 || again.WordsCount != 2 || again.GroupID != result.GroupID {
		t.Fatalf("unexpected second result %+v", again)
	}
}

func TestImportWordsJSONMissingKey(t *testing.T) {
	f := newFixture(t)
	path := writeFile(t, "verbs.json", verbsJSON)

	if _, err := f.importer.ImportWordsJSON(context.Background(), "Core Adjectives", path, "adjectives"); err == nil {
		t.Fatal("expected error for missing key")
	}

	group, err := f.groups.GetByName(context.Background(), "Core Adjectives")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if group != nil {
		t.Fatalf("expected no group to be created, got %+v", group)
	}
}

func TestImportWordsXLSX(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	wb := excelize.NewFile()
	rows := [][]interface{}{
		{"english", "arabic", "root", "transliteration", "parts"},
		{"big", "كبير", "ك ب ر", "kabir", "ك, ب, ي, ر"},
		{"small", "صغير", "ص غ ر", "saghir", `["ص","غ","ي","ر"]`},
		{},
	}
	for n, row := range rows {
		cellName, err := excelize.CoordinatesToCellName(1, n+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := wb.SetSheetRow("Sheet1", cellName, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	path := filepath.Join(t.TempDir(), "adjectives.xlsx")
	if err := wb.SaveAs(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	result, err := f.importer.ImportWordsXLSX(ctx, "Core Adjectives", path, "")
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if result.WordsCreated != 2 || result.WordsCount != 2 {
		t.Fatalf("unexpected result %+v", result)
	}

	big, err := f.words.GetByEnglish(ctx, "big")
	if err != nil || big == nil {
		t.Fatalf("expected word big, got %v (%v)", big, err)
	}
	if string(big.Parts) != `["ك","ب","ي","ر"]` || big.Transliteration != "kabir" {
		t.Fatalf("unexpected word %+v", big)
	}
}

func TestImportActivitiesJSON(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	path := writeFile(t, "activities.json", `[
		{"name": "Typing Tutor", "url": "http://localhost:8080", "preview_url": "/assets/typing.png"},
		{"name": "Flashcards", "url": "http://localhost:8081", "preview_url": ""},
		{"name": "", "url": "http://localhost:9999"}
	]`)

	result, err := f.importer.ImportActivitiesJSON(ctx, path)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if result.Activities != 2 || result.Skipped != 1 {
		t.Fatalf("unexpected result %+v", result)
	}

	again, err := f.importer.ImportActivitiesJSON(ctx, path)
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if again.Activities != 0 || again.Skipped != 3 {
		t.Fatalf("unexpected second result %+v", again)
	}

	all, err := f.activities.GetAll(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 || all[0].Name != "Typing Tutor" {
		t.Fatalf("unexpected activities %+v", all)
	}
}
