package colors

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"
)

func TestColorIDStableAndLRU(t *testing.T) {
	p, err := NewPalette("")
	if err != nil {
		t.Fatalf("NewPalette failed: %v", err)
	}
	clock := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	p.Now = func() time.Time { clock = clock.Add(time.Minute); return clock }

	if p.ColorID("") != NoTagColor {
		t.Errorf("Expected %s for empty tag", NoTagColor)
	}

	first := p.ColorID("tag0")
	for i := 1; i < slots; i++ {
		p.ColorID(fmt.Sprintf("tag%d", i))
	}
	if again := p.ColorID("tag0"); again != first {
		t.Errorf("Expected stable color %s, got %s", first, again)
	}

	// tag1 is now the least recently used.
	lru := p.Tags["tag1"].ColorID
	if got := p.ColorID("new"); got != lru {
		t.Errorf("Expected recycled color %s, got %s", lru, got)
	}
	if _, ok := p.Tags["tag1"]; ok {
		t.Error("Expected tag1 evicted")
	}
	if Hex[p.ColorID("new")] == "" {
		t.Error("Expected hex for assigned color")
	}
}

func TestPalettePersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	p, _ := NewPalette(path)
	id := p.ColorID("패널 링크")
	if err := p.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	reloaded, err := NewPalette(path)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reloaded.ColorID("패널 링크") != id {
		t.Errorf("Expected %s after reload", id)
	}
}
