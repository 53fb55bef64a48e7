package frequency

import (
	"errors"
	"strings"
	"testing"

	"github.com/bastiangx/wordsplit/internal/logger"
)

const counts = `# word count pos
Aktion 120 n
plan 300
akt	40
ion
Übung 7.0 n
`

func TestScan(t *testing.T) {
	got := map[string]Entry{}
	n, err := Scan(strings.NewReader(counts), func(word string, e Entry) error {
		got[word] = e
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if n != 5 {
		t.Errorf("Scan() = %d entries, want 5", n)
	}
	want := map[string]Entry{
		"aktion": {120, "n"},
		"plan":   {300, ""},
		"akt":    {40, ""},
		"ion":    {1, ""},
		"übung":  {7, "n"},
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("entry %q = %+v, want %+v", k, got[k], v)
		}
	}
}

func TestScanBadLine(t *testing.T) {
	for _, in := range []string{
		"haus 12\nboot many\n",
		"plan -3.5\n",
		"plan Inf\n",
		"plan +Inf\n",
		"plan NaN\n",
		"plan 1e30\n",
	} {
		_, err := Scan(strings.NewReader(in), func(string, Entry) error { return nil })
		if !errors.Is(err, ErrBadLine) {
			t.Errorf("Scan(%q) error = %v, want ErrBadLine", in, err)
		}
	}
}

func TestIndex(t *testing.T) {
	x := NewIndex()
	if _, err := x.ReadFrom(strings.NewReader(counts)); err != nil {
		t.Fatal(err)
	}
	x.Add("PLAN", 5)

	tests := []struct {
		word  string
		count uint64
		known bool
	}{
		{"Plan", 305, true},
		{"AKTION", 120, true},
		{"übung", 7, true},
		{"Haus", 0, false},
	}
	for _, tt := range tests {
		c, ok, err := x.Frequency(tt.word)
		if err != nil || c != tt.count || ok != tt.known {
			t.Errorf("Frequency(%q) = %d, %v, %v", tt.word, c, ok, err)
		}
	}
	if x.Len() != 5 {
		t.Errorf("Len() = %d, want 5", x.Len())
	}
}

func openMemStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenStore(StoreOptions{InMemory: true, Logger: logger.Discard()})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore(t *testing.T) {
	s := openMemStore(t)
	n, err := s.Import(strings.NewReader(counts))
	if err != nil || n != 5 {
		t.Fatalf("Import() = %d, %v", n, err)
	}
	if err := s.Add("Plan", 10); err != nil {
		t.Fatal(err)
	}
	if err := s.Add("Haus", 2); err != nil {
		t.Fatal(err)
	}

	c, ok, err := s.Frequency("PLAN")
	if err != nil || !ok || c != 310 {
		t.Errorf("Frequency(PLAN) = %d, %v, %v", c, ok, err)
	}
	e, ok, err := s.Get("aktion")
	if err != nil || !ok || e != (Entry{120, "n"}) {
		t.Errorf("Get(aktion) = %+v, %v, %v", e, ok, err)
	}
	if _, ok, err := s.Frequency("Boot"); ok || err != nil {
		t.Errorf("Frequency(Boot) known=%v err=%v", ok, err)
	}
	if l, err := s.Len(); err != nil || l != 6 {
		t.Errorf("Len() = %d, %v, want 6", l, err)
	}
}

func TestStoreCloseTwice(t *testing.T) {
	s, err := OpenStore(StoreOptions{Path: t.TempDir(), Logger: logger.Discard()})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Put("haus", Entry{Count: 3}); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close() = %v", err)
	}
}

func TestStorePersists(t *testing.T) {
	dir := t.TempDir()
	s, err := OpenStore(StoreOptions{Path: dir, Logger: logger.Discard()})
	if err != nil {
		t.Fatal(err)
	}
	s.Put("Haus", Entry{Count: 42, POS: "n"})
	s.Close()

	s, err = OpenStore(StoreOptions{Path: dir, Logger: logger.Discard()})
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if c, ok, _ := s.Frequency("haus"); !ok || c != 42 {
		t.Errorf("reopened Frequency(haus) = %d, %v", c, ok)
	}
}

func TestGse(t *testing.T) {
	g, err := NewGse()
	if err != nil {
		t.Fatal(err)
	}
	g.Add("haus", 30, "n")
	g.Add("Plan", 12, "n")

	if c, ok, err := g.Frequency("Haus"); err != nil || !ok || c != 30 {
		t.Errorf("Frequency(Haus) = %d, %v, %v", c, ok, err)
	}
	if c, ok, _ := g.Frequency("plan"); !ok || c != 12 {
		t.Errorf("Frequency(plan) = %d, %v", c, ok)
	}
	if _, ok, _ := g.Frequency("boot"); ok {
		t.Error("Frequency(boot) reported known")
	}
}

type flakyProvider struct {
	calls int
	fail  bool
}

func (p *flakyProvider) Frequency(text string) (uint64, bool, error) {
	p.calls++
	if p.fail {
		return 0, false, errors.New("backend down")
	}
	return uint64(len(text)), text != "nix", nil
}

func TestCached(t *testing.T) {
	p := &flakyProvider{}
	c, err := NewCached(p, 2)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if n, ok, err := c.Frequency("plan"); n != 4 || !ok || err != nil {
			t.Fatalf("Frequency(plan) = %d, %v, %v", n, ok, err)
		}
	}
	if p.calls != 1 {
		t.Errorf("provider called %d times, want 1", p.calls)
	}
	if _, ok, _ := c.Frequency("nix"); ok {
		t.Error("unknown word reported known")
	}
	c.Frequency("nix")
	if p.calls != 2 {
		t.Errorf("unknown result not cached, calls = %d", p.calls)
	}

	p.fail = true
	c.Purge()
	if _, _, err := c.Frequency("plan"); err == nil {
		t.Fatal("error swallowed")
	}
	if c.Len() != 0 {
		t.Errorf("failed lookup cached, Len() = %d", c.Len())
	}
}

func TestNewCachedRejectsSize(t *testing.T) {
	if _, err := NewCached(NewIndex(), 0); err == nil {
		t.Error("NewCached(0) accepted")
	}
}
