package finder

import (
	"errors"
	"fmt"
	"math/rand"
	"slices"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/bastiangx/wordsplit/pkg/linking"
	"github.com/bastiangx/wordsplit/pkg/segment"
	"github.com/bastiangx/wordsplit/pkg/trie"
)

func leafNotations(tree *segment.Tree) []string {
	var out []string
	for _, id := range tree.Leaves() {
		out = append(out, tree.Segmentation(id).String())
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func TestFindAktionsplan(t *testing.T) {
	dict := trie.FromWords("Akt", "Aktion", "plan")
	f := New(dict, linking.New("s"), Options{MinMorphLength: 2})

	tree, err := f.Find("Aktionsplan")
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	leaves := leafNotations(tree)

	if !contains(leaves, "Aktion(s)+plan") {
		t.Errorf("leaves %q missing Aktion(s)+plan", leaves)
	}
	if leaves[0] != "Aktionsplan" {
		t.Errorf("first leaf = %q, want trivial root", leaves[0])
	}
	tree.Walk(func(id segment.NodeID, _ int) bool {
		texts := tree.Segmentation(id).Texts()
		if len(texts) >= 2 && texts[0] == "Akt" && strings.HasPrefix(texts[1], "ion") {
			t.Errorf("tree contains %q although ion is unknown", tree.Segmentation(id))
		}
		return true
	})
	if len(leaves) != 2 {
		t.Errorf("leaves = %q, want exactly root and Aktion(s)+plan", leaves)
	}
}

func TestFindKeepsMorphCase(t *testing.T) {
	dict := trie.FromWords("kinder", "kind", "garten")
	f := New(dict, linking.New("er"), Options{})
	tree, err := f.Find("Kindergarten")
	if err != nil {
		t.Fatal(err)
	}
	leaves := leafNotations(tree)
	for _, want := range []string{"Kind(er)+garten", "Kinder+garten"} {
		if !contains(leaves, want) {
			t.Errorf("leaves %q missing %q", leaves, want)
		}
	}
}

func TestFindEmptyWord(t *testing.T) {
	f := New(trie.New(), nil, Options{})
	tree, err := f.Find("")
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Find(\"\") error = %v, want ErrInvalidInput", err)
	}
	if tree != nil {
		t.Error("Find(\"\") built a tree")
	}
}

func TestFindNoMatches(t *testing.T) {
	f := New(trie.FromWords("haus"), linking.German(), Options{})
	tree, err := f.Find("Xylophon")
	if err != nil {
		t.Fatal(err)
	}
	if tree.Len() != 1 {
		t.Errorf("Len() = %d, want only the root", tree.Len())
	}
	if got := leafNotations(tree); len(got) != 1 || got[0] != "Xylophon" {
		t.Errorf("leaves = %q", got)
	}
}

func TestFindWholeWordEntryNotDuplicated(t *testing.T) {
	f := New(trie.FromWords("haus", "tür", "haustür"), nil, Options{})
	tree, err := f.Find("Haustür")
	if err != nil {
		t.Fatal(err)
	}
	got := leafNotations(tree)
	want := []string{"Haustür", "Haus+tür"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("leaves = %q, want %q", got, want)
	}
}

func TestFindLinkNotAtEnd(t *testing.T) {
	f := New(trie.FromWords("aktion"), linking.New("s"), Options{})
	tree, err := f.Find("Aktions")
	if err != nil {
		t.Fatal(err)
	}
	if tree.Len() != 1 {
		t.Errorf("trailing linking morpheme produced nodes: %q", leafNotations(tree))
	}
}

func TestFindMaxParts(t *testing.T) {
	dict := trie.FromWords("ab", "cd", "ef", "gh")
	tests := []struct {
		maxParts int
		want     []string
	}{
		{1, []string{"abcdefgh"}},
		{3, []string{"abcdefgh"}},
		{4, []string{"abcdefgh", "ab+cd+ef+gh"}},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("max_%d", tt.maxParts), func(t *testing.T) {
			f := New(dict, nil, Options{MaxParts: tt.maxParts})
			tree, err := f.Find("abcdefgh")
			if err != nil {
				t.Fatal(err)
			}
			if got := leafNotations(tree); fmt.Sprint(got) != fmt.Sprint(tt.want) {
				t.Errorf("leaves = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFindMinMorphLength(t *testing.T) {
	dict := trie.FromWords("a", "b", "ab", "ba")
	f := New(dict, nil, Options{MinMorphLength: 2, MaxParts: 8})
	tree, err := f.Find("abba")
	if err != nil {
		t.Fatal(err)
	}
	got := leafNotations(tree)
	if fmt.Sprint(got) != fmt.Sprint([]string{"abba", "ab+ba"}) {
		t.Errorf("leaves = %q", got)
	}

	f = New(dict, nil, Options{MinMorphLength: 1, MaxParts: 8})
	tree, _ = f.Find("abba")
	if got := leafNotations(tree); !contains(got, "a+b+b+a") {
		t.Errorf("MinMorphLength 1 leaves = %q, missing a+b+b+a", got)
	}
}

func TestFindDefaultsClamped(t *testing.T) {
	f := New(trie.New(), nil, Options{MinMorphLength: -1, MaxParts: 0})
	if got := f.Options(); got != DefaultOptions() {
		t.Errorf("Options() = %+v, want %+v", got, DefaultOptions())
	}
}

func TestFindDeterministic(t *testing.T) {
	dict := trie.FromWords("Akt", "Aktion", "ions", "plan", "lan", "onsp", "tion", "ak")
	f := New(dict, linking.German(), Options{MinMorphLength: 2, MaxParts: 6})
	a, err := f.Find("Aktionsplan")
	if err != nil {
		t.Fatal(err)
	}
	b, _ := f.Find("Aktionsplan")
	if !a.Equal(b) {
		t.Error("two runs produced different trees")
	}
}

// randomFixture builds a small alphabet dictionary so many splits exist.
func randomFixture(r *rand.Rand) (*trie.Dictionary, []string) {
	alphabet := []rune("abcä")
	word := func(min, max int) string {
		n := min + r.Intn(max-min+1)
		var sb strings.Builder
		for i := 0; i < n; i++ {
			sb.WriteRune(alphabet[r.Intn(len(alphabet))])
		}
		return sb.String()
	}
	dict := trie.New()
	for i := 0; i < 12; i++ {
		dict.Insert(word(1, 4))
	}
	var words []string
	for i := 0; i < 20; i++ {
		words = append(words, word(1, 12))
	}
	return dict, words
}

func TestFindProperties(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	links := linking.New("a", "cb")
	for round := 0; round < 25; round++ {
		dict, words := randomFixture(r)
		f := New(dict, links, Options{MinMorphLength: 2, MaxParts: 4})
		for _, w := range words {
			tree, err := f.Find(w)
			if err != nil {
				t.Fatalf("Find(%q) error = %v", w, err)
			}
			if len(tree.Leaves()) == 0 {
				t.Fatalf("Find(%q) has no leaves", w)
			}
			tree.Walk(func(id segment.NodeID, depth int) bool {
				sw := tree.Segmentation(id)
				if sw.Word() != w {
					t.Errorf("node %q does not rebuild %q", sw, w)
				}
				if sw.Len() > 4 {
					t.Errorf("node %q exceeds MaxParts", sw)
				}
				if id == segment.Root {
					return true
				}
				if parent := tree.Segmentation(tree.Parent(id)); parent.Equal(sw) {
					t.Errorf("node %q of %q repeats its parent", sw, w)
				}
				if sw.Len() != depth+1 {
					t.Errorf("node %q at depth %d has %d parts", sw, depth, sw.Len())
				}
				if len(tree.Children(id)) == 0 && !tree.Complete(id) {
					t.Errorf("childless node %q of %q is incomplete", sw, w)
				}
				if !tree.IsLeaf(id) {
					return true
				}
				for _, m := range sw.Morphs {
					if utf8.RuneCountInString(m.Text) < 2 {
						t.Errorf("leaf %q has short morph %q", sw, m.Text)
					}
					if !dict.Contains(m.Text) {
						t.Errorf("leaf %q has unknown morph %q", sw, m.Text)
					}
				}
				if last := sw.Morphs[sw.Len()-1]; last.Link != "" {
					t.Errorf("leaf %q ends with a linking morpheme", sw)
				}
				return true
			})
		}
	}
}

func TestFindTreeShape(t *testing.T) {
	dict := trie.FromWords("Akt", "Aktion", "ion", "plan")
	tree, err := New(dict, linking.New("s"), Options{}).Find("Aktionsplan")
	if err != nil {
		t.Fatal(err)
	}

	type node struct {
		notation string
		parent   string
		depth    int
		complete bool
	}
	var got []node
	tree.Walk(func(id segment.NodeID, depth int) bool {
		parent := ""
		if id != segment.Root {
			parent = tree.Segmentation(tree.Parent(id)).String()
		}
		got = append(got, node{tree.Segmentation(id).String(), parent, depth, tree.Complete(id)})
		return true
	})
	want := []node{
		{"Aktionsplan", "", 0, true},
		{"Akt+ionsplan", "Aktionsplan", 1, false},
		{"Akt+ion(s)+plan", "Akt+ionsplan", 2, true},
		{"Aktion(s)+plan", "Aktionsplan", 1, true},
	}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("tree =\n%v\nwant\n%v", got, want)
	}
	wantLeaves := []string{"Aktionsplan", "Akt+ion(s)+plan", "Aktion(s)+plan"}
	if leaves := leafNotations(tree); fmt.Sprint(leaves) != fmt.Sprint(wantLeaves) {
		t.Errorf("leaves = %q, want %q", leaves, wantLeaves)
	}
}

func TestFindCompleteNodeKeepsRefinements(t *testing.T) {
	dict := trie.FromWords("haus", "tür", "türschlüssel", "schlüssel")
	tree, err := New(dict, nil, Options{}).Find("Haustürschlüssel")
	if err != nil {
		t.Fatal(err)
	}
	got := leafNotations(tree)
	want := []string{"Haustürschlüssel", "Haus+türschlüssel", "Haus+tür+schlüssel"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("leaves = %q, want %q", got, want)
	}
	if tree.Len() != 3 {
		t.Errorf("Len() = %d, want 3", tree.Len())
	}
}

// exhaustive lists every split of word into at least two parts by trying all cut points,
// without the finder's memo.
func exhaustive(word string, dict *trie.Dictionary, links []string, minLen, maxParts int) []string {
	var out []string
	var walk func(off int, morphs []segment.Morph)
	walk = func(off int, morphs []segment.Morph) {
		if off == len(word) {
			if len(morphs) >= 2 {
				out = append(out, segment.New(morphs...).String())
			}
			return
		}
		if len(morphs) == maxParts {
			return
		}
		for end := off + 1; end <= len(word); end++ {
			text := word[off:end]
			if utf8.RuneCountInString(text) < minLen || !dict.Contains(text) {
				continue
			}
			for _, l := range links {
				next := end + len(l)
				if l != "" && (next >= len(word) || word[end:next] != l) {
					continue
				}
				walk(next, append(slices.Clip(morphs), segment.Morph{Text: text, Link: l}))
			}
		}
	}
	walk(0, nil)
	slices.Sort(out)
	return out
}

func TestFindMatchesExhaustiveSearch(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	links := []string{"", "a", "cb", "b"}
	word := func(min, max int) string {
		b := make([]byte, min+r.Intn(max-min+1))
		for i := range b {
			b[i] = "abc"[r.Intn(3)]
		}
		return string(b)
	}
	for round := 0; round < 300; round++ {
		dict := trie.New()
		for i := 0; i < 3+r.Intn(8); i++ {
			dict.Insert(word(1, 3))
		}
		minLen := 1 + r.Intn(2)
		maxParts := 2 + r.Intn(4)
		f := New(dict, linking.New(links...), Options{MinMorphLength: minLen, MaxParts: maxParts})

		w := word(1, 10)
		tree, err := f.Find(w)
		if err != nil {
			t.Fatal(err)
		}
		var got []string
		for _, id := range tree.Leaves() {
			if id != segment.Root {
				got = append(got, tree.Segmentation(id).String())
			}
		}
		slices.Sort(got)
		if want := exhaustive(w, dict, links, minLen, maxParts); !slices.Equal(got, want) {
			t.Fatalf("Find(%q) min=%d max=%d dict=%q\ngot  %q\nwant %q",
				w, minLen, maxParts, slices.Collect(dict.Words()), got, want)
		}
	}
}

func FuzzFind(f *testing.F) {
	f.Add("Aktionsplan")
	f.Add("")
	f.Add("\xff\xfe")
	f.Add("ssssssssssssssssssss")
	f.Add("Übungsplatz")

	dict := trie.FromWords("Akt", "Aktion", "plan", "ss", "s", "übung", "platz", "\xff")
	finder := New(dict, linking.German(), Options{MinMorphLength: 1, MaxParts: 4})
	f.Fuzz(func(t *testing.T, word string) {
		tree, err := finder.Find(word)
		if word == "" {
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("empty word error = %v", err)
			}
			return
		}
		if err != nil {
			t.Fatalf("Find(%q) error = %v", word, err)
		}
		for _, id := range tree.Leaves() {
			if got := tree.Segmentation(id).Word(); got != word {
				t.Fatalf("leaf rebuilds %q, want %q", got, word)
			}
		}
	})
}

func TestFindLinksDifferingInCase(t *testing.T) {
	f := New(trie.FromWords("Aktion", "plan"), linking.New("s", "S"), Options{})
	tree, err := f.Find("Aktionsplan")
	if err != nil {
		t.Fatal(err)
	}
	if got := leafNotations(tree); fmt.Sprint(got) != fmt.Sprint([]string{"Aktionsplan", "Aktion(s)+plan"}) {
		t.Errorf("leaves = %q", got)
	}
}
