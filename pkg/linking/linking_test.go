package linking

import (
	"slices"
	"testing"
)

func TestNewOrderAndDedup(t *testing.T) {
	s := New("s", "es", "", "s", "n")
	want := []string{"", "s", "es", "n"}
	if got := s.All(); !slices.Equal(got, want) {
		t.Errorf("All() = %q, want %q", got, want)
	}
	if s.Len() != 4 {
		t.Errorf("Len() = %d, want 4", s.Len())
	}
	if !s.Contains("") || !s.Contains("es") || s.Contains("er") {
		t.Error("Contains() disagrees with All()")
	}
}

func TestAllReturnsCopy(t *testing.T) {
	s := New("s")
	got := s.All()
	got[1] = "x"
	if s.Contains("x") {
		t.Error("mutating All() result changed the set")
	}
}

func TestGermanStartsWithEmpty(t *testing.T) {
	if got := German().All()[0]; got != "" {
		t.Errorf("German()[0] = %q, want empty", got)
	}
}

func TestBoundaries(t *testing.T) {
	s := New("s", "es")
	tests := []struct {
		name string
		word string
		end  int
		want []Boundary
	}{
		{
			name: "empty and s",
			word: "Aktionsplan",
			end:  6,
			want: []Boundary{{Next: 6}, {Link: "s", Next: 7}},
		},
		{
			name: "link keeps original case",
			word: "AKTIONSPLAN",
			end:  6,
			want: []Boundary{{Next: 6}, {Link: "S", Next: 7}},
		},
		{
			name: "link may not end the word",
			word: "Aktions",
			end:  6,
			want: []Boundary{{Next: 6}},
		},
		{
			name: "end of word keeps empty link",
			word: "plan",
			end:  4,
			want: []Boundary{{Next: 4}},
		},
		{
			name: "no matching link",
			word: "Haustür",
			end:  4,
			want: []Boundary{{Next: 4}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Boundaries(tt.word, tt.end)
			if !slices.Equal(got, tt.want) {
				t.Errorf("Boundaries(%q, %d) = %+v, want %+v", tt.word, tt.end, got, tt.want)
			}
		})
	}
}

func TestNewDedupIgnoresCase(t *testing.T) {
	s := New("s", "S", "Es", "es")
	if want := []string{"", "s", "Es"}; !slices.Equal(s.All(), want) {
		t.Errorf("All() = %q, want %q", s.All(), want)
	}
	if !s.Contains("ES") {
		t.Error("Contains(ES) = false")
	}
	if got := s.Boundaries("Aktionsplan", 6); len(got) != 2 {
		t.Errorf("Boundaries() = %v, want the empty and one s boundary", got)
	}
}
