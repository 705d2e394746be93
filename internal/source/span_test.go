package source

import "testing"

func TestSpanCover(t *testing.T) {
	a := Span{File: 1, Start: 4, End: 9}
	b := Span{File: 1, Start: 2, End: 6}

	if got, want := a.Cover(b), (Span{File: 1, Start: 2, End: 9}); got != want {
		t.Fatalf("Cover() = %v, want %v", got, want)
	}
	if got := a.Cover(Span{File: 2, Start: 0, End: 20}); got != a {
		t.Fatalf("Cover across files = %v", got)
	}
}

func TestSpanLenAndString(t *testing.T) {
	s := Span{File: 3, Start: 4, End: 9}
	if s.Empty() || !(Span{File: 3, Start: 9, End: 9}).Empty() {
		t.Fatalf("Empty() wrong for %v", s)
	}
	if s.Len() != 5 || s.String() != "3:4-9" {
		t.Fatalf("Len/String = %d %q", s.Len(), s)
	}
}
