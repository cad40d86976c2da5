package header

import "testing"

func TestParserObsFold(t *testing.T) {
	p := NewParser()
	lines := []string{"X-Foo: a", " b", "X-Bar: c", ""}
	for _, l := range lines {
		if !p.Absorb(l) {
			t.Fatalf("absorb failed for %q", l)
		}
	}
	if !p.Complete() {
		t.Fatal("expected complete after blank line")
	}
	if v, _ := p.Headers().Get("X-Foo"); v != "a, b" {
		t.Fatalf("X-Foo = %q, want %q", v, "a, b")
	}
	if v, _ := p.Headers().Get("X-Bar"); v != "c" {
		t.Fatalf("X-Bar = %q, want c", v)
	}
}

func TestParserRejectsContinuationWithNoField(t *testing.T) {
	p := NewParser()
	if p.Absorb(" stray continuation") {
		t.Fatal("expected absorb to fail with no preceding field")
	}
}

func TestParserRejectsMalformedLine(t *testing.T) {
	p := NewParser()
	if p.Absorb("not-a-header-line") {
		t.Fatal("expected absorb to fail on line without colon")
	}
}

func TestParserDoesNotAbsorbBlankLineAsField(t *testing.T) {
	p := NewParser()
	p.Absorb("Host: x")
	p.Absorb("")
	if p.Headers().Len() != 1 {
		t.Fatalf("expected exactly 1 header, got %d", p.Headers().Len())
	}
}

func TestParserCombinesRepeatedFields(t *testing.T) {
	p := NewParser()
	p.Absorb("X-Multi: one")
	p.Absorb("X-Multi: two")
	p.Absorb("")
	if v, _ := p.Headers().Get("X-Multi"); v != "one,two" {
		t.Fatalf("X-Multi = %q", v)
	}
}

func TestParserReset(t *testing.T) {
	p := NewParser()
	p.Absorb("Host: x")
	p.Absorb("")
	p.Reset()
	if p.Complete() {
		t.Fatal("expected reset parser to not be complete")
	}
	if p.Headers().Len() != 0 {
		t.Fatal("expected reset parser to have no headers")
	}
}
