package identity

import "testing"

func TestStringOmitsEmptyTitle(t *testing.T) {
	id := New("com.example.app", "")
	if got := id.String(); got != "com.example.app" {
		t.Fatalf("expected bare namespace, got %q", got)
	}
}

func TestStringJoinsNamespaceAndTitle(t *testing.T) {
	id := New("com.apple.controlcenter", "Clock")
	if got := id.String(); got != "com.apple.controlcenter:Clock" {
		t.Fatalf("unexpected encoding %q", got)
	}
}

func TestParseSplitsOnFirstColonOnly(t *testing.T) {
	id := Parse("com.example.app:Item:0:extra")
	if id.Namespace != "com.example.app" {
		t.Fatalf("unexpected namespace %q", id.Namespace)
	}
	if id.Title != "Item:0:extra" {
		t.Fatalf("title must keep embedded colons, got %q", id.Title)
	}
}

func TestRoundTrip(t *testing.T) {
	cases := []string{
		"com.example.app",
		"com.example.app:Item-0",
		"com.example.app:Item:with:colons",
		NullNamespace + ":orphan",
	}
	for _, s := range cases {
		if got := Parse(s).String(); got != s {
			t.Fatalf("round trip of %q produced %q", s, got)
		}
	}
}

func TestEmptyNamespaceBecomesNull(t *testing.T) {
	id := New("", "Stray")
	if id.Namespace != NullNamespace {
		t.Fatalf("expected null namespace, got %q", id.Namespace)
	}
	if _, ok := id.NamespaceValue(); ok {
		t.Fatalf("null namespace must convert to absent")
	}
	if ns, ok := New("com.example.app", "").NamespaceValue(); !ok || ns != "com.example.app" {
		t.Fatalf("expected present namespace, got %q (%v)", ns, ok)
	}
}

func TestCatalogMembership(t *testing.T) {
	if Clock.CanMove() {
		t.Fatalf("clock must be immovable")
	}
	if Clock.CanHide() {
		t.Fatalf("clock must not be hideable")
	}
	if Clock.String() != "com.apple.controlcenter:Clock" {
		t.Fatalf("unexpected clock encoding %q", Clock.String())
	}
	free := New("com.example.app", "Item-0")
	if !free.CanMove() || !free.CanHide() {
		t.Fatalf("ordinary items must be movable and hideable")
	}
	if AudioVideoModule.CanHide() {
		t.Fatalf("audio/video module must not be hideable")
	}
	if !AudioVideoModule.CanMove() {
		t.Fatalf("audio/video module is movable")
	}
}
