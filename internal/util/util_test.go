package util

import "testing"

func TestContentHash(t *testing.T) {
	h1 := ContentHash([]byte("hello"))
	h2 := ContentHashString("hello")
	h3 := ContentHashString("world")

	if len(h1) != 64 {
		t.Errorf("Expected 64 hex characters, got %d", len(h1))
	}
	if h1 != h2 {
		t.Errorf("Expected identical hashes for identical content, got %s and %s", h1, h2)
	}
	if h1 == h3 {
		t.Error("Expected different hashes for different content")
	}
	if h1 != "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824" {
		t.Errorf("Unexpected sha256 for 'hello': %s", h1)
	}
}

func TestPlainText(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "Plain", input: "Garlic Noodles", expected: "Garlic Noodles"},
		{name: "Entities", input: "Salt &#038; Pepper Tofu", expected: "Salt & Pepper Tofu"},
		{name: "Smart quotes", input: "Mom&#8217;s Dumplings", expected: "Mom’s Dumplings"},
		{name: "Tags", input: "<p>Quick <strong>and</strong> easy</p>\n", expected: "Quick and easy"},
		{name: "Whitespace", input: "  a \n\t b  ", expected: "a b"},
		{name: "Empty", input: "", expected: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := PlainText(tc.input)
			if got != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, got)
			}
		})
	}
}
