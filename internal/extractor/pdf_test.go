package extractor

import (
	"strings"
	"testing"
)

const statementText = `Kontoauszug Nr. 12/2024
Buchung Wert Umsatz
04.12.2024 Lastschrift / Belastung
D.T.NET Service OHG -48,40
Neuer Kontostand vom 31.12.2024`

func TestIsReadableText(t *testing.T) {
	if !isReadableText([]string{statementText}) {
		t.Error("real statement text should be readable")
	}

	// Identity-encoded fonts decode to high-codepoint garbage.
	garbage := strings.Repeat("ȴէ࢑", 100)
	if isReadableText([]string{garbage}) {
		t.Error("garbage text should not be readable")
	}

	if isReadableText([]string{"Saldo"}) {
		t.Error("too little text should not count as readable")
	}
}

func TestUnreadableResult(t *testing.T) {
	// A document whose fonts decode to garbage must fail, not slip
	// through as text the parser silently finds nothing in.
	garbage := strings.Repeat("ȴէ࢑", 100)
	if _, err := unreadableResult([]string{garbage, ""}); err == nil {
		t.Error("garbage pages should be an extraction error")
	}

	// Blank pages are a valid outcome: the parser reports them one by
	// one as skipped pages.
	pages, err := unreadableResult([]string{"", "  \n"})
	if err != nil {
		t.Fatalf("unexpected error for blank pages: %v", err)
	}
	if len(pages) != 2 {
		t.Errorf("pages: got %d, want 2", len(pages))
	}
}

func TestTextQualityHandlesGermanCharacters(t *testing.T) {
	q := textQuality([]string{"Überweisung Gläubiger-ID größerer Beträge äöüß 1.234,56 €"})
	if q < 0.95 {
		t.Errorf("quality of German statement text: got %f, want >= 0.95", q)
	}
}

func TestContainsCommonWords(t *testing.T) {
	if !containsCommonWords([]string{"KONTOAUSZUG Blatt 1 von 3"}) {
		t.Error("statement header words should be recognized")
	}
	if containsCommonWords([]string{"the quick brown fox"}) {
		t.Error("unrelated text should not be recognized")
	}
}
