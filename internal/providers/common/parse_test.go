package common

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestParseClockDuration(t *testing.T) {
	cases := []struct {
		input string
		want  int
	}{
		{"1:32:10", 5530},
		{"4:05", 245},
		{"59", 59},
		{" 0:00 ", 0},
		{"", -1},
		{"LIVE", -1},
		{"1::2", -1},
		{"1:2:3:4", -1},
		{"-1:00", -1},
	}
	for _, tc := range cases {
		if got := ParseClockDuration(tc.input); got != tc.want {
			t.Errorf("ParseClockDuration(%q) = %d, want %d", tc.input, got, tc.want)
		}
	}
}

func TestUnescapeJSONString(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{`Tom & Jerry`, "Tom & Jerry"},
		{`\"Brat\" 1997`, `"Brat" 1997`},
		{`Брат`, "Брат"},
		{`plain`, "plain"},
		{`broken \x`, `broken \x`},
	}
	for _, tc := range cases {
		if got := UnescapeJSONString(tc.input); got != tc.want {
			t.Errorf("UnescapeJSONString(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestPositiveSecondsTreatsZeroAsUnknown(t *testing.T) {
	if PositiveSeconds(0) != nil || PositiveSeconds(-1) != nil {
		t.Fatalf("expected nil for non-positive seconds")
	}
	if got := PositiveSeconds(90); got == nil || *got != 90 {
		t.Fatalf("unexpected value %v", got)
	}
}

func TestCleanHTMLTextStripsTags(t *testing.T) {
	got := CleanHTMLText("<b>Tom</b> &amp; <i>Jerry</i>")
	if got != "Tom & Jerry" {
		t.Errorf("CleanHTMLText: got %q", got)
	}
}

func TestFetchReportsUnavailableOnStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != "agent/1.0" {
			t.Errorf("unexpected user agent %q", r.Header.Get("User-Agent"))
		}
		http.Error(w, "busy", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := Fetch(context.Background(), server.Client(), "api", server.URL, "agent/1.0", "")
	var sourceErr *SourceError
	if !errors.As(err, &sourceErr) {
		t.Fatalf("expected SourceError, got %v", err)
	}
	if sourceErr.Kind != KindUnavailable || sourceErr.Source != "api" {
		t.Fatalf("unexpected source error %#v", sourceErr)
	}
}

func TestKindOf(t *testing.T) {
	if KindOf(Malformed("x", errors.New("bad"))) != KindMalformed {
		t.Fatalf("expected malformed kind")
	}
	if KindOf(errors.New("plain")) != KindUnavailable {
		t.Fatalf("expected unavailable fallback")
	}
}
