package domain

import (
	"encoding/json"
	"testing"
)

func TestIsValidVideoID(t *testing.T) {
	valid := []string{"dQw4w9WgXcQ", "AAAAAAAAAAA", "a-b_c-d_e-f"}
	for _, id := range valid {
		if !IsValidVideoID(id) {
			t.Fatalf("expected %q to be valid", id)
		}
	}
	invalid := []string{"", "short", "dQw4w9WgXcQx", "dQw4w9WgXc!", "фильмфильмф"}
	for _, id := range invalid {
		if IsValidVideoID(id) {
			t.Fatalf("expected %q to be invalid", id)
		}
	}
}

func TestResultMarshalsAsPlainArray(t *testing.T) {
	result := Result{
		IDs: []string{"AAAAAAAAAAA", "BBBBBBBBBBB"},
		Meta: ResultMeta{
			Candidates: 7,
			TopScore:   5.5,
			Durations:  map[string]int{"AAAAAAAAAAA": 5400},
		},
	}
	data, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `["AAAAAAAAAAA","BBBBBBBBBBB"]` {
		t.Fatalf("unexpected json: %s", data)
	}

	empty, err := json.Marshal(Result{})
	if err != nil {
		t.Fatalf("marshal empty: %v", err)
	}
	if string(empty) != `[]` {
		t.Fatalf("expected empty array, got %s", empty)
	}
}

func TestCandidateDurationHelpers(t *testing.T) {
	unknown := Candidate{ID: "AAAAAAAAAAA"}
	if unknown.HasDuration() || unknown.DurationSeconds() != -1 {
		t.Fatalf("expected unknown duration, got %#v", unknown)
	}
	known := Candidate{ID: "AAAAAAAAAAA", Duration: Seconds(0)}
	if !known.HasDuration() || known.DurationSeconds() != 0 {
		t.Fatalf("zero is a known duration, got %#v", known)
	}
	if Seconds(-5) != nil {
		t.Fatal("negative seconds must map to unknown")
	}
}
