package models

import (
	"errors"
	"testing"
)

func TestParseSentiment(t *testing.T) {
	cases := []struct {
		in   string
		want Sentiment
	}{
		{"POSITIVE", SentimentPositive},
		{"negative", SentimentNegative},
		{"Neutral", SentimentNeutral},
	}

	for _, c := range cases {
		got, err := ParseSentiment(c.in)
		if err != nil {
			t.Fatalf("ParseSentiment(%q) returned error: %v", c.in, err)
		}
		if got != c.want {
			t.Errorf("ParseSentiment(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestParseSentimentUnknown(t *testing.T) {
	for _, in := range []string{"", "happy", "POSITIVE ", "mixed"} {
		if _, err := ParseSentiment(in); !errors.Is(err, ErrUnknownSentiment) {
			t.Errorf("ParseSentiment(%q) error = %v, want ErrUnknownSentiment", in, err)
		}
	}
}

func TestSentimentsOrder(t *testing.T) {
	got := Sentiments()
	want := []Sentiment{SentimentPositive, SentimentNegative, SentimentNeutral}
	if len(got) != len(want) {
		t.Fatalf("Sentiments() returned %d labels, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Sentiments()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
