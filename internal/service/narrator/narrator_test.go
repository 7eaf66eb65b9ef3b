package narrator

import (
	"context"
	"errors"
	"testing"
)

type failingOracle struct{}

func (failingOracle) Ask(context.Context, string) (string, error) {
	return "", errors.New("service unavailable")
}

func TestFallbackOracle_DegradesToCannedAnswer(t *testing.T) {
	oracle := NewFallbackOracle(failingOracle{})

	answer, err := oracle.Ask(context.Background(), "强盗可以抢中央区的牌吗")
	if err != nil {
		t.Fatalf("the fallback oracle must never surface an error, got: %v", err)
	}

	if answer != FALLBACK_ANSWER {
		t.Fatalf("a failing inner oracle must yield the canned answer, got %q", answer)
	}
}

func TestFallbackOracle_PassesThroughInnerAnswer(t *testing.T) {
	oracle := NewFallbackOracle(NewStaticOracle())

	answer, err := oracle.Ask(context.Background(), "猎人被处决会怎么样")
	if err != nil {
		t.Fatalf("asking about a known keyword should succeed, got: %v", err)
	}

	if answer == FALLBACK_ANSWER || answer == "" {
		t.Fatalf("a matched keyword must return the rule text, got %q", answer)
	}
}

func TestStaticNarrator_UnknownPhaseIsSilent(t *testing.T) {
	narr := NewStaticNarrator()

	if line := narr.PhaseLine("NightIntro"); line == "" {
		t.Fatalf("known phases must have a narration line")
	}

	if line := narr.PhaseLine("NoSuchPhase"); line != "" {
		t.Fatalf("unknown phases must yield an empty line, got %q", line)
	}
}
