package models_test

import (
	"testing"

	"github.com/baobao0303/BE-TIEM-NHA-ZIT/internal/models"
)

var (
	u1 = models.Identity{ID: "u1", Kind: models.KindEmployee}
	u2 = models.Identity{ID: "u2", Kind: models.KindAdmin}
)

func TestToggleReactionAdd(t *testing.T) {
	out, op := models.ToggleReaction(nil, u1, "❤️")
	if op != models.ReactionAdd {
		t.Fatalf("op = %v, want ReactionAdd", op)
	}
	if len(out) != 1 || out[0].Emoji != "❤️" || !out[0].User.Equal(u1) {
		t.Fatalf("unexpected reactions: %+v", out)
	}
}

func TestToggleReactionRemoveSameEmoji(t *testing.T) {
	in := []models.Reaction{{User: u1, Emoji: "❤️"}}
	out, op := models.ToggleReaction(in, u1, "❤️")
	if op != models.ReactionRemove {
		t.Fatalf("op = %v, want ReactionRemove", op)
	}
	if len(out) != 0 {
		t.Fatalf("got %d reactions, want 0", len(out))
	}
}

func TestToggleReactionReplaceDifferentEmoji(t *testing.T) {
	in := []models.Reaction{{User: u1, Emoji: "❤️"}}
	out, op := models.ToggleReaction(in, u1, "😂")
	if op != models.ReactionReplace {
		t.Fatalf("op = %v, want ReactionReplace", op)
	}
	if len(out) != 1 || out[0].Emoji != "😂" {
		t.Fatalf("unexpected reactions: %+v", out)
	}
}

func TestToggleReactionDoesNotTouchOtherReactors(t *testing.T) {
	in := []models.Reaction{{User: u1, Emoji: "❤️"}, {User: u2, Emoji: "👍"}}

	out, op := models.ToggleReaction(in, u2, "👍")
	if op != models.ReactionRemove {
		t.Fatalf("op = %v, want ReactionRemove", op)
	}
	if len(out) != 1 || !out[0].User.Equal(u1) || out[0].Emoji != "❤️" {
		t.Fatalf("u1's entry was disturbed: %+v", out)
	}

	out, op = models.ToggleReaction(in, u2, "🔥")
	if op != models.ReactionReplace {
		t.Fatalf("op = %v, want ReactionReplace", op)
	}
	if got, _ := models.ReactionFor(out, u1); got.Emoji != "❤️" {
		t.Fatalf("u1's emoji changed to %q", got.Emoji)
	}
	if got, _ := models.ReactionFor(out, u2); got.Emoji != "🔥" {
		t.Fatalf("u2's emoji = %q, want 🔥", got.Emoji)
	}
}

func TestToggleReactionDoesNotMutateInput(t *testing.T) {
	in := []models.Reaction{{User: u1, Emoji: "❤️"}}
	_, _ = models.ToggleReaction(in, u1, "😂")
	if in[0].Emoji != "❤️" {
		t.Fatalf("input slice mutated: %+v", in)
	}
}

func TestSameKindDistinctIDsAreDistinctReactors(t *testing.T) {
	a := models.Identity{ID: "x", Kind: models.KindEmployee}
	b := models.Identity{ID: "x", Kind: models.KindAdmin}
	in := []models.Reaction{{User: a, Emoji: "❤️"}}
	out, op := models.ToggleReaction(in, b, "❤️")
	if op != models.ReactionAdd {
		t.Fatalf("op = %v, want ReactionAdd: same ID with different kind is a different reactor", op)
	}
	if len(out) != 2 {
		t.Fatalf("got %d reactions, want 2", len(out))
	}
}
