package models

// ReactionOp describes which targeted update the store must apply after a
// toggle decision. The store keys each operation by reactor, so operations
// from different reactors never touch each other's entries.
type ReactionOp int

const (
	ReactionAdd ReactionOp = iota
	ReactionRemove
	ReactionReplace
)

// ToggleReaction applies the per-(message, reactor) state machine:
//
//	no entry            + emoji  -> add entry
//	entry with emoji    + emoji  -> remove entry (toggle off)
//	entry with emoji E  + emoji' -> replace emoji in place
//
// It returns the updated slice and the operation the store should persist.
func ToggleReaction(reactions []Reaction, who Identity, emoji string) ([]Reaction, ReactionOp) {
	for i, r := range reactions {
		if !r.User.Equal(who) {
			continue
		}
		if r.Emoji == emoji {
			out := make([]Reaction, 0, len(reactions)-1)
			out = append(out, reactions[:i]...)
			out = append(out, reactions[i+1:]...)
			return out, ReactionRemove
		}
		out := make([]Reaction, len(reactions))
		copy(out, reactions)
		out[i].Emoji = emoji
		return out, ReactionReplace
	}
	return append(append([]Reaction(nil), reactions...), Reaction{User: who, Emoji: emoji}), ReactionAdd
}

// ReactionFor returns the reactor's entry, if any.
func ReactionFor(reactions []Reaction, who Identity) (Reaction, bool) {
	for _, r := range reactions {
		if r.User.Equal(who) {
			return r, true
		}
	}
	return Reaction{}, false
}
