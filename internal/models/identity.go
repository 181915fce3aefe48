package models

// Kind discriminates which collection an identity belongs to.
type Kind string

const (
	KindAdmin    Kind = "admins"
	KindEmployee Kind = "employees"
)

func (k Kind) Valid() bool {
	return k == KindAdmin || k == KindEmployee
}

// Identity is the tagged reference used for participants, senders and
// reactors. Each identity owns exactly one delivery channel named by its ID.
type Identity struct {
	ID   string `bson:"id" json:"id"`
	Kind Kind   `bson:"kind" json:"kind"`
}

func (i Identity) Channel() string { return i.ID }

func (i Identity) Equal(o Identity) bool {
	return i.ID == o.ID && i.Kind == o.Kind
}

func (i Identity) Zero() bool { return i.ID == "" }
