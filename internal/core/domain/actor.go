package domain

// Capability names a permission an actor may hold.
type Capability string

const (
	CapCreateEntry    Capability = "create-entry"
	CapPostEntry      Capability = "post-entry"
	CapCancelEntry    Capability = "cancel-entry"
	CapManageAccounts Capability = "manage-accounts"
)

// Actor is the authenticated principal performing an operation.
type Actor struct {
	ActorID      string
	Capabilities map[Capability]struct{}
}

// NewActor builds an Actor holding the given capabilities.
func NewActor(actorID string, caps ...Capability) Actor {
	set := make(map[Capability]struct{}, len(caps))
	for _, c := range caps {
		set[c] = struct{}{}
	}
	return Actor{ActorID: actorID, Capabilities: set}
}

// Has reports whether the actor holds capability c.
func (a Actor) Has(c Capability) bool {
	_, ok := a.Capabilities[c]
	return ok
}
