package entities

// Identity is resolved once per request by the auth middleware and passed
// explicitly into every use case call.
type Identity struct {
	UserID   string
	IsSeller bool
}

func (i Identity) Authenticated() bool {
	return i.UserID != ""
}
