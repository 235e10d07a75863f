package models

// AccountEventCreated is the kind of event emitted after a registration.
const AccountEventCreated = "account.created"

// AccountEvent is the wire format for audit events published to JetStream.
type AccountEvent struct {
	V         int    `msgpack:"v"`
	ID        string `msgpack:"id"`
	TS        int64  `msgpack:"ts"`
	Kind      string `msgpack:"kind"`
	AccountID string `msgpack:"account_id"`
	OrgID     string `msgpack:"org_id"`
	Email     string `msgpack:"email"`
}
