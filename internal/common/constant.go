package common

// AuthorizationHeaderName is the HTTP header used to carry the bearer
// session token on outbound requests to the ledger gateway.
const AuthorizationHeaderName = "Authorization"

// DefaultQuantityUnit is used when an event does not specify a unit.
const DefaultQuantityUnit = "kg"
