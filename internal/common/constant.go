package common

// SecurityTokenHeaderName is the gRPC metadata key carrying the opaque
// security token payload.
const SecurityTokenHeaderName = "security_token"
