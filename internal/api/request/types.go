package request

import "github.com/mcoot/itpreg/internal/model"

// MaxBodyBytes caps request bodies
const MaxBodyBytes = 64 << 10

// RegistrationRequest is the request body for submitting a registration.
// Field names match the remote registration API.
type RegistrationRequest struct {
	model.Registration
}
