package frame

import "errors"

// ErrMissingCollaborator indicates the host did not supply a required surface,
// sink or scheduler. The loop refuses to start rather than degrade.
var ErrMissingCollaborator = errors.New("frame: missing collaborator")
