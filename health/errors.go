package health

import "errors"

var (
	// ErrProbeTimeout indicates a probe did not complete within the
	// configured probe timeout. Timeout results carry this error's
	// text so callers can tell slow dependencies from broken ones.
	ErrProbeTimeout = errors.New("health: probe timed out")

	// ErrDuplicateKey indicates two checks share a key.
	ErrDuplicateKey = errors.New("health: duplicate check key")

	// ErrEmptyKey indicates a check has no key.
	ErrEmptyKey = errors.New("health: empty check key")

	// ErrNilProbe indicates a check has no probe function.
	ErrNilProbe = errors.New("health: nil probe")

	// ErrInvalidDuration indicates a non-positive cache duration or
	// probe timeout.
	ErrInvalidDuration = errors.New("health: non-positive duration")
)
