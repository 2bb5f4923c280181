package repositories

import "errors"

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidState is returned when a guarded update matches no row
	// because the interview is not in a status that allows it.
	ErrInvalidState = errors.New("interview status does not allow this update")

	// ErrDecisionConflict is returned when a decision update loses the
	// compare-and-set, either because another decision landed first or the
	// interview never reached a decidable status.
	ErrDecisionConflict = errors.New("interview decision conflict")
)

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
