package services

import "errors"

// ErrNotificationFailed wraps a decision email delivery failure. The HR
// decision transition is blocked behind it and the caller is expected to
// retry.
var ErrNotificationFailed = errors.New("decision notification failed")

// permanentError marks a failure that retrying cannot fix, such as media
// that can never be transcribed or content the analyzer rejects. Everything
// else is treated as transient and goes back to the retry scheduler.
type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }

func (e *permanentError) Unwrap() error { return e.err }

// Permanent wraps err so IsPermanent reports true for it.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsPermanent reports whether err was marked permanent anywhere in its chain.
func IsPermanent(err error) bool {
	var p *permanentError
	return errors.As(err, &p)
}
