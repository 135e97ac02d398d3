package opts

// RootOpts contains shared options used by all commands
type RootOpts struct {
	Debug    bool
	NoAtomic bool
}

// Atomic reports whether outputs are written through a temp file
func (o *RootOpts) Atomic() bool {
	return !o.NoAtomic
}

// ReportedError marks an error the command already printed to the console
type ReportedError struct {
	Err error
}

func (e *ReportedError) Error() string {
	return e.Err.Error()
}

func (e *ReportedError) Unwrap() error {
	return e.Err
}

// Reported wraps err so main does not print it a second time
func Reported(err error) error {
	return &ReportedError{Err: err}
}
