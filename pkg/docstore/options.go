package docstore

// Option adjusts a single store operation.
type Option func(*options)

type options struct {
	subfolder string
	reset     bool
}

func applyOptions(opts []Option) options {
	// Collection saves reset their folder unless told otherwise.
	o := options{reset: true}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithSubfolder addresses documents inside a subfolder nested beneath
// the namespace directory.
func WithSubfolder(name string) Option {
	return func(o *options) {
		o.subfolder = name
	}
}

// WithoutReset makes SaveAll keep the existing namespace directory
// instead of deleting it before writing the collection. Documents
// removed from the collection since the last save are then left behind
// as orphaned files.
func WithoutReset() Option {
	return func(o *options) {
		o.reset = false
	}
}
