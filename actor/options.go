package actor

const defaultName = "actor"

type options struct {
	name string
}

// Option configures New.
type Option func(*options)

// WithName sets the name used in logs, spans and metric labels.
func WithName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.name = name
		}
	}
}

func newOptions(opts []Option) options {
	o := options{name: defaultName}

	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return o
}
