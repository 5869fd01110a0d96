package base

import "github.com/lni/dragonboat/v4/logger"

var Logger = logger.GetLogger("transport/comm")

// options are shared by listeners and connectors
type options struct {
	logger logger.ILogger
}

// Option configures a listener or connector
type Option func(*options)

// WithLogger replaces the package logger, e.g. with common.NewMuteLogger()
func WithLogger(l logger.ILogger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{logger: Logger}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
