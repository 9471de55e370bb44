package tsf

import (
	"log/slog"

	"github.com/eak1mov/go-tileedit/imgcodec"
)

type options struct {
	logger *slog.Logger
	image  []imgcodec.Option
}

type Option func(*options)

func newOptions(opts []Option) options {
	o := options{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithImageFormat sets the image format tiles are encoded in. Defaults to PNG.
func WithImageFormat(format imgcodec.Format) Option {
	return func(o *options) {
		o.image = append(o.image, imgcodec.WithFormat(format))
	}
}

// WithQuality sets the encoding quality, 0 to 100. Defaults to 100.
func WithQuality(quality int) Option {
	return func(o *options) {
		o.image = append(o.image, imgcodec.WithQuality(quality))
	}
}
