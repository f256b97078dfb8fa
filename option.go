package typly

import (
	"github.com/viant/gmetric"
	"github.com/viant/typly/builder"
	"github.com/viant/typly/diag"
	"github.com/viant/typly/logger"
)

type builderClaim struct {
	builder builder.Builder
	exts    []string
}

type options struct {
	session     string
	roots       []string
	manifestURL string
	metrics     *gmetric.Service
	logger      logger.Logger
	sink        diag.Sink
	builders    []*builderClaim
}

// Option customizes the service.
type Option func(o *options)

// WithRoots sets the artifact discovery roots.
func WithRoots(roots ...string) Option {
	return func(o *options) {
		o.roots = append(o.roots, roots...)
	}
}

// WithManifestURL points at the builder manifest governing which builders
// serve which artifact extensions; it replaces the built in defaults.
func WithManifestURL(URL string) Option {
	return func(o *options) {
		o.manifestURL = URL
	}
}

// WithMetrics shares a metric service; the service creates its own otherwise.
func WithMetrics(metrics *gmetric.Service) Option {
	return func(o *options) {
		o.metrics = metrics
	}
}

// WithLogger routes resolution and dispatch events to aLogger.
func WithLogger(aLogger logger.Logger) Option {
	return func(o *options) {
		o.logger = aLogger
	}
}

// WithDiagnosticsSink forwards every reported diagnostic to the host sink.
func WithDiagnosticsSink(sink diag.Sink) Option {
	return func(o *options) {
		o.sink = sink
	}
}

// WithSession fixes the correlation id carried by diagnostics and logs.
func WithSession(session string) Option {
	return func(o *options) {
		o.session = session
	}
}

// WithBuilder registers an additional source model builder with the
// extensions it claims.
func WithBuilder(b builder.Builder, exts ...string) Option {
	return func(o *options) {
		o.builders = append(o.builders, &builderClaim{builder: b, exts: exts})
	}
}

func newOptions(opts []Option) *options {
	ret := &options{}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}
