// Package command executes the typly command line sub commands on top of the
// facade service.
package command

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/viant/typly"
	"github.com/viant/typly/cmd/options"
	"github.com/viant/typly/diag"
	"github.com/viant/typly/logger"
)

type Service struct {
	writer io.Writer
}

// Exec builds a workspace bound service and runs the selected sub command.
func (s *Service) Exec(ctx context.Context, opts *options.Options) error {
	service, err := s.newService(ctx, opts)
	if err != nil {
		return err
	}
	switch {
	case opts.Scan != nil:
		return s.scan(ctx, service)
	case opts.Resolve != nil:
		return s.resolve(ctx, service, opts.Resolve.Name)
	case opts.Print != nil:
		return s.print(ctx, service, opts.Print.Name)
	case opts.Check != nil:
		return s.check(ctx, service, opts.Check.Target, opts.Check.Iface)
	}
	return fmt.Errorf("no command was specified")
}

func (s *Service) newService(ctx context.Context, opts *options.Options) (*typly.Service, error) {
	workspace := opts.Workspace()
	if workspace == nil {
		return nil, fmt.Errorf("no command was specified")
	}
	srvOptions := []typly.Option{
		typly.WithDiagnosticsSink(diag.SinkFunc(func(diagnostic *diag.Diagnostic) {
			fmt.Fprintf(os.Stderr, "%v\n", diagnostic)
		})),
	}
	if len(workspace.Roots) > 0 {
		srvOptions = append(srvOptions, typly.WithRoots(workspace.Roots...))
	}
	if workspace.Manifest != "" {
		srvOptions = append(srvOptions, typly.WithManifestURL(workspace.Manifest))
	}
	if workspace.Debug {
		srvOptions = append(srvOptions, typly.WithLogger(logger.Debug()))
	}
	return typly.New(ctx, srvOptions...)
}

func New() *Service {
	return &Service{writer: os.Stdout}
}
