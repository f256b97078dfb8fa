package command

import (
	"context"
	"fmt"

	"github.com/viant/typly"
)

func (s *Service) scan(ctx context.Context, service *typly.Service) error {
	names, err := service.Scan(ctx)
	if err != nil {
		return err
	}
	for _, name := range names {
		fmt.Fprintln(s.writer, name)
	}
	return nil
}
