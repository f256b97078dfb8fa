package command

import (
	"context"
	"fmt"

	"github.com/viant/typly"
)

func (s *Service) print(ctx context.Context, service *typly.Service, name string) error {
	rendered, err := service.Render(ctx, name)
	if err != nil {
		return err
	}
	fmt.Fprint(s.writer, rendered)
	return nil
}
