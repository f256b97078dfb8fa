package command

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/viant/typly"
)

func (s *Service) resolve(ctx context.Context, service *typly.Service, name string) error {
	resolved, err := service.Resolve(ctx, name)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(resolved, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to render %v, %w", name, err)
	}
	fmt.Fprintln(s.writer, string(data))
	return nil
}
