// Package cmd wires the typly command line: option parsing and command
// execution.
package cmd

import (
	"context"
	"fmt"

	"github.com/jessevdk/go-flags"
	"github.com/viant/typly/cmd/command"
	soptions "github.com/viant/typly/cmd/options"
)

// RunApp parses the command line and executes the selected sub command.
func RunApp(version string, args []string) error {
	arguments := soptions.Arguments(args)
	if arguments.IsVersion() {
		fmt.Printf("Typly: version: %v\n", version)
		return nil
	}
	options, err := buildOptions(arguments)
	if err != nil || options == nil {
		return err
	}
	if err := options.Init(); err != nil {
		return err
	}
	cmd := command.New()
	return cmd.Exec(context.Background(), options)
}

func buildOptions(args soptions.Arguments) (*soptions.Options, error) {
	options := soptions.NewOptions(args)
	if _, err := flags.ParseArgs(options, args); err != nil {
		if args.IsHelp() {
			return nil, nil
		}
		return nil, err
	}
	if args.IsHelp() {
		return nil, nil
	}
	return options, nil
}
