package main

import (
	"fmt"
	"log"
	"os"

	"github.com/google/gops/agent"
	"github.com/viant/typly"
	"github.com/viant/typly/cmd"
)

func main() {
	go func() {
		if err := agent.Listen(agent.Options{}); err != nil {
			log.Fatal(err)
		}
	}()
	if err := cmd.RunApp(typly.Version, os.Args[1:]); err != nil {
		fmt.Printf("ERROR: %v\n", err)
		log.Fatal(err)
	}
}
