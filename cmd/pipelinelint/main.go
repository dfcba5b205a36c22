// Command pipelinelint validates a CI pipeline definition file and reports
// the secret variables it references.
//
// Usage:
//
//	pipelinelint [-strict] [file]
//
// The file defaults to .drone.yml. Exit status is non-zero when the config is
// invalid, or with -strict when any referenced secret is missing from the
// environment.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"bgcapi/internal/pipeline"
)

func main() {
	strict := flag.Bool("strict", false, "fail when a referenced secret is missing from the environment")
	flag.Parse()

	path := ".drone.yml"
	if flag.NArg() > 0 {
		path = flag.Arg(0)
	}

	os.Exit(run(path, *strict))
}

func run(path string, strict bool) int {
	cfg, err := pipeline.ParseFile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if err := cfg.Validate(); err != nil {
		var verr *pipeline.ValidationError
		if errors.As(err, &verr) {
			for _, p := range verr.Problems {
				fmt.Fprintf(os.Stderr, "%s: %s\n", path, p)
			}
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		return 1
	}

	fmt.Printf("%s: valid (%d build commands, %d compose services)\n",
		path, len(cfg.Build.Commands), len(cfg.Compose))

	missing := 0
	for _, name := range cfg.Secrets() {
		if _, ok := os.LookupEnv(name); ok {
			fmt.Printf("secret %s: present\n", name)
		} else {
			fmt.Printf("secret %s: missing\n", name)
			missing++
		}
	}

	if strict && missing > 0 {
		fmt.Fprintf(os.Stderr, "%d referenced secret(s) missing from the environment\n", missing)
		return 1
	}
	return 0
}
