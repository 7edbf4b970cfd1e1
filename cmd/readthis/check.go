package main

import (
	"fmt"

	"github.com/fwojciec/readthis"
)

// Run executes the check command.
func (c *CheckCmd) Run(deps *Dependencies) error {
	snap, err := deps.Registry.Load(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s (%s)\n", readthis.ErrorMessage(err), readthis.ErrorCode(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "%s: %d documents\n", deps.Registry.Path(), snap.Len())
	for _, doc := range snap.Documents() {
		if doc.Name != "" {
			fmt.Fprintf(deps.Stdout, "%s  %s  %s\n", doc.ID, doc.URL, doc.Name)
			continue
		}
		fmt.Fprintf(deps.Stdout, "%s  %s\n", doc.ID, doc.URL)
	}
	return nil
}
