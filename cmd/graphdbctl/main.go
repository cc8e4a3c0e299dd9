// Command graphdbctl is an operational CLI over the embedded graph storage
// core: each subcommand opens the environment directory given by --dir,
// runs one transaction, and prints its result (SPEC_FULL.md §6's
// "operational surface", never reached by the core itself).
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
)

func main() {
	invocationID := uuid.New().String()
	ctx := withInvocationID(context.Background(), invocationID)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
