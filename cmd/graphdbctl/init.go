package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an environment directory if it does not already exist",
	Long: `init opens the environment directory named by --dir, creating its
data file and catalog sub-databases if this is the first time it has been
opened, then closes it. Record, relation, and index sub-databases are
created later, by the first write that needs each one.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openEnvironment(cmd)
		if err != nil {
			return err
		}
		defer db.Close()
		dir, _ := cmd.Flags().GetString("dir")
		fmt.Printf("environment ready at %s\n", dir)
		return nil
	},
}
