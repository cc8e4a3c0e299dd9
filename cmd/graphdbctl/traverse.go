package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cuemby/graphdb/pkg/graphdb"
	"github.com/cuemby/graphdb/pkg/query"
	"github.com/cuemby/graphdb/pkg/types"
)

func init() {
	traverseCmd.Flags().String("direction", "out", "edge direction to follow: out, in, or all")
	traverseCmd.Flags().Int("min", 1, "minimum depth, in edges hopped")
	traverseCmd.Flags().Int("max", 1<<30, "maximum depth, in edges hopped")
	traverseCmd.Flags().Bool("dfs", false, "use depth-first rather than breadth-first expansion")
}

var traverseCmd = &cobra.Command{
	Use:   "traverse <rid>",
	Short: "Walk the relation graph outward from a starting record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		start, err := parseRecordId(args[0])
		if err != nil {
			return err
		}
		dirStr, _ := cmd.Flags().GetString("direction")
		minDepth, _ := cmd.Flags().GetInt("min")
		maxDepth, _ := cmd.Flags().GetInt("max")
		dfs, _ := cmd.Flags().GetBool("dfs")
		opts := query.TraverseOptions{MinDepth: minDepth, MaxDepth: maxDepth, DFS: dfs}

		db, txn, err := beginTxn(cmd, graphdb.ReadOnly)
		if err != nil {
			return err
		}
		defer db.Close()
		defer txn.Rollback()

		var reached []types.RecordId
		switch dirStr {
		case "out":
			reached, err = txn.TraverseOut(start, opts)
		case "in":
			reached, err = txn.TraverseIn(start, opts)
		case "all":
			reached, err = txn.TraverseAll(start, opts)
		default:
			return fmt.Errorf("unknown --direction %q, expected out, in, or all", dirStr)
		}
		if err != nil {
			return err
		}

		for _, rid := range reached {
			fmt.Println(rid)
		}
		fmt.Printf("%d record(s)\n", len(reached))
		return nil
	},
}
