package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cuemby/graphdb/pkg/graphdb"
	"github.com/cuemby/graphdb/pkg/types"
)

var edgeCmd = &cobra.Command{
	Use:   "edge",
	Short: "Manage edge records",
}

func init() {
	edgeAddCmd.Flags().StringArray("field", nil, "repeated name:type=value property, e.g. --field weight:real=1.5")
	edgeCmd.AddCommand(edgeAddCmd)
}

var edgeAddCmd = &cobra.Command{
	Use:   "add <classId> <fromRid> <toRid>",
	Short: "Add an edge record connecting two vertices",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		classID, err := strconv.ParseUint(args[0], 10, 16)
		if err != nil {
			return err
		}
		from, err := parseRecordId(args[1])
		if err != nil {
			return err
		}
		to, err := parseRecordId(args[2])
		if err != nil {
			return err
		}
		fields, _ := cmd.Flags().GetStringArray("field")
		rec, err := parseFields(fields)
		if err != nil {
			return err
		}

		db, txn, err := beginTxn(cmd, graphdb.ReadWrite)
		if err != nil {
			return err
		}
		defer db.Close()

		rid, err := txn.AddEdge(types.ClassId(classID), from, to, rec)
		if err != nil {
			_ = txn.Rollback()
			return err
		}
		if err := txn.Commit(); err != nil {
			return err
		}
		fmt.Printf("created edge %s\n", rid)
		return nil
	},
}
