package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cuemby/graphdb/pkg/graphdb"
	"github.com/cuemby/graphdb/pkg/types"
)

var vertexCmd = &cobra.Command{
	Use:   "vertex",
	Short: "Manage vertex records",
}

func init() {
	vertexAddCmd.Flags().StringArray("field", nil, "repeated name:type=value property, e.g. --field age:int=42")
	vertexCmd.AddCommand(vertexAddCmd)
}

var vertexAddCmd = &cobra.Command{
	Use:   "add <classId>",
	Short: "Add a vertex record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		classID, err := strconv.ParseUint(args[0], 10, 16)
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

		rid, err := txn.AddVertex(types.ClassId(classID), rec)
		if err != nil {
			_ = txn.Rollback()
			return err
		}
		if err := txn.Commit(); err != nil {
			return err
		}
		fmt.Printf("created vertex %s\n", rid)
		return nil
	},
}
