package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cuemby/graphdb/pkg/graphdb"
	"github.com/cuemby/graphdb/pkg/types"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Manage secondary indexes",
}

func init() {
	indexCreateCmd.Flags().Bool("unique", false, "reject inserts that duplicate an existing indexed value")
	indexCmd.AddCommand(indexCreateCmd, indexDropCmd)
}

var indexCreateCmd = &cobra.Command{
	Use:   "create <classId> <propId>",
	Short: "Create a secondary index and backfill it from existing records",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		classID, err := strconv.ParseUint(args[0], 10, 16)
		if err != nil {
			return err
		}
		propID, err := strconv.ParseUint(args[1], 10, 16)
		if err != nil {
			return err
		}
		unique, _ := cmd.Flags().GetBool("unique")

		db, txn, err := beginTxn(cmd, graphdb.ReadWrite)
		if err != nil {
			return err
		}
		defer db.Close()

		id, err := txn.AddIndex(types.ClassId(classID), types.PropertyId(propID), unique)
		if err != nil {
			_ = txn.Rollback()
			return err
		}
		if err := txn.Commit(); err != nil {
			return err
		}
		fmt.Printf("created index %d on class %d property %d\n", id, classID, propID)
		return nil
	},
}

var indexDropCmd = &cobra.Command{
	Use:   "drop <indexId>",
	Short: "Drop a secondary index",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseUint(args[0], 10, 16)
		if err != nil {
			return err
		}
		db, txn, err := beginTxn(cmd, graphdb.ReadWrite)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := txn.DropIndex(types.IndexId(id)); err != nil {
			_ = txn.Rollback()
			return err
		}
		if err := txn.Commit(); err != nil {
			return err
		}
		fmt.Printf("dropped index %d\n", id)
		return nil
	},
}
