package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cuemby/graphdb/pkg/graphdb"
	"github.com/cuemby/graphdb/pkg/types"
)

var propertyCmd = &cobra.Command{
	Use:   "property",
	Short: "Manage class properties",
}

func init() {
	propertyAddCmd.Flags().String("type", "text", "property type (tinyint, smallint, int, bigint, utinyint, usmallint, uint, ubigint, real, text, blob)")

	propertyCmd.AddCommand(propertyAddCmd, propertyDropCmd, propertyRenameCmd)
}

var propertyAddCmd = &cobra.Command{
	Use:   "add <classId> <name>",
	Short: "Declare a new property on a class",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		classID, err := strconv.ParseUint(args[0], 10, 16)
		if err != nil {
			return err
		}
		propType, _ := cmd.Flags().GetString("type")

		db, txn, err := beginTxn(cmd, graphdb.ReadWrite)
		if err != nil {
			return err
		}
		defer db.Close()

		id, err := txn.AddProperty(types.ClassId(classID), args[1], types.PropertyType(propType))
		if err != nil {
			_ = txn.Rollback()
			return err
		}
		if err := txn.Commit(); err != nil {
			return err
		}
		fmt.Printf("created property %q with id %d\n", args[1], id)
		return nil
	},
}

var propertyDropCmd = &cobra.Command{
	Use:   "drop <propId>",
	Short: "Drop a property and any index built on it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		propID, err := strconv.ParseUint(args[0], 10, 16)
		if err != nil {
			return err
		}
		db, txn, err := beginTxn(cmd, graphdb.ReadWrite)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := txn.DropProperty(types.PropertyId(propID)); err != nil {
			_ = txn.Rollback()
			return err
		}
		if err := txn.Commit(); err != nil {
			return err
		}
		fmt.Printf("dropped property %d\n", propID)
		return nil
	},
}

var propertyRenameCmd = &cobra.Command{
	Use:   "rename <propId> <newName>",
	Short: "Rename a property",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		propID, err := strconv.ParseUint(args[0], 10, 16)
		if err != nil {
			return err
		}
		db, txn, err := beginTxn(cmd, graphdb.ReadWrite)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := txn.RenameProperty(types.PropertyId(propID), args[1]); err != nil {
			_ = txn.Rollback()
			return err
		}
		if err := txn.Commit(); err != nil {
			return err
		}
		fmt.Printf("renamed property %d to %q\n", propID, args[1])
		return nil
	},
}
