package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cuemby/graphdb/pkg/graphdb"
	"github.com/cuemby/graphdb/pkg/types"
)

var classCmd = &cobra.Command{
	Use:   "class",
	Short: "Manage vertex and edge classes",
}

func init() {
	classAddCmd.Flags().String("kind", "vertex", "class kind: vertex or edge")
	classAddCmd.Flags().Uint16("base", 0, "base class id to derive from")

	classCmd.AddCommand(classAddCmd, classDropCmd, classRenameCmd)
}

var classAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a new class",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, _ := cmd.Flags().GetString("kind")
		var classKind types.ClassKind
		switch kind {
		case "vertex":
			classKind = types.ClassKindVertex
		case "edge":
			classKind = types.ClassKindEdge
		default:
			return fmt.Errorf("unknown --kind %q, expected vertex or edge", kind)
		}

		var base *types.ClassId
		if cmd.Flags().Changed("base") {
			b, _ := cmd.Flags().GetUint16("base")
			classID := types.ClassId(b)
			base = &classID
		}

		db, txn, err := beginTxn(cmd, graphdb.ReadWrite)
		if err != nil {
			return err
		}
		defer db.Close()

		id, err := txn.AddClass(args[0], classKind, base)
		if err != nil {
			_ = txn.Rollback()
			return err
		}
		if err := txn.Commit(); err != nil {
			return err
		}
		fmt.Printf("created class %q with id %d\n", args[0], id)
		return nil
	},
}

var classDropCmd = &cobra.Command{
	Use:   "drop <id>",
	Short: "Drop an empty class",
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

		if err := txn.DropClass(types.ClassId(id)); err != nil {
			_ = txn.Rollback()
			return err
		}
		if err := txn.Commit(); err != nil {
			return err
		}
		fmt.Printf("dropped class %d\n", id)
		return nil
	},
}

var classRenameCmd = &cobra.Command{
	Use:   "rename <id> <newName>",
	Short: "Rename a class",
	Args:  cobra.ExactArgs(2),
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

		if err := txn.RenameClass(types.ClassId(id), args[1]); err != nil {
			_ = txn.Rollback()
			return err
		}
		if err := txn.Commit(); err != nil {
			return err
		}
		fmt.Printf("renamed class %d to %q\n", id, args[1])
		return nil
	},
}
