package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cuemby/graphdb/pkg/graphdb"
	"github.com/cuemby/graphdb/pkg/query"
	"github.com/cuemby/graphdb/pkg/types"
)

func init() {
	findCmd.Flags().String("where", "", "property:op:type=value filter, e.g. age:ge:int=42")
	findCmd.Flags().Bool("indexed", false, "require an index for --where, instead of falling back to a full scan")
}

var findCmd = &cobra.Command{
	Use:   "find <classId>",
	Short: "List vertex or edge records of a class, optionally filtered",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		classID, err := strconv.ParseUint(args[0], 10, 16)
		if err != nil {
			return err
		}

		db, txn, err := beginTxn(cmd, graphdb.ReadOnly)
		if err != nil {
			return err
		}
		defer db.Close()
		defer txn.Rollback()

		finder := txn.Find(types.ClassId(classID))

		where, _ := cmd.Flags().GetString("where")
		if where != "" {
			cond, err := parseCondition(where)
			if err != nil {
				return err
			}
			finder = finder.Where(cond)
		}
		if indexed, _ := cmd.Flags().GetBool("indexed"); indexed {
			finder = finder.Indexed()
		}

		results, err := finder.Get()
		if err != nil {
			return err
		}
		for _, rid := range results {
			fmt.Println(rid)
		}
		fmt.Printf("%d record(s)\n", len(results))
		return nil
	},
}

// parseCondition parses "property:op:type=value" into a query.Condition.
func parseCondition(s string) (query.Condition, error) {
	parts := strings.SplitN(s, ":", 3)
	if len(parts) != 3 {
		return query.Condition{}, fmt.Errorf("invalid --where %q, expected property:op:type=value", s)
	}
	property, opStr, typeValue := parts[0], parts[1], parts[2]

	op, err := parseOp(opStr)
	if err != nil {
		return query.Condition{}, err
	}
	typ, valueStr, ok := strings.Cut(typeValue, "=")
	if !ok {
		return query.Condition{}, fmt.Errorf("invalid --where %q, expected property:op:type=value", s)
	}
	val, err := parseValue(types.PropertyType(typ), valueStr)
	if err != nil {
		return query.Condition{}, err
	}
	return query.Condition{Property: property, Op: op, Value: val}, nil
}
