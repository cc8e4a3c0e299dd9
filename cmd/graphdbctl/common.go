package main

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cuemby/graphdb/pkg/graphdb"
	"github.com/cuemby/graphdb/pkg/kv"
	"github.com/cuemby/graphdb/pkg/log"
	"github.com/cuemby/graphdb/pkg/metrics"
	"github.com/cuemby/graphdb/pkg/secindex"
	"github.com/cuemby/graphdb/pkg/types"
)

// openEnvironment opens the environment directory named by --dir and, if
// --metrics-addr is set, starts a background Prometheus endpoint that lives
// for the remainder of the invocation.
func openEnvironment(cmd *cobra.Command) (*graphdb.Database, error) {
	dir, err := cmd.Flags().GetString("dir")
	if err != nil {
		return nil, err
	}
	if addr, _ := cmd.Flags().GetString("metrics-addr"); addr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", metrics.Handler())
			log.WithComponent("graphdbctl").Info().Str("addr", addr).Msg("serving metrics")
			if err := http.ListenAndServe(addr, mux); err != nil {
				log.WithComponent("graphdbctl").Warn().Err(err).Msg("metrics server stopped")
			}
		}()
	}
	return graphdb.Open(dir, kv.Options{})
}

// beginTxn opens the environment and starts one transaction, tagging the
// component logger with this invocation's correlation id.
func beginTxn(cmd *cobra.Command, mode graphdb.Mode) (*graphdb.Database, *graphdb.Transaction, error) {
	db, err := openEnvironment(cmd)
	if err != nil {
		return nil, nil, err
	}
	invID := invocationIDFrom(cmd.Context())
	log.WithComponent("graphdbctl").Debug().Str("invocation_id", invID).Msg("beginning transaction")
	txn, err := db.BeginTxn(context.Background(), mode)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return db, txn, nil
}

// parseRecordId parses the "#class:position" form RecordId.String produces.
func parseRecordId(s string) (types.RecordId, error) {
	s = strings.TrimPrefix(s, "#")
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return types.RecordId{}, fmt.Errorf("invalid record id %q, expected #class:position", s)
	}
	class, err := strconv.ParseUint(parts[0], 10, 16)
	if err != nil {
		return types.RecordId{}, fmt.Errorf("invalid record id %q: %w", s, err)
	}
	pos, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		return types.RecordId{}, fmt.Errorf("invalid record id %q: %w", s, err)
	}
	return types.RecordId{ClassId: types.ClassId(class), Position: types.PositionId(pos)}, nil
}

// parseFields parses repeated --field name:type=value flags into a Record.
func parseFields(fields []string) (*types.Record, error) {
	rec := types.NewRecord()
	for _, f := range fields {
		nameType, value, ok := strings.Cut(f, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --field %q, expected name:type=value", f)
		}
		name, typ, ok := strings.Cut(nameType, ":")
		if !ok {
			return nil, fmt.Errorf("invalid --field %q, expected name:type=value", f)
		}
		v, err := parseValue(types.PropertyType(typ), value)
		if err != nil {
			return nil, fmt.Errorf("--field %q: %w", f, err)
		}
		rec.Set(name, v)
	}
	return rec, nil
}

func parseValue(t types.PropertyType, s string) (types.Value, error) {
	switch t {
	case types.PropertyText:
		return types.TextValue(s), nil
	case types.PropertyBlob:
		return types.BlobValue([]byte(s)), nil
	case types.PropertyReal:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return types.Value{}, err
		}
		return types.RealValue(f), nil
	case types.PropertyTinyInt, types.PropertySmallInt, types.PropertyInt, types.PropertyBigInt:
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return types.Value{}, err
		}
		return types.IntValue(t, i), nil
	case types.PropertyUTinyInt, types.PropertyUSmall, types.PropertyUInt, types.PropertyUBigInt:
		u, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return types.Value{}, err
		}
		return types.IntValue(t, int64(u)), nil
	default:
		return types.Value{}, fmt.Errorf("unknown property type %q", t)
	}
}

func parseOp(s string) (secindex.Op, error) {
	switch s {
	case "eq":
		return secindex.Eq, nil
	case "lt":
		return secindex.Lt, nil
	case "le":
		return secindex.Le, nil
	case "gt":
		return secindex.Gt, nil
	case "ge":
		return secindex.Ge, nil
	default:
		return 0, fmt.Errorf("unknown operator %q, expected one of eq,lt,le,gt,ge", s)
	}
}
