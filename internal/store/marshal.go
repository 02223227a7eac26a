package store

import (
	"database/sql"
	"fmt"

	"github.com/roach88/stride/internal/record"
)

// marshalArgs converts args to canonical JSON TEXT.
func marshalArgs(args record.Object) (string, error) {
	if args == nil {
		args = record.Object{}
	}
	data, err := record.MarshalCanonical(args)
	if err != nil {
		return "", fmt.Errorf("marshal args: %w", err)
	}
	return string(data), nil
}

// marshalResult converts a result to canonical JSON TEXT, or NULL when the
// probe produced none.
func marshalResult(result record.Value) (sql.NullString, error) {
	if result == nil {
		return sql.NullString{}, nil
	}
	data, err := record.MarshalCanonical(result)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("marshal result: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func unmarshalArgs(data string) (record.Object, error) {
	if data == "" || data == "{}" {
		return record.Object{}, nil
	}
	obj, err := record.DecodeObject([]byte(data))
	if err != nil {
		return nil, fmt.Errorf("unmarshal args: %w", err)
	}
	return obj, nil
}

func unmarshalResult(data sql.NullString) (record.Value, error) {
	if !data.Valid {
		return nil, nil
	}
	v, err := record.Decode([]byte(data.String))
	if err != nil {
		return nil, fmt.Errorf("unmarshal result: %w", err)
	}
	return v, nil
}
