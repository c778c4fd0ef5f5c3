package config

import "fmt"

// Decode converts a parsed document into Go values: string, int64,
// float64, bool, time.Time, []any, map[string]any and, for arrays of
// tables, []map[string]any. Placeholders left by parse errors are skipped.
func Decode(root *Root) (map[string]any, error) {
	doc := make(map[string]any)
	for _, node := range root.Body {
		switch node := node.(type) {
		case *KeyValue:
			if err := setKey(doc, node); err != nil {
				return doc, err
			}
		case *Table:
			table, err := openTable(doc, node)
			if err != nil {
				return doc, err
			}
			for _, kv := range node.Body {
				if err := setKey(table, kv); err != nil {
					return doc, err
				}
			}
		}
	}
	return doc, nil
}

// descend returns the table at parts below doc, creating missing tables. An
// array of tables resolves to its last element.
func descend(doc map[string]any, parts []string, key *Key) (map[string]any, error) {
	for _, part := range parts {
		switch next := doc[part].(type) {
		case nil:
			table := make(map[string]any)
			doc[part] = table
			doc = table
		case map[string]any:
			doc = next
		case []map[string]any:
			doc = next[len(next)-1]
		default:
			return nil, fmt.Errorf("%s: key %q is already defined as a %T", key.Location(), part, next)
		}
	}
	return doc, nil
}

func openTable(doc map[string]any, table *Table) (map[string]any, error) {
	parts := table.Key.Parts
	if len(parts) == 0 {
		return doc, nil
	}
	parent, err := descend(doc, parts[:len(parts)-1], table.Key)
	if err != nil {
		return nil, err
	}
	last := parts[len(parts)-1]
	if !table.ArrayOfTables {
		return descend(parent, []string{last}, table.Key)
	}
	elem := make(map[string]any)
	switch existing := parent[last].(type) {
	case nil:
		parent[last] = []map[string]any{elem}
	case []map[string]any:
		parent[last] = append(existing, elem)
	default:
		return nil, fmt.Errorf("%s: key %q is already defined as a %T", table.Key.Location(), last, existing)
	}
	return elem, nil
}

func setKey(doc map[string]any, kv *KeyValue) error {
	parts := kv.Key.Parts
	if len(parts) == 0 {
		return nil
	}
	value, ok := decodeValue(kv.Value)
	if !ok {
		return nil
	}
	table, err := descend(doc, parts[:len(parts)-1], kv.Key)
	if err != nil {
		return err
	}
	table[parts[len(parts)-1]] = value
	return nil
}

func decodeValue(v Value) (any, bool) {
	switch v := v.(type) {
	case *String:
		return v.Value, true
	case *Integer:
		return v.Value, true
	case *Float:
		return v.Value, true
	case *Boolean:
		return v.Value, true
	case *DateTime:
		return v.Value, true
	case *Array:
		elems := make([]any, 0, len(v.Elements))
		for _, elem := range v.Elements {
			if value, ok := decodeValue(elem); ok {
				elems = append(elems, value)
			}
		}
		return elems, true
	case *InlineTable:
		table := make(map[string]any)
		for _, kv := range v.Entries {
			if err := setKey(table, kv); err != nil {
				return nil, false
			}
		}
		return table, true
	}
	return nil, false
}
