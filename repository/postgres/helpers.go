package postgres

import "encoding/json"

// labelsParam encodes labels for the JSONB column; an empty set is stored as NULL.
func labelsParam(labels map[string]string) (interface{}, error) {
	if len(labels) == 0 {
		return nil, nil
	}
	return json.Marshal(labels)
}

// uniqueKeyParam stores a missing unique key as NULL so the partial index ignores it.
func uniqueKeyParam(key string) interface{} {
	if key == "" {
		return nil
	}
	return key
}
