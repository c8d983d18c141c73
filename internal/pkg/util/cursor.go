package util

import (
	"encoding/base64"

	"github.com/goccy/go-json"
)

// EncodeCursor encodes search-after sort values into an opaque page cursor.
func EncodeCursor(sortValues []interface{}) string {
	if len(sortValues) == 0 {
		return ""
	}
	b, _ := json.Marshal(sortValues)
	return base64.StdEncoding.EncodeToString(b)
}

// DecodeCursor decodes a page cursor back into sort values.
func DecodeCursor(cursor string) ([]interface{}, error) {
	if cursor == "" {
		return nil, nil
	}
	b, err := base64.StdEncoding.DecodeString(cursor)
	if err != nil {
		return nil, err
	}
	var sortValues []interface{}
	err = json.Unmarshal(b, &sortValues)
	return sortValues, err
}
