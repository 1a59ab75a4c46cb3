package cmd

import (
	"encoding/json"
	"io"
)

func jsonEncode(w io.Writer, data interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
