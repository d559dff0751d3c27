package cli

import (
	"encoding/json"
	"fmt"
	"io"
)

// printResult writes v to w in the requested format. Text format
// expects the caller to pass a pre-rendered string; JSON format
// marshals v directly.
func printResult(w io.Writer, format string, v any, text string) error {
	if format == "json" {
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("encode output: %w", err)
		}
		fmt.Fprintln(w, string(data))
		return nil
	}
	fmt.Fprintln(w, text)
	return nil
}
