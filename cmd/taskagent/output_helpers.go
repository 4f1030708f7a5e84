package main

import (
	"encoding/json"
	"fmt"
	"io"
)

func encodeJSON(w io.Writer, value any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}

// writeReply prints one reply, separating it from the previous one with a
// blank line.
func writeReply(w io.Writer, index int, reply string) {
	if index > 0 {
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w, reply)
}
