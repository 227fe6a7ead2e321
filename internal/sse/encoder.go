package sse

import (
	"bufio"
	"fmt"
)

// WriteData writes one `data:` record followed by the blank line that ends
// an event, then flushes so the client sees it immediately.
func WriteData(w *bufio.Writer, payload string) error {
	if _, err := fmt.Fprintf(w, "%s%s\n\n", dataPrefix, payload); err != nil {
		return err
	}
	return w.Flush()
}

func WriteDone(w *bufio.Writer) error {
	return WriteData(w, doneSentinel)
}
