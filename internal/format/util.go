package format

// commaSep runs the part printers with ", " between them.
func commaSep(w *Writer, parts []func()) {
	for i, part := range parts {
		if i > 0 {
			w.WriteString(", ")
		}
		part()
	}
}
