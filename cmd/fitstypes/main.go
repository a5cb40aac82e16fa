// Lists the value types supported by the fits package
package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/robert-malhotra/go-fits/fits"
)

func main() {
	if err := printTypes(os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}

func printTypes(out io.Writer) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TYPE\tSIZE\tRECORD\tCOLUMN\tIMAGE\tBITPIX")
	for _, c := range fits.SupportedTypes() {
		image, bitpix := "-", "-"
		if tag, err := c.ImageTag(); err == nil {
			image = fmt.Sprint(tag)
			b, _ := c.ImageBitpix()
			bitpix = fmt.Sprint(b)
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\t%s\t%s\n", c.Name(), c.Width(), c.RecordTag(), c.TForm(1), image, bitpix)
	}
	return w.Flush()
}
