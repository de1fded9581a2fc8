// Package labels turns formatted labels into printer output. Labels are
// rendered as EPL2 and handed to a spooler either directly or through a
// Temporal workflow.
package labels

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/treasuretrove/ledger/services/inventory/domain/models"
)

const (
	// labelWidthDots is a 4" label at 203 dpi.
	labelWidthDots = 812
	leftMargin     = 20
	headerFont     = 4
	lineFont       = 3
)

var eplEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// RenderEPL encodes label as a single-copy EPL2 job. The y positions come
// from the label unchanged.
func RenderEPL(label models.Label) []byte {
	var b bytes.Buffer
	b.WriteString("\nN\n")
	fmt.Fprintf(&b, "q%d\n", labelWidthDots)
	if label.Header != nil {
		writeText(&b, label.Header.Y, headerFont, label.Header.Text)
	}
	for _, line := range label.Lines {
		writeText(&b, line.Y, lineFont, line.Text)
	}
	b.WriteString("P1\n")
	return b.Bytes()
}

func writeText(b *bytes.Buffer, y, font int, text string) {
	fmt.Fprintf(b, "A%d,%d,0,%d,1,1,N,\"%s\"\n", leftMargin, y, font, eplEscaper.Replace(text))
}
