package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/lp-radius/goradius/internal/radius"
	"github.com/lp-radius/goradius/internal/radius/registry"
)

const (
	formatJSON  = "json"
	formatTable = "table"
)

// errUnsupportedFormat is returned when the requested output format is not supported.
var errUnsupportedFormat = errors.New("unsupported output format")

// attributeView is the JSON-friendly rendering of a single attribute.
type attributeView struct {
	Type  byte   `json:"type"`
	Name  string `json:"name,omitempty"`
	Value string `json:"value"`
}

// packetView is the JSON-friendly rendering of a reply packet.
type packetView struct {
	Code          string           `json:"code"`
	Identifier    byte             `json:"identifier"`
	Authenticator string           `json:"authenticator"`
	Attributes    []attributeView  `json:"attributes"`
	RoundTrip     string           `json:"round_trip"`
}

// formatReply renders a parsed reply packet in the requested format.
func formatReply(pkt *radius.Packet, roundTrip string, format string) (string, error) {
	view := packetView{
		Code:          pkt.Code.String(),
		Identifier:    pkt.Identifier,
		Authenticator: fmt.Sprintf("%x", pkt.Authenticator),
		RoundTrip:     roundTrip,
	}
	for _, attr := range pkt.Attributes() {
		category := registry.CategoryFor(uint16(attr.Type()))
		view.Attributes = append(view.Attributes, attributeView{
			Type:  attr.Type(),
			Value: radius.RenderValue(category, attr.Value()),
		})
	}

	switch format {
	case formatJSON:
		return formatReplyJSON(view)
	case formatTable:
		return formatReplyTable(view), nil
	default:
		return "", fmt.Errorf("%w: %q", errUnsupportedFormat, format)
	}
}

func formatReplyJSON(view packetView) (string, error) {
	out, err := json.MarshalIndent(view, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal reply: %w", err)
	}
	return string(out), nil
}

func formatReplyTable(view packetView) string {
	var buf strings.Builder
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)

	fmt.Fprintf(w, "Code:\t%s\n", view.Code)
	fmt.Fprintf(w, "Identifier:\t%d\n", view.Identifier)
	fmt.Fprintf(w, "Authenticator:\t%s\n", view.Authenticator)
	fmt.Fprintf(w, "Round Trip:\t%s\n", view.RoundTrip)
	fmt.Fprintln(w, "ATTR-TYPE\tVALUE")
	for _, attr := range view.Attributes {
		fmt.Fprintf(w, "%d\t%s\n", attr.Type, attr.Value)
	}

	_ = w.Flush()
	return buf.String()
}
