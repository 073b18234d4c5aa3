// Package anim writes the NetAnim-style topology file consumed by external
// visualization tools. The simulation core only exposes display data; all
// formatting happens here.
package anim

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"

	"github.com/signalsfoundry/solarwan-simulator/model"
)

// wire shapes - unexported so the document layout can evolve freely.
type animXML struct {
	XMLName xml.Name  `xml:"anim"`
	Version string    `xml:"version,attr"`
	Nodes   []nodeXML `xml:"node"`
	Links   []linkXML `xml:"link"`
}

type nodeXML struct {
	ID    string  `xml:"id,attr"`
	Label string  `xml:"label,attr"`
	Role  string  `xml:"role,attr"`
	R     uint8   `xml:"r,attr"`
	G     uint8   `xml:"g,attr"`
	B     uint8   `xml:"b,attr"`
	X     float64 `xml:"x,attr"`
	Y     float64 `xml:"y,attr"`
}

type linkXML struct {
	ID    string `xml:"id,attr"`
	A     string `xml:"a,attr"`
	B     string `xml:"b,attr"`
	Block string `xml:"block,attr,omitempty"`
}

// Write renders the topology display data as XML.
func Write(w io.Writer, nodes []model.NodeDisplay, links []model.LinkDisplay) error {
	doc := animXML{Version: "1.0"}
	for _, n := range nodes {
		doc.Nodes = append(doc.Nodes, nodeXML{
			ID:    n.ID,
			Label: n.Label,
			Role:  string(n.Role),
			R:     n.Color.R,
			G:     n.Color.G,
			B:     n.Color.B,
			X:     n.X,
			Y:     n.Y,
		})
	}
	for _, l := range links {
		doc.Links = append(doc.Links, linkXML{ID: l.ID, A: l.A, B: l.B, Block: l.Block})
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("write animation header: %w", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode animation: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finish animation: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// WriteFile writes the animation document to the named file.
func WriteFile(path string, nodes []model.NodeDisplay, links []model.LinkDisplay) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create animation file: %w", err)
	}

	if err := Write(f, nodes, links); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
