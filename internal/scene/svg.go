package scene

import (
	"bufio"
	"bytes"
	"encoding/xml"
	"io"
	"strings"
)

const svgNS = "http://www.w3.org/2000/svg"

// WriteSVG serializes the subtree rooted at n as SVG markup. An svg root
// without an xmlns attribute gets the SVG namespace added on output.
func WriteSVG(w io.Writer, n *Node) error {
	bw := bufio.NewWriter(w)
	sw := &svgWriter{w: bw}
	sw.node(n, 0, true)
	if sw.err != nil {
		return sw.err
	}
	return bw.Flush()
}

// SVGBytes is WriteSVG into memory.
func SVGBytes(n *Node) []byte {
	var buf bytes.Buffer
	_ = WriteSVG(&buf, n)
	return buf.Bytes()
}

type svgWriter struct {
	w   *bufio.Writer
	err error
}

func (s *svgWriter) str(v string) {
	if s.err != nil {
		return
	}
	_, s.err = s.w.WriteString(v)
}

func (s *svgWriter) escaped(v string) {
	if s.err != nil {
		return
	}
	s.err = xml.EscapeText(s.w, []byte(v))
}

func (s *svgWriter) node(n *Node, depth int, root bool) {
	s.str(strings.Repeat("  ", depth))
	s.str("<" + n.Tag)
	if root && n.Tag == "svg" {
		if _, ok := n.Attr("xmlns"); !ok {
			s.attr("xmlns", svgNS)
		}
	}
	for _, a := range n.attrs {
		s.attr(a.Name, a.Value)
	}
	if len(n.styles) > 0 {
		parts := make([]string, 0, len(n.styles))
		for _, st := range n.styles {
			parts = append(parts, st.Name+": "+st.Value)
		}
		s.attr("style", strings.Join(parts, "; "))
	}
	if len(n.children) == 0 && n.Text == "" {
		s.str("/>\n")
		return
	}
	s.str(">")
	if len(n.children) > 0 {
		s.str("\n")
		for _, c := range n.children {
			s.node(c, depth+1, false)
		}
		s.str(strings.Repeat("  ", depth))
	}
	s.escaped(n.Text)
	s.str("</" + n.Tag + ">\n")
}

func (s *svgWriter) attr(name, value string) {
	s.str(" " + name + `="`)
	s.escaped(value)
	s.str(`"`)
}
