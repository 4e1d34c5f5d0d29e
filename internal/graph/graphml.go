package graph

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"
)

// GraphML attribute keys, in declaration order. Every attribute is declared
// as a string so that absent values serialize as the empty string rather than
// a NaN-like sentinel; numeric fields carry plain decimal text.
var graphmlKeys = []struct {
	id   string
	name string
}{
	{"d0", "doi"},
	{"d1", "title"},
	{"d2", "year"},
	{"d3", "in_collection"},
	{"d4", "scite_supporting"},
	{"d5", "scite_contradicting"},
	{"d6", "scite_mentioning"},
	{"d7", "scite_unclassified"},
	{"d8", "scite_total"},
	{"d9", "scite_citingPublications"},
}

type graphmlDoc struct {
	XMLName xml.Name     `xml:"graphml"`
	XMLNS   string       `xml:"xmlns,attr"`
	Keys    []graphmlKey `xml:"key"`
	Graph   graphmlGraph `xml:"graph"`
}

type graphmlKey struct {
	ID       string `xml:"id,attr"`
	For      string `xml:"for,attr"`
	AttrName string `xml:"attr.name,attr"`
	AttrType string `xml:"attr.type,attr"`
}

type graphmlGraph struct {
	EdgeDefault string        `xml:"edgedefault,attr"`
	Nodes       []graphmlNode `xml:"node"`
	Edges       []graphmlEdge `xml:"edge"`
}

type graphmlNode struct {
	ID   string        `xml:"id,attr"`
	Data []graphmlData `xml:"data"`
}

type graphmlData struct {
	Key   string `xml:"key,attr"`
	Value string `xml:",chardata"`
}

type graphmlEdge struct {
	Source string `xml:"source,attr"`
	Target string `xml:"target,attr"`
}

// WriteGraphML serializes the graph to GraphML with the full node attribute
// set and plain directed edges.
func WriteGraphML(w io.Writer, g *Graph) error {
	doc := graphmlDoc{
		XMLNS: "http://graphml.graphdrawing.org/xmlns",
		Graph: graphmlGraph{EdgeDefault: "directed"},
	}
	for _, k := range graphmlKeys {
		doc.Keys = append(doc.Keys, graphmlKey{ID: k.id, For: "node", AttrName: k.name, AttrType: "string"})
	}

	for _, p := range g.Nodes {
		year := ""
		if p.Year != 0 {
			year = strconv.Itoa(p.Year)
		}
		values := []string{
			p.DOI,
			p.Title,
			year,
			strconv.FormatBool(p.InCollection),
			strconv.Itoa(p.Tally.Supporting),
			strconv.Itoa(p.Tally.Contradicting),
			strconv.Itoa(p.Tally.Mentioning),
			strconv.Itoa(p.Tally.Unclassified),
			strconv.Itoa(p.Tally.Total),
			strconv.Itoa(p.Tally.CitingPublications),
		}

		node := graphmlNode{ID: p.OpenAlexID}
		for i, v := range values {
			node.Data = append(node.Data, graphmlData{Key: graphmlKeys[i].id, Value: v})
		}
		doc.Graph.Nodes = append(doc.Graph.Nodes, node)
	}

	for _, e := range g.Edges {
		doc.Graph.Edges = append(doc.Graph.Edges, graphmlEdge{Source: e.CitingID, Target: e.CitedID})
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding GraphML: %w", err)
	}
	return enc.Close()
}

// WriteGraphMLFile writes the graph to a GraphML file.
func WriteGraphMLFile(path string, g *Graph) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := WriteGraphML(f, g); err != nil {
		return err
	}
	return f.Close()
}
