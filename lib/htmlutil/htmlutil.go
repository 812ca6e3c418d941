package htmlutil

import (
	"bytes"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

// SingleTextLeaf reports whether the element consists of exactly one text
// node and nothing else. Widgets addressed by id are expected to be flat
// text leaves; anything nested means the page structure shifted under us.
func SingleTextLeaf(node *html.Node) bool {
	child := node.FirstChild
	if child == nil {
		return false
	}
	return child.Type == html.TextNode && child.NextSibling == nil
}

// FindById locates the single element carrying the given id attribute.
// Returns nil when no such element exists.
func FindById(doc *goquery.Document, id string) *html.Node {
	for _, n := range doc.Find("[id]").Nodes {
		for _, a := range n.Attr {
			if a.Key == "id" && a.Val == id {
				return n
			}
		}
	}
	return nil
}
