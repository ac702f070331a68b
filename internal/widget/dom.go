package widget

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Element creates a detached element with the given class list.
func Element(tag atom.Atom, classes ...string) *html.Node {
	node := &html.Node{
		Type:     html.ElementNode,
		DataAtom: tag,
		Data:     tag.String(),
	}
	if len(classes) > 0 {
		SetAttr(node, "class", strings.Join(classes, " "))
	}
	return node
}

func Attr(node *html.Node, key string) string {
	if node == nil {
		return ""
	}
	for _, attr := range node.Attr {
		if attr.Namespace == "" && attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

func HasAttr(node *html.Node, key string) bool {
	if node == nil {
		return false
	}
	for _, attr := range node.Attr {
		if attr.Namespace == "" && attr.Key == key {
			return true
		}
	}
	return false
}

func SetAttr(node *html.Node, key, value string) {
	for idx := range node.Attr {
		if node.Attr[idx].Namespace == "" && node.Attr[idx].Key == key {
			node.Attr[idx].Val = value
			return
		}
	}
	node.Attr = append(node.Attr, html.Attribute{Key: key, Val: value})
}

func RemoveAttr(node *html.Node, key string) {
	kept := node.Attr[:0]
	for _, attr := range node.Attr {
		if attr.Namespace == "" && attr.Key == key {
			continue
		}
		kept = append(kept, attr)
	}
	node.Attr = kept
}

func classList(node *html.Node) []string {
	return strings.Fields(Attr(node, "class"))
}

func HasClass(node *html.Node, class string) bool {
	if node == nil || node.Type != html.ElementNode {
		return false
	}
	for _, item := range classList(node) {
		if item == class {
			return true
		}
	}
	return false
}

func AddClass(node *html.Node, classes ...string) {
	current := classList(node)
	for _, class := range classes {
		if !HasClass(node, class) {
			current = append(current, class)
			SetAttr(node, "class", strings.Join(current, " "))
		}
	}
}

func RemoveClass(node *html.Node, classes ...string) {
	if !HasAttr(node, "class") {
		return
	}
	drop := make(map[string]struct{}, len(classes))
	for _, class := range classes {
		drop[class] = struct{}{}
	}
	kept := make([]string, 0, len(classList(node)))
	for _, item := range classList(node) {
		if _, ok := drop[item]; !ok {
			kept = append(kept, item)
		}
	}
	SetAttr(node, "class", strings.Join(kept, " "))
}

// Walk visits node and its descendants in document order until visit
// returns false.
func Walk(node *html.Node, visit func(*html.Node) bool) bool {
	if node == nil {
		return true
	}
	if !visit(node) {
		return false
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if !Walk(child, visit) {
			return false
		}
	}
	return true
}

// FindAllByClass returns every descendant element (root included) carrying
// class, in document order.
func FindAllByClass(root *html.Node, class string) []*html.Node {
	var found []*html.Node
	Walk(root, func(node *html.Node) bool {
		if HasClass(node, class) {
			found = append(found, node)
		}
		return true
	})
	return found
}

func FindByClass(root *html.Node, class string) *html.Node {
	var found *html.Node
	Walk(root, func(node *html.Node) bool {
		if HasClass(node, class) {
			found = node
			return false
		}
		return true
	})
	return found
}

func FindByID(root *html.Node, id string) *html.Node {
	var found *html.Node
	Walk(root, func(node *html.Node) bool {
		if node.Type == html.ElementNode && Attr(node, "id") == id {
			found = node
			return false
		}
		return true
	})
	return found
}

// Closest returns node or its nearest ancestor carrying class.
func Closest(node *html.Node, class string) *html.Node {
	for current := node; current != nil; current = current.Parent {
		if HasClass(current, class) {
			return current
		}
	}
	return nil
}

func RemoveChildren(node *html.Node) {
	for node.FirstChild != nil {
		node.RemoveChild(node.FirstChild)
	}
}

// Detach removes node from its parent, if any.
func Detach(node *html.Node) {
	if node.Parent != nil {
		node.Parent.RemoveChild(node)
	}
}

func SetText(node *html.Node, text string) {
	RemoveChildren(node)
	if text != "" {
		node.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	}
}

func AppendText(node *html.Node, text string) {
	node.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}

// TextContent concatenates the text of node and all its descendants.
func TextContent(node *html.Node) string {
	var builder strings.Builder
	Walk(node, func(current *html.Node) bool {
		if current.Type == html.TextNode {
			builder.WriteString(current.Data)
		}
		return true
	})
	return builder.String()
}

// SetInnerHTML replaces the children of node with markup parsed in node's
// context. Markup is trusted; nothing is sanitized. Unparseable markup falls
// back to a single text node.
func SetInnerHTML(node *html.Node, markup string) {
	RemoveChildren(node)
	if markup == "" {
		return
	}
	nodes, err := html.ParseFragment(strings.NewReader(markup), &html.Node{
		Type:     html.ElementNode,
		DataAtom: node.DataAtom,
		Data:     node.Data,
	})
	if err != nil {
		AppendText(node, markup)
		return
	}
	for _, child := range nodes {
		node.AppendChild(child)
	}
}

// InnerHTML serializes the children of node.
func InnerHTML(node *html.Node) string {
	var buf bytes.Buffer
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		_ = html.Render(&buf, child)
	}
	return buf.String()
}

// OuterHTML serializes node itself.
func OuterHTML(node *html.Node) string {
	var buf bytes.Buffer
	_ = html.Render(&buf, node)
	return buf.String()
}
