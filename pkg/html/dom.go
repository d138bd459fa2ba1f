package html

import (
	"sort"
	"strings"
	"sync/atomic"
)

// generation counts mutations made through Node methods, across all trees.
var generation atomic.Uint64

// Generation returns a counter that changes whenever a node is mutated
// through its methods. Direct writes to Node fields are not seen.
func Generation() uint64 { return generation.Load() }

type NodeType int

const (
	ElementNode NodeType = iota
	TextNode
)

// Node is a single element or text node of a page document.
type Node struct {
	Type       NodeType
	TagName    string
	Attributes map[string]string
	Text       string
	Children   []*Node
	Parent     *Node
}

type Document struct {
	Root        *Node
	Stylesheets []string // CSS from <style> tags
	Scripts     []string // JavaScript from <script> tags
}

func NewDocument() *Document {
	return &Document{
		Root: &Node{
			Type:     ElementNode,
			TagName:  "document",
			Children: make([]*Node, 0),
		},
		Stylesheets: make([]string, 0),
		Scripts:     make([]string, 0),
	}
}

// NewElement creates a detached element with the given attributes.
func NewElement(tag string, attrs map[string]string) *Node {
	n := &Node{
		Type:       ElementNode,
		TagName:    strings.ToLower(tag),
		Attributes: make(map[string]string, len(attrs)),
		Children:   make([]*Node, 0),
	}
	for k, v := range attrs {
		n.Attributes[k] = v
	}
	return n
}

// NewText creates a detached text node.
func NewText(text string) *Node {
	return &Node{Type: TextNode, Text: text}
}

func (n *Node) GetAttribute(name string) (string, bool) {
	if n.Attributes == nil {
		return "", false
	}
	val, ok := n.Attributes[name]
	return val, ok
}

func (n *Node) SetAttribute(name, value string) {
	if n.Attributes == nil {
		n.Attributes = make(map[string]string)
	}
	n.Attributes[name] = value
	generation.Add(1)
}

// AddChild appends child, detaching it from any previous parent first.
func (n *Node) AddChild(child *Node) {
	if child.Parent != nil {
		child.Parent.RemoveChild(child)
	}
	child.Parent = n
	n.Children = append(n.Children, child)
	generation.Add(1)
}

// AppendText creates a text node and adds it as a child
func (n *Node) AppendText(text string) {
	if text == "" {
		return
	}
	n.AddChild(NewText(text))
}

// RemoveChild removes the given child from this node's children list,
// clears its parent pointer, and returns the removed child.
// Returns nil if child is not found.
func (n *Node) RemoveChild(child *Node) *Node {
	for i, c := range n.Children {
		if c == child {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			child.Parent = nil
			generation.Add(1)
			return child
		}
	}
	return nil
}

// Remove detaches the node from its parent. Calling it on a detached node
// does nothing.
func (n *Node) Remove() {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// RemoveChildren detaches every child and returns them in order.
func (n *Node) RemoveChildren() []*Node {
	removed := n.Children
	for _, c := range removed {
		c.Parent = nil
	}
	n.Children = make([]*Node, 0)
	generation.Add(1)
	return removed
}

// InsertBefore inserts newChild before refChild in this node's children.
// If refChild is nil or not a child, newChild is appended.
func (n *Node) InsertBefore(newChild, refChild *Node) *Node {
	if newChild.Parent != nil {
		newChild.Parent.RemoveChild(newChild)
	}
	for i, c := range n.Children {
		if c == refChild {
			n.Children = append(n.Children, nil)
			copy(n.Children[i+1:], n.Children[i:])
			n.Children[i] = newChild
			newChild.Parent = n
			generation.Add(1)
			return newChild
		}
	}
	n.AddChild(newChild)
	return newChild
}

// ReplaceChild swaps oldChild for newChild at the same position.
// Returns nil if oldChild is not a child of n.
func (n *Node) ReplaceChild(newChild, oldChild *Node) *Node {
	if oldChild.Parent != n {
		return nil
	}
	n.InsertBefore(newChild, oldChild)
	return n.RemoveChild(oldChild)
}

// CloneNode returns a copy of the node. If deep is true, all descendants
// are cloned recursively. The clone has no parent.
func (n *Node) CloneNode(deep bool) *Node {
	clone := &Node{
		Type:     n.Type,
		TagName:  n.TagName,
		Text:     n.Text,
		Children: make([]*Node, 0, len(n.Children)),
	}
	if n.Attributes != nil {
		clone.Attributes = make(map[string]string, len(n.Attributes))
		for k, v := range n.Attributes {
			clone.Attributes[k] = v
		}
	}
	if deep {
		for _, child := range n.Children {
			c := child.CloneNode(true)
			c.Parent = clone
			clone.Children = append(clone.Children, c)
		}
	}
	return clone
}

// Contains returns true if other is a descendant of n (or n itself).
func (n *Node) Contains(other *Node) bool {
	for cur := other; cur != nil; cur = cur.Parent {
		if cur == n {
			return true
		}
	}
	return false
}

// Attached reports whether the node hangs off a document root.
func (n *Node) Attached() bool {
	cur := n
	for cur.Parent != nil {
		cur = cur.Parent
	}
	return cur.Type == ElementNode && cur.TagName == "document"
}

// IndexInParent returns the index of this node among its parent's children,
// or -1 if it has no parent.
func (n *Node) IndexInParent() int {
	if n.Parent == nil {
		return -1
	}
	for i, c := range n.Parent.Children {
		if c == n {
			return i
		}
	}
	return -1
}

// ElementChildren returns the element children, skipping text.
func (n *Node) ElementChildren() []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Type == ElementNode {
			out = append(out, c)
		}
	}
	return out
}

// Walk visits n and its descendants depth first. Returning false from fn
// skips the node's subtree.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range append([]*Node(nil), n.Children...) {
		c.Walk(fn)
	}
}

// TextContent returns the concatenated text of n and its descendants.
func (n *Node) TextContent() string {
	if n.Type == TextNode {
		return n.Text
	}
	var sb strings.Builder
	for _, child := range n.Children {
		sb.WriteString(child.TextContent())
	}
	return sb.String()
}

// SetTextContent replaces all children with a single text node.
func (n *Node) SetTextContent(text string) {
	n.RemoveChildren()
	n.AppendText(text)
}

// Classes returns the class tokens of the element.
func (n *Node) Classes() []string {
	cls, _ := n.GetAttribute("class")
	return strings.Fields(cls)
}

func (n *Node) HasClass(name string) bool {
	for _, c := range n.Classes() {
		if c == name {
			return true
		}
	}
	return false
}

func (n *Node) AddClass(names ...string) {
	classes := n.Classes()
	for _, name := range names {
		if !n.HasClass(name) {
			classes = append(classes, name)
			n.SetAttribute("class", strings.Join(classes, " "))
		}
	}
}

func (n *Node) RemoveClass(name string) {
	classes := n.Classes()
	kept := classes[:0]
	for _, c := range classes {
		if c != name {
			kept = append(kept, c)
		}
	}
	n.SetAttribute("class", strings.Join(kept, " "))
}

// InlineStyle parses the style attribute into a property map.
func (n *Node) InlineStyle() map[string]string {
	out := make(map[string]string)
	raw, _ := n.GetAttribute("style")
	for _, decl := range strings.Split(raw, ";") {
		idx := strings.IndexByte(decl, ':')
		if idx < 0 {
			continue
		}
		prop := strings.TrimSpace(decl[:idx])
		val := strings.TrimSpace(decl[idx+1:])
		if prop != "" {
			out[prop] = val
		}
	}
	return out
}

// SetStyle sets one inline style property, keeping the others.
func (n *Node) SetStyle(prop, value string) {
	styles := n.InlineStyle()
	styles[prop] = value
	keys := make([]string, 0, len(styles))
	for k := range styles {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+styles[k])
	}
	n.SetAttribute("style", strings.Join(parts, "; "))
}

// Serialize returns the innerHTML of this node, the serialized HTML of
// all child nodes but not the node's own tags.
func (n *Node) Serialize() string {
	var sb strings.Builder
	for _, child := range n.Children {
		serializeNode(&sb, child)
	}
	return sb.String()
}

// SerializeOuter returns the outerHTML of this node.
func (n *Node) SerializeOuter() string {
	var sb strings.Builder
	serializeNode(&sb, n)
	return sb.String()
}

func serializeNode(sb *strings.Builder, n *Node) {
	if n.Type == TextNode {
		sb.WriteString(escapeHTML(n.Text))
		return
	}

	sb.WriteByte('<')
	sb.WriteString(n.TagName)

	// Sorted for deterministic output
	keys := make([]string, 0, len(n.Attributes))
	for k := range n.Attributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		sb.WriteByte(' ')
		sb.WriteString(k)
		sb.WriteString(`="`)
		sb.WriteString(escapeAttr(n.Attributes[k]))
		sb.WriteByte('"')
	}
	sb.WriteByte('>')
	if isVoidElement(n.TagName) {
		return
	}
	for _, child := range n.Children {
		serializeNode(sb, child)
	}
	sb.WriteString("</")
	sb.WriteString(n.TagName)
	sb.WriteByte('>')
}

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer("&", "&amp;", `"`, "&quot;", "<", "&lt;", ">", "&gt;")
)

func escapeHTML(s string) string { return textEscaper.Replace(s) }

func escapeAttr(s string) string { return attrEscaper.Replace(s) }

func isVoidElement(tag string) bool {
	switch tag {
	case "br", "hr", "img", "input", "meta", "link", "area", "base",
		"col", "embed", "param", "source", "track", "wbr":
		return true
	}
	return false
}
