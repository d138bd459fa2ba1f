package js

import (
	"strings"

	"github.com/dop251/goja"

	"slidertext/pkg/html"
)

// domContext maps nodes to their proxies so the same node is always the
// same JS object, keeping === meaningful.
type domContext struct {
	vm      *goja.Runtime
	doc     *html.Document
	proxies map[*html.Node]*goja.Object
	nodes   map[*goja.Object]*html.Node
}

func registerDocument(vm *goja.Runtime, doc *html.Document) *domContext {
	ctx := &domContext{
		vm:      vm,
		doc:     doc,
		proxies: make(map[*html.Node]*goja.Object),
		nodes:   make(map[*goja.Object]*html.Node),
	}

	docObj := vm.NewObject()
	docObj.Set("querySelector", querySelectorFn(ctx, doc.Root))
	docObj.Set("querySelectorAll", querySelectorAllFn(ctx, doc.Root))
	docObj.Set("getElementById", func(call goja.FunctionCall) goja.Value {
		id := call.Argument(0).String()
		var found *html.Node
		doc.Root.Walk(func(n *html.Node) bool {
			if found != nil {
				return false
			}
			if v, ok := n.GetAttribute("id"); ok && v == id && n.Type == html.ElementNode {
				found = n
			}
			return found == nil
		})
		return ctx.proxy(found)
	})
	docObj.Set("body", ctx.proxy(firstTag(doc.Root, "body")))
	vm.Set("document", docObj)
	return ctx
}

func firstTag(root *html.Node, tag string) *html.Node {
	var found *html.Node
	root.Walk(func(n *html.Node) bool {
		if found == nil && n.Type == html.ElementNode && n.TagName == tag {
			found = n
		}
		return found == nil
	})
	return found
}

// proxy returns the JS object for n, or null.
func (ctx *domContext) proxy(n *html.Node) goja.Value {
	if n == nil {
		return goja.Null()
	}
	if obj, ok := ctx.proxies[n]; ok {
		return obj
	}
	obj := ctx.vm.NewDynamicObject(&elementAccessor{ctx: ctx, node: n})
	ctx.proxies[n] = obj
	ctx.nodes[obj] = n
	return obj
}

func (ctx *domContext) array(nodes []*html.Node) goja.Value {
	items := make([]interface{}, len(nodes))
	for i, n := range nodes {
		items[i] = ctx.proxy(n)
	}
	return ctx.vm.NewArray(items...)
}

// node returns the node behind a proxy, or nil for other values.
func (ctx *domContext) node(v goja.Value) *html.Node {
	obj, ok := v.(*goja.Object)
	if !ok {
		return nil
	}
	return ctx.nodes[obj]
}

// elementAccessor backs element proxies.
type elementAccessor struct {
	ctx  *domContext
	node *html.Node
}

var elementKeys = []string{
	"nodeType", "nodeName", "tagName", "id", "className", "textContent",
	"getAttribute", "hasAttribute", "setAttribute",
	"children", "childElementCount", "parentElement",
	"firstElementChild", "lastElementChild", "nextElementSibling", "previousElementSibling",
	"querySelector", "querySelectorAll", "matches", "closest",
	"classList", "style", "isConnected",
}

func (e *elementAccessor) Get(key string) goja.Value {
	vm := e.ctx.vm
	n := e.node

	switch key {
	case "nodeType":
		if n.Type == html.TextNode {
			return vm.ToValue(3)
		}
		return vm.ToValue(1)
	case "nodeName", "tagName":
		if n.Type == html.TextNode {
			if key == "tagName" {
				return goja.Undefined()
			}
			return vm.ToValue("#text")
		}
		return vm.ToValue(strings.ToUpper(n.TagName))
	case "id":
		id, _ := n.GetAttribute("id")
		return vm.ToValue(id)
	case "className":
		cls, _ := n.GetAttribute("class")
		return vm.ToValue(cls)
	case "textContent":
		return vm.ToValue(n.TextContent())
	case "getAttribute":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			v, ok := n.GetAttribute(call.Argument(0).String())
			if !ok {
				return goja.Null()
			}
			return vm.ToValue(v)
		})
	case "hasAttribute":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			_, ok := n.GetAttribute(call.Argument(0).String())
			return vm.ToValue(ok)
		})
	case "setAttribute":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			n.SetAttribute(call.Argument(0).String(), call.Argument(1).String())
			return goja.Undefined()
		})
	case "children":
		return e.ctx.array(n.ElementChildren())
	case "childElementCount":
		return vm.ToValue(len(n.ElementChildren()))
	case "parentElement":
		if p := n.Parent; p != nil && p.Type == html.ElementNode && p.TagName != "document" {
			return e.ctx.proxy(p)
		}
		return goja.Null()
	case "firstElementChild", "lastElementChild":
		kids := n.ElementChildren()
		if len(kids) == 0 {
			return goja.Null()
		}
		if key == "firstElementChild" {
			return e.ctx.proxy(kids[0])
		}
		return e.ctx.proxy(kids[len(kids)-1])
	case "nextElementSibling":
		return e.ctx.proxy(elementSibling(n, 1))
	case "previousElementSibling":
		return e.ctx.proxy(elementSibling(n, -1))
	case "querySelector":
		return vm.ToValue(querySelectorFn(e.ctx, n))
	case "querySelectorAll":
		return vm.ToValue(querySelectorAllFn(e.ctx, n))
	case "matches":
		return vm.ToValue(matchesFn(e.ctx, n))
	case "closest":
		return vm.ToValue(closestFn(e.ctx, n))
	case "classList":
		return newClassListProxy(e.ctx, n)
	case "style":
		return vm.NewDynamicObject(&styleAccessor{vm: vm, node: n})
	case "isConnected":
		return vm.ToValue(n.Attached())
	}
	return goja.Undefined()
}

// Set allows the writes scenarios need to stage content.
func (e *elementAccessor) Set(key string, val goja.Value) bool {
	switch key {
	case "textContent":
		e.node.SetTextContent(val.String())
		return true
	case "className":
		e.node.SetAttribute("class", val.String())
		return true
	case "id":
		e.node.SetAttribute("id", val.String())
		return true
	}
	return false
}

func (e *elementAccessor) Has(key string) bool {
	for _, k := range elementKeys {
		if k == key {
			return true
		}
	}
	return false
}

func (e *elementAccessor) Delete(string) bool { return false }

func (e *elementAccessor) Keys() []string { return elementKeys }

// elementSibling returns the element dir steps from n among its parent's
// element children.
func elementSibling(n *html.Node, dir int) *html.Node {
	if n.Parent == nil {
		return nil
	}
	kids := n.Parent.ElementChildren()
	for i, k := range kids {
		if k == n {
			if j := i + dir; j >= 0 && j < len(kids) {
				return kids[j]
			}
			return nil
		}
	}
	return nil
}

// styleAccessor exposes the inline style with camelCase names.
type styleAccessor struct {
	vm   *goja.Runtime
	node *html.Node
}

func (s *styleAccessor) Get(key string) goja.Value {
	return s.vm.ToValue(s.node.InlineStyle()[camelToKebab(key)])
}

func (s *styleAccessor) Set(key string, val goja.Value) bool {
	s.node.SetStyle(camelToKebab(key), val.String())
	return true
}

func (s *styleAccessor) Has(key string) bool {
	_, ok := s.node.InlineStyle()[camelToKebab(key)]
	return ok
}

func (s *styleAccessor) Delete(string) bool { return false }

func (s *styleAccessor) Keys() []string {
	style := s.node.InlineStyle()
	keys := make([]string, 0, len(style))
	for k := range style {
		keys = append(keys, k)
	}
	return keys
}

func camelToKebab(s string) string {
	var sb strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				sb.WriteByte('-')
			}
			r += 'a' - 'A'
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
