package js

import (
	"github.com/dop251/goja"

	"slidertext/pkg/html"
)

// newClassListProxy implements the DOMTokenList of element.classList.
func newClassListProxy(ctx *domContext, node *html.Node) goja.Value {
	return ctx.vm.NewDynamicObject(&classListAccessor{ctx: ctx, node: node})
}

type classListAccessor struct {
	ctx  *domContext
	node *html.Node
}

var classListKeys = []string{"length", "value", "contains", "item", "add", "remove", "toggle"}

func (cl *classListAccessor) Get(key string) goja.Value {
	vm := cl.ctx.vm
	n := cl.node

	switch key {
	case "length":
		return vm.ToValue(len(n.Classes()))
	case "value":
		v, _ := n.GetAttribute("class")
		return vm.ToValue(v)
	case "contains":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			return vm.ToValue(n.HasClass(call.Argument(0).String()))
		})
	case "item":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			i := int(call.Argument(0).ToInteger())
			classes := n.Classes()
			if i < 0 || i >= len(classes) {
				return goja.Null()
			}
			return vm.ToValue(classes[i])
		})
	case "add":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			for _, arg := range call.Arguments {
				n.AddClass(arg.String())
			}
			return goja.Undefined()
		})
	case "remove":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			for _, arg := range call.Arguments {
				n.RemoveClass(arg.String())
			}
			return goja.Undefined()
		})
	case "toggle":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) == 0 {
				panic(vm.NewTypeError("Failed to execute 'toggle': 1 argument required"))
			}
			token := call.Arguments[0].String()
			want := !n.HasClass(token)
			if len(call.Arguments) > 1 {
				want = call.Arguments[1].ToBoolean()
			}
			if want {
				n.AddClass(token)
			} else {
				n.RemoveClass(token)
			}
			return vm.ToValue(want)
		})
	}
	return goja.Undefined()
}

func (cl *classListAccessor) Set(string, goja.Value) bool { return false }

func (cl *classListAccessor) Has(key string) bool {
	for _, k := range classListKeys {
		if k == key {
			return true
		}
	}
	return false
}

func (cl *classListAccessor) Delete(string) bool { return false }

func (cl *classListAccessor) Keys() []string { return classListKeys }
