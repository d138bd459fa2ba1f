package js

import (
	"github.com/dop251/goja"

	"slidertext/pkg/css"
	"slidertext/pkg/html"
)

// selectorArg returns the first argument as a selector, throwing when it
// is missing.
func selectorArg(ctx *domContext, call goja.FunctionCall, method string) string {
	if len(call.Arguments) == 0 {
		panic(ctx.vm.NewTypeError("Failed to execute '%s': 1 argument required", method))
	}
	return call.Arguments[0].String()
}

func invalidSelector(ctx *domContext, sel string, err error) {
	panic(ctx.vm.NewTypeError("'%s' is not a valid selector: %v", sel, err))
}

func querySelectorFn(ctx *domContext, root *html.Node) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		sel := selectorArg(ctx, call, "querySelector")
		n, err := css.QuerySelector(root, sel)
		if err != nil {
			invalidSelector(ctx, sel, err)
		}
		return ctx.proxy(n)
	}
}

func querySelectorAllFn(ctx *domContext, root *html.Node) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		sel := selectorArg(ctx, call, "querySelectorAll")
		nodes, err := css.QuerySelectorAll(root, sel)
		if err != nil {
			invalidSelector(ctx, sel, err)
		}
		return ctx.array(nodes)
	}
}

func matchesFn(ctx *domContext, node *html.Node) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		sel := selectorArg(ctx, call, "matches")
		ok, err := css.Matches(node, sel)
		if err != nil {
			invalidSelector(ctx, sel, err)
		}
		return ctx.vm.ToValue(ok)
	}
}

// closestFn walks from node up through its ancestors, node included.
func closestFn(ctx *domContext, node *html.Node) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		sel := selectorArg(ctx, call, "closest")
		for cur := node; cur != nil; cur = cur.Parent {
			if cur.Type != html.ElementNode || cur.TagName == "document" {
				continue
			}
			ok, err := css.Matches(cur, sel)
			if err != nil {
				invalidSelector(ctx, sel, err)
			}
			if ok {
				return ctx.proxy(cur)
			}
		}
		return goja.Null()
	}
}
