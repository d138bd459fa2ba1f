package js

import (
	"github.com/dop251/goja"

	"slidertext/pkg/css"
	"slidertext/pkg/html"
)

// registerPage installs the page global.
func (e *Engine) registerPage() {
	vm := e.vm
	d := e.driver
	obj := vm.NewObject()

	obj.Set("press", func(call goja.FunctionCall) goja.Value {
		for _, key := range call.Arguments {
			d.Key(key.String())
		}
		return goja.Undefined()
	})
	obj.Set("click", func(call goja.FunctionCall) goja.Value {
		n := e.target(call.Argument(0), "click")
		return vm.ToValue(d.Click(n))
	})
	// tick(seconds, steps) advances the clock in equal steps.
	obj.Set("tick", func(call goja.FunctionCall) goja.Value {
		dt := call.Argument(0).ToFloat()
		steps := 1
		if len(call.Arguments) > 1 {
			steps = max(1, int(call.Arguments[1].ToInteger()))
		}
		for i := 0; i < steps; i++ {
			d.Tick(dt / float64(steps))
		}
		return goja.Undefined()
	})
	obj.Set("scroll", func(call goja.FunctionCall) goja.Value {
		d.Scroll(call.Argument(0).ToFloat())
		return goja.Undefined()
	})
	obj.Set("scrollY", func(goja.FunctionCall) goja.Value {
		return vm.ToValue(d.ScrollY())
	})
	obj.Set("resize", func(call goja.FunctionCall) goja.Value {
		d.Resize(call.Argument(0).ToFloat(), call.Argument(1).ToFloat())
		return goja.Undefined()
	})
	obj.Set("state", func(call goja.FunctionCall) goja.Value {
		s := d.State(e.target(call.Argument(0), "state"))
		out := vm.NewObject()
		out.Set("x", s.X)
		out.Set("y", s.Y)
		out.Set("yPercent", s.YPercent)
		out.Set("scale", s.Scale)
		out.Set("opacity", s.Opacity)
		return out
	})
	obj.Set("snapshot", func(call goja.FunctionCall) goja.Value {
		if e.snapshot == nil {
			panic(vm.NewTypeError("snapshots are not enabled"))
		}
		path := call.Argument(0).String()
		if err := e.snapshot(path); err != nil {
			panic(vm.NewGoError(err))
		}
		e.taken = append(e.taken, path)
		return goja.Undefined()
	})
	vm.Set("page", obj)
}

// target resolves an element proxy or a selector to a node, throwing when
// nothing matches.
func (e *Engine) target(v goja.Value, method string) *html.Node {
	if n := e.dom.node(v); n != nil {
		return n
	}
	if goja.IsUndefined(v) || goja.IsNull(v) {
		panic(e.vm.NewTypeError("Failed to execute '%s': 1 argument required", method))
	}
	if _, isObj := v.(*goja.Object); !isObj {
		sel := v.String()
		n, err := css.QuerySelector(e.dom.doc.Root, sel)
		if err != nil {
			invalidSelector(e.dom, sel, err)
		}
		if n != nil {
			return n
		}
		panic(e.vm.NewTypeError("%s: no element matches '%s'", method, sel))
	}
	panic(e.vm.NewTypeError("%s: argument is not an element", method))
}
