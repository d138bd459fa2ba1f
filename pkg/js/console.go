package js

import (
	"strings"

	"github.com/dop251/goja"
	"go.uber.org/zap"
)

// consoleAPI routes console output to the logger.
type consoleAPI struct {
	logger *zap.Logger
}

func (c *consoleAPI) register(vm *goja.Runtime) {
	console := vm.NewObject()
	console.Set("log", c.at(c.logger.Info))
	console.Set("info", c.at(c.logger.Info))
	console.Set("debug", c.at(c.logger.Debug))
	console.Set("warn", c.at(c.logger.Warn))
	console.Set("error", c.at(c.logger.Error))
	vm.Set("console", console)
}

func (c *consoleAPI) at(log func(string, ...zap.Field)) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		log(formatArgs(call.Arguments))
		return goja.Undefined()
	}
}

func formatArgs(args []goja.Value) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = arg.String()
	}
	return strings.Join(parts, " ")
}
