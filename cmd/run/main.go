package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/tetratelabs/wazero"
	"go.uber.org/zap"

	"github.com/wippyai/bstr/boundary"
	"github.com/wippyai/bstr/wasmbind"
)

func main() {
	var (
		wasmFile = flag.String("wasm", "", "Path to guest wasm file")
		funcName  = flag.String("func", "", "Guest function to call (optional)")
		strArg    = flag.String("arg", "", "String argument, passed as a handle")
		strResult = flag.Bool("str-result", false, "Resolve results as string handles and print their text")
		list      = flag.Bool("list", false, "List guest exports and exit")
		verbose   = flag.Bool("v", false, "Log handle lifecycle events")
	)
	flag.Parse()

	if *wasmFile == "" {
		fmt.Fprintln(os.Stderr, "Usage: run -wasm <file.wasm> [-func name] [-arg string]")
		fmt.Fprintln(os.Stderr, "       run -wasm <file.wasm> -list")
		os.Exit(1)
	}

	if *verbose {
		logger, _ := zap.NewDevelopment()
		wasmbind.SetLogger(logger)
		boundary.SetLogger(logger)
	}

	if err := run(*wasmFile, *funcName, *strArg, *list, *strResult); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(wasmFile, funcName, strArg string, listOnly, strResult bool) error {
	ctx := context.Background()

	data, err := os.ReadFile(wasmFile)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	rt := wazero.NewRuntime(ctx)
	defer rt.Close(ctx)

	surface := boundary.NewSurface()
	defer surface.Close()

	var created, released int
	surface.Subscribe(boundary.ObserverFunc(func(e boundary.Event) {
		switch e.Type {
		case boundary.EventCreated:
			created++
		case boundary.EventReleased:
			released++
		}
	}))

	binding := wasmbind.New(surface)
	if _, err := binding.Register(ctx, rt); err != nil {
		return fmt.Errorf("register surface: %w", err)
	}

	mod, err := rt.Instantiate(ctx, data)
	if err != nil {
		return fmt.Errorf("instantiate: %w", err)
	}

	fmt.Printf("Module: %s\n", wasmFile)
	if listOnly {
		fmt.Println("\nExported functions:")
		for name, def := range mod.ExportedFunctionDefinitions() {
			fmt.Printf("  %s(%s)\n", name, strings.Join(def.ParamNames(), ", "))
		}
		return nil
	}

	if funcName != "" {
		fn := mod.ExportedFunction(funcName)
		if fn == nil {
			return fmt.Errorf("function %q not exported", funcName)
		}

		var args []uint64
		if strArg != "" {
			h := surface.StringFromStatic(strArg)
			args = append(args, uint64(h))
		}

		results, err := fn.Call(ctx, args...)
		if err != nil {
			return fmt.Errorf("call %s: %w", funcName, err)
		}

		for i, r := range results {
			// Results are raw values unless the caller says they are
			// string handles; a numeric result can collide with a live
			// handle, so resolution is opt-in.
			if strResult {
				if data := surface.StringData(boundary.Handle(r)); data != nil {
					fmt.Printf("result[%d] = %q\n", i, data)
					continue
				}
			}
			fmt.Printf("result[%d] = %d\n", i, r)
		}
	}

	fmt.Printf("\nHandles: %d created, %d released, %d live\n",
		created, released, surface.HandleCount())
	return nil
}
