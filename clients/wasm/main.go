//go:build js && wasm

// weatherart WASM: client-side renderer.
// Compiled with: GOOS=js GOARCH=wasm go build -o weatherart.wasm ./clients/wasm/
package main

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"log/slog"
	"sync"
	"syscall/js"

	"github.com/xob0t/weatherart/pkg/art"
	"github.com/xob0t/weatherart/pkg/generator"
)

// The generator is rebuilt whenever a custom font is registered.
var (
	genMu sync.RWMutex
	gen   *art.Generator
)

func main() {
	g, err := art.NewGenerator(art.DefaultOptions(), slog.Default(), nil)
	if err != nil {
		fmt.Println("weatherart WASM failed to start:", err)
		return
	}
	gen = g
	fmt.Println("weatherart WASM loaded")

	// Register JS-callable functions.
	js.Global().Set("goRenderArt", js.FuncOf(renderArt))
	js.Global().Set("goSelectBand", js.FuncOf(selectBand))
	js.Global().Set("goRegisterFont", js.FuncOf(registerFont))
	js.Global().Set("goReady", js.ValueOf(true))

	// Block forever (WASM must not exit).
	select {}
}

// goRenderArt(temp, rain, seed[, format]) renders and returns a base64 image,
// or a string starting with "error:".
func renderArt(this js.Value, args []js.Value) any {
	if len(args) < 2 {
		return js.ValueOf("error: need temp, rain[, seed, format]")
	}

	sample := art.Sample{Temperature: args[0].Float(), Rainfall: args[1].Float()}
	var seed uint64
	if len(args) > 2 && args[2].Type() == js.TypeNumber && args[2].Float() > 0 {
		seed = uint64(args[2].Float())
	}
	format := "png"
	if len(args) > 3 && args[3].Type() == js.TypeString {
		format = args[3].String()
	}

	genMu.RLock()
	g := gen
	genMu.RUnlock()

	img, stats, err := g.RenderWithSeed(sample, seed)
	if err != nil {
		return js.ValueOf("error: " + err.Error())
	}

	var buf bytes.Buffer
	if err := generator.Encode(&buf, format, img); err != nil {
		return js.ValueOf("error: " + err.Error())
	}

	js.Global().Set("goLastSeed", js.ValueOf(fmt.Sprint(stats.Seed)))
	return js.ValueOf(base64.StdEncoding.EncodeToString(buf.Bytes()))
}

// goSelectBand(temp) returns the band name for a temperature.
func selectBand(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf("error: need temp")
	}
	band, _ := art.SelectBand(args[0].Float())
	return js.ValueOf(band.String())
}

// goRegisterFont(base64Data) switches the caption font.
func registerFont(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf("error: need base64Data")
	}

	data, err := base64.StdEncoding.DecodeString(args[0].String())
	if err != nil {
		return js.ValueOf("error: invalid base64: " + err.Error())
	}

	opts := art.DefaultOptions()
	opts.FontData = data
	g, err := art.NewGenerator(opts, slog.Default(), nil)
	if err != nil {
		return js.ValueOf("error: " + err.Error())
	}

	genMu.Lock()
	gen = g
	genMu.Unlock()
	return js.ValueOf("ok")
}
