package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/vinumeris/crashfx/internal/color"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
)

// evalContext exposes helper functions to config files.
func evalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Functions: map[string]function.Function{
			"env":        makeEnvFunc(),
			"rgb":        makeRGBFunc(),
			"hsb":        makeHSBFunc(),
			"brighter":   makeDeriveFunc("Brightens a color the way dashboard highlights are made", color.HSB.Brighter),
			"desaturate": makeDeriveFunc("Desaturates a color the way successive dashboard colors are made", color.HSB.Desaturate),
		},
	}
}

// makeEnvFunc creates an HCL function that reads an environment variable.
// Usage: env("CRASHFX_PASSWORD")
func makeEnvFunc() function.Function {
	return function.New(&function.Spec{
		Description: "Returns the value of an environment variable, or an empty string",
		Params: []function.Parameter{
			{
				Name: "name",
				Type: cty.String,
			},
		},
		Type: function.StaticReturnType(cty.String),
		Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
			return cty.StringVal(os.Getenv(args[0].AsString())), nil
		},
	})
}

// makeRGBFunc creates an HCL function that builds a hex color from 0-255 channels.
// Usage: rgb(100, 149, 237)
func makeRGBFunc() function.Function {
	return function.New(&function.Spec{
		Description: "Returns the hex color for red, green and blue channels in 0-255",
		Params: []function.Parameter{
			{Name: "red", Type: cty.Number},
			{Name: "green", Type: cty.Number},
			{Name: "blue", Type: cty.Number},
		},
		Type: function.StaticReturnType(cty.String),
		Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
			var ch [3]uint8
			for i, arg := range args {
				v, _ := arg.AsBigFloat().Float64()
				if v < 0 || v > 255 {
					return cty.NilVal, function.NewArgErrorf(i, "channel %v out of range 0-255", v)
				}
				ch[i] = uint8(v)
			}
			return cty.StringVal(color.Color{R: ch[0], G: ch[1], B: ch[2]}.Hex()), nil
		},
	})
}

// makeHSBFunc creates an HCL function that converts hue/saturation/brightness to hex.
// Usage: hsb(218.5, 0.578, 0.929)
func makeHSBFunc() function.Function {
	return function.New(&function.Spec{
		Description: "Returns the hex color for a hue in degrees and saturation and brightness in 0-1",
		Params: []function.Parameter{
			{Name: "hue", Type: cty.Number},
			{Name: "saturation", Type: cty.Number},
			{Name: "brightness", Type: cty.Number},
		},
		Type: function.StaticReturnType(cty.String),
		Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
			h, _ := args[0].AsBigFloat().Float64()
			s, _ := args[1].AsBigFloat().Float64()
			b, _ := args[2].AsBigFloat().Float64()
			if s < 0 || s > 1 {
				return cty.NilVal, function.NewArgErrorf(1, "saturation %v out of range 0-1", s)
			}
			if b < 0 || b > 1 {
				return cty.NilVal, function.NewArgErrorf(2, "brightness %v out of range 0-1", b)
			}
			c := color.HSB{Hue: h, Saturation: s, Brightness: b}.RGB().Color()
			return cty.StringVal(c.Hex()), nil
		},
	})
}

// makeDeriveFunc creates an HCL function applying an HSB transform to a hex color.
// Usage: brighter("#6495ed") or desaturate(hsb(0, 1, 1))
func makeDeriveFunc(description string, derive func(color.HSB) color.HSB) function.Function {
	return function.New(&function.Spec{
		Description: description,
		Params: []function.Parameter{
			{
				Name: "color",
				Type: cty.String,
			},
		},
		Type: function.StaticReturnType(cty.String),
		Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
			c, err := color.ParseHex(args[0].AsString())
			if err != nil {
				return cty.NilVal, fmt.Errorf("parsing color: %w", err)
			}
			derived := derive(c.RGB().HSB()).RGB().Color()
			return cty.StringVal(derived.Hex()), nil
		},
	})
}
