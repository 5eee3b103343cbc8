package lua

import (
	"math"

	glua "github.com/yuin/gopher-lua"
)

var constants = map[string]float64{
	"pi": math.Pi,
	"e":  math.E,
}

var unary = map[string]func(float64) float64{
	"sqrt":  math.Sqrt,
	"abs":   math.Abs,
	"sin":   math.Sin,
	"cos":   math.Cos,
	"tan":   math.Tan,
	"asin":  math.Asin,
	"acos":  math.Acos,
	"atan":  math.Atan,
	"log":   math.Log,
	"ln":    math.Log,
	"exp":   math.Exp,
	"ceil":  math.Ceil,
	"floor": math.Floor,
	"round": math.Round,
}

var variadic = map[string]func(a, b float64) float64{
	"max": math.Max,
	"min": math.Min,
}

func isConstant(name string) bool {
	_, ok := constants[name]
	return ok
}

// known reports whether name is a function or constant visible to expressions.
func known(name string) bool {
	if _, ok := constants[name]; ok {
		return true
	}
	if _, ok := unary[name]; ok {
		return true
	}
	_, ok := variadic[name]
	return ok
}

// install registers the math globals in L.
func install(L *glua.LState) {
	for name, v := range constants {
		L.SetGlobal(name, glua.LNumber(v))
	}
	for name, fn := range unary {
		name, fn := name, fn
		L.SetGlobal(name, L.NewFunction(func(L *glua.LState) int {
			if L.GetTop() != 1 {
				L.RaiseError("%s expects 1 argument, got %d", name, L.GetTop())
			}
			L.Push(glua.LNumber(fn(float64(L.CheckNumber(1)))))
			return 1
		}))
	}
	for name, fn := range variadic {
		name, fn := name, fn
		L.SetGlobal(name, L.NewFunction(func(L *glua.LState) int {
			n := L.GetTop()
			if n == 0 {
				L.RaiseError("%s expects at least 1 argument", name)
			}
			acc := float64(L.CheckNumber(1))
			for i := 2; i <= n; i++ {
				acc = fn(acc, float64(L.CheckNumber(i)))
			}
			L.Push(glua.LNumber(acc))
			return 1
		}))
	}
}
