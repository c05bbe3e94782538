package vm_test

import (
	"context"
	"strings"
	"testing"

	"github.com/chrisvm/chris/bytecode"
	"github.com/chrisvm/chris/compiler"
	"github.com/chrisvm/chris/parser"
	"github.com/chrisvm/chris/vm"
)

// nested returns (+ (+ (+ 1 1) 1) ...) with depth additions.
func nested(depth int) string {
	return strings.Repeat("(+ ", depth) + "1" + strings.Repeat(" 1)", depth)
}

func compile(b *testing.B, source string) *bytecode.Code {
	b.Helper()
	ast, err := parser.Parse(context.Background(), source)
	if err != nil {
		b.Fatal(err)
	}
	code, err := compiler.Compile(ast)
	if err != nil {
		b.Fatal(err)
	}
	return code
}

func benchmarkRun(b *testing.B, source string) {
	ctx := context.Background()
	code := compile(b, source)
	machine := vm.New()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := machine.Run(ctx, code); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkRun_Arithmetic(b *testing.B) {
	benchmarkRun(b, "(- (* 10 3) 10)")
}

func BenchmarkRun_Nested400(b *testing.B) {
	benchmarkRun(b, nested(400))
}

func BenchmarkRun_Concat(b *testing.B) {
	benchmarkRun(b, `(+ "hello" (+ " " "world"))`)
}

func BenchmarkRun_Parallel(b *testing.B) {
	ctx := context.Background()
	code := compile(b, nested(100))
	machine := vm.New()

	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if _, err := machine.Run(ctx, code); err != nil {
				b.Error(err)
				return
			}
		}
	})
}

func BenchmarkExec(b *testing.B) {
	ctx := context.Background()
	machine := vm.New()
	source := nested(50)

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := machine.Exec(ctx, source); err != nil {
			b.Fatal(err)
		}
	}
}
