/*
Package dsl provides a Go DSL (Domain Specific Language) for programmatically constructing mbt models.

It allows developers to define models using a type-safe, fluent builder pattern
instead of relying on external YAML or JSON files. This is particularly useful for
unit testing, embedding a model in a harness, and leveraging IDE autocompletion.

Example usage:

	package main

	import (
		"github.com/aretw0/mbt/pkg/dsl"
	)

	func main() {
		b := dsl.New("counter")
		b.Init("x = 0")

		b.Add("A").Start().
			Go("e_enter", "B")

		b.Add("B").
			Branch("e_finish", "x > 0", "C").
			Go("e_back", "A").Then("x = x + 1")

		model, err := b.Build()
		if err != nil {
			panic(err)
		}
		_ = model // hand it to mbt.New
	}

States referenced as targets but never added are created on Build.
*/
package dsl
