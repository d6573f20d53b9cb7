package mbt_test

import (
	"fmt"
	"log"

	"github.com/aretw0/mbt"
	"github.com/aretw0/mbt/pkg/adapters/lua"
	"github.com/aretw0/mbt/pkg/condition"
	"github.com/aretw0/mbt/pkg/dsl"
	"github.com/aretw0/mbt/pkg/generator"
)

// ExampleNew walks a guarded model until every transition has been covered.
func ExampleNew() {
	b := dsl.New("counter")
	b.Init("x = 0")
	b.Add("A").Go("e_enter", "B")
	b.Add("B").
		Branch("e_finish", "x > 0", "C").
		Go("e_back", "A").Then("x = x + 1")

	model, err := b.Build()
	if err != nil {
		log.Fatal(err)
	}

	env, err := lua.New()
	if err != nil {
		log.Fatal(err)
	}

	engine, err := mbt.New(model, mbt.WithExtended(env))
	if err != nil {
		log.Fatal(err)
	}
	defer engine.Close()

	if err := engine.AddCondition(condition.KindEdgeCoverage, "100"); err != nil {
		log.Fatal(err)
	}
	if err := engine.SetGenerator(generator.KindShortestPath); err != nil {
		log.Fatal(err)
	}

	for engine.HasNextStep() {
		step, err := engine.NextStep()
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(step.Label, step.State)
	}
	fmt.Println(engine.StatisticsCompact())

	// Output:
	// e_enter B/x=0;
	// e_back A/x=1;
	// e_enter B/x=1;
	// e_finish C/x=1;
	// E:3/3 S:3/3 L:4
}
