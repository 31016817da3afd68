package evalsession_test

import (
	"context"
	"fmt"
	"log"

	"github.com/fritzcoder/evalsession"
)

func Example() {
	ctx := context.Background()

	session, err := evalsession.New(ctx)
	if err != nil {
		log.Fatal(err)
	}
	defer session.Close()

	if err := session.ImportNamespaces(ctx, "strings"); err != nil {
		log.Fatal(err)
	}

	out, err := session.Evaluate(ctx, `upper("hello")`)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(out)

	// Output: HELLO
}

func Example_injectedInstance() {
	ctx := context.Background()

	session, err := evalsession.New(ctx)
	if err != nil {
		log.Fatal(err)
	}
	defer session.Close()

	type point struct {
		X int `cty:"x"`
		Y int `cty:"y"`
	}
	if err := session.AddInjectedInstance(ctx, point{X: 3, Y: 4}, "p"); err != nil {
		log.Fatal(err)
	}

	out, err := session.Evaluate(ctx, "p.x * p.x + p.y * p.y")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(out)

	// Output: 25
}
