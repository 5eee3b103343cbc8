package mathpad_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/mathpad"
	"github.com/aretw0/mathpad/pkg/domain"
)

// ExampleEngine types an expression one character at a time, leaves the
// square root and evaluates it.
func ExampleEngine() {
	eng, err := mathpad.New()
	if err != nil {
		log.Fatal(err)
	}
	ctx := context.Background()

	snap, err := eng.Type(ctx, "demo", "2sqrt9")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(snap.Label, snap.LinearText)

	if _, _, err := eng.Key(ctx, "demo", domain.KeyEvent{Key: domain.KeyRight}); err != nil {
		log.Fatal(err)
	}

	out, err := eng.Apply(ctx, "demo", domain.InputEvent{Type: domain.InputKey, Key: "enter"})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(out.Snapshot.Mode, out.Output)

	// Output:
	// Square Root 2sqrt(9)
	// normal 6
}
