// Package twisty models an N×N×N twisty puzzle: sticker bookkeeping for layer
// turns, a queue that runs one turn at a time, and a resolver that turns a
// pointer drag into a layer turn.
//
// # Quick Start
//
//	p, err := twisty.New(twisty.WithSize(3))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	p.OnTurn(func(m twisty.Move) {
//	    fmt.Println("Turn:", m.Notation())
//	})
//	p.OnSolved(func() {
//	    fmt.Println("Solved!")
//	})
//
//	// Queue turns and wait for them to finish
//	p.ApplyNotation(ctx, "x0 y2' z1")
//	fmt.Println(p)
//
// # Notation
//
// A move is an axis letter, a layer index and an optional prime for the
// backward direction: x0, y2', z1. Layer 0 has the smallest coordinate along
// the axis. Forward is counter-clockwise seen from the positive end of the
// axis.
//
// # Rendering
//
// A renderer supplies an Animator that rotates a wall on screen and then
// paints the move. Gestures are wired through NewGestureResolver with the
// renderer's hit test and projection.
package twisty
