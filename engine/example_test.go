// SPDX-License-Identifier: MIT

package engine_test

import (
	"context"
	"fmt"
	"log"

	"github.com/golang/geo/r3"

	"github.com/katalvlaran/facetopo/builder"
	"github.com/katalvlaran/facetopo/config"
	"github.com/katalvlaran/facetopo/engine"
)

// ExampleEngine_Run reconstructs the faces and edges of a cube soup.
func ExampleEngine_Run() {
	soup, err := builder.Build(nil, builder.Cube(r3.Vector{}, 1))
	if err != nil {
		log.Fatal(err)
	}
	e, err := engine.NewFromRaw(config.Default(), soup.Raw())
	if err != nil {
		log.Fatal(err)
	}
	if err := e.Run(context.Background()); err != nil {
		log.Fatal(err)
	}
	d := e.Diagnostics()
	fmt.Println("charts:", d.Charts, "bodies:", d.Bodies, "lines:", d.Lines)
	// Output: charts: 6 bodies: 1 lines: 12
}
