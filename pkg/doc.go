// Package pkg provides the core libraries for cardstage.
//
// # Overview
//
// Cardstage turns the rows of a spreadsheet into cards floating in 3D and
// animates them between five arrangements: table, sphere, helix, grid and
// pyramid. The pkg directory is organized into these areas:
//
//  1. [card], [layout], [geom] - Domain model (rows, tiers, target positions)
//  2. [tween], [scene] - Animation (easing, the transition driver, camera)
//  3. [render] - Output (SVG, JSON, PNG, PDF and terminal frames)
//  4. [source], [integrations] - Row sources (Google Sheets, CSV, MongoDB)
//  5. [cache], [session], [config] - Infrastructure
//  6. [pipeline], [server] - Orchestration (fetch → layout → simulate → render)
//
// # Architecture
//
// The typical data flow through cardstage:
//
//	Google Sheet / CSV / MongoDB
//	         ↓
//	    [source] package (rows → cards)
//	         ↓
//	    [layout] package (targets per mode)
//	         ↓
//	    [scene] package (tweened transitions on a clock)
//	         ↓
//	    [render/sink] package (SVG/PNG/PDF/JSON, terminal, websocket)
//
// # Quick Start
//
// Render the cards of a CSV file after a trip through two modes:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/cardstage/pkg/pipeline"
//	)
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	result, err := runner.Execute(context.Background(), pipeline.Options{
//	    CSVPath: "people.csv",
//	    Modes:   []string{"table", "helix"},
//	    Formats: []string{"svg"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("people.svg", result.Artifacts["svg"], 0644)
//
// Or drive a live scene yourself:
//
//	s := scene.New(cards, scene.WithRenderer(renderer))
//	s.TransitionTo(layout.Sphere)
//	for range ticker.C {
//	    s.Tick()
//	}
//
// [card]: github.com/matzehuels/cardstage/pkg/card
// [layout]: github.com/matzehuels/cardstage/pkg/layout
// [geom]: github.com/matzehuels/cardstage/pkg/geom
// [tween]: github.com/matzehuels/cardstage/pkg/tween
// [scene]: github.com/matzehuels/cardstage/pkg/scene
// [render]: github.com/matzehuels/cardstage/pkg/render
// [render/sink]: github.com/matzehuels/cardstage/pkg/render/sink
// [source]: github.com/matzehuels/cardstage/pkg/source
// [integrations]: github.com/matzehuels/cardstage/pkg/integrations
// [cache]: github.com/matzehuels/cardstage/pkg/cache
// [session]: github.com/matzehuels/cardstage/pkg/session
// [config]: github.com/matzehuels/cardstage/pkg/config
// [pipeline]: github.com/matzehuels/cardstage/pkg/pipeline
// [server]: github.com/matzehuels/cardstage/pkg/server
package pkg
