/*
Package spotcheck runs sequential "click the right spot" usability tests.

A participant is shown a series of images, each with an instruction and a hidden rectangular
target (the hotspot). Clicking inside the hotspot advances to the next image; clicking outside
diverts the participant to a short questionnaire, and submitting the questionnaire ends the
test. Every click and the questionnaire are appended to a result log.

# Concept

The Engine treats a test attempt as a small state machine keyed by an opaque identity token:

	InProgress(i) --hit--> InProgress(i+1) | AwaitingQuestionnaire (after the last step)
	InProgress(i) --miss--> AwaitingQuestionnaire
	AwaitingQuestionnaire --submit--> Completed (token rotated)

The step Catalog, the session StateStore and the ResultRecorder are ports, so the same engine
runs against SQLite, Redis, plain files or memory.

# Usage

	package main

	import (
		"context"
		"log"

		"github.com/aretw0/spotcheck"
		"github.com/aretw0/spotcheck/pkg/adapters/memory"
		"github.com/aretw0/spotcheck/pkg/domain"
	)

	func main() {
		eng, err := spotcheck.New(
			spotcheck.WithCatalog(memory.NewCatalog(domain.Step{
				Instruction: "Open the settings page",
				ImageRef:    "home.png",
				Hotspot:     domain.Hotspot{X1: 10, Y1: 10, X2: 50, Y2: 50},
			})),
			spotcheck.WithRecorder(memory.NewRecorder()),
		)
		if err != nil {
			log.Fatal(err)
		}

		ctx := context.Background()
		out, err := eng.Interact(ctx, "", domain.Interaction{
			Click: &domain.Click{X: 30, Y: 30, StepIndex: 0},
		})
		if err != nil {
			log.Fatal(err)
		}
		log.Println(out.View.Phase) // awaiting_questionnaire
	}
*/
package spotcheck
