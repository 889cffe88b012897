package spotcheck_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/spotcheck"
	"github.com/aretw0/spotcheck/pkg/adapters/memory"
	"github.com/aretw0/spotcheck/pkg/domain"
)

// ExampleNew_memory walks one participant through a two-step test held in memory.
func ExampleNew_memory() {
	catalog := memory.NewCatalog(
		domain.Step{Instruction: "Open the settings page", ImageRef: "home.png", Hotspot: domain.Hotspot{X1: 10, Y1: 10, X2: 50, Y2: 50}},
		domain.Step{Instruction: "Change your password", ImageRef: "settings.png", Hotspot: domain.Hotspot{X1: 200, Y1: 40, X2: 120, Y2: 80}},
	)
	eng, err := spotcheck.New(
		spotcheck.WithCatalog(catalog),
		spotcheck.WithRecorder(memory.NewRecorder()),
	)
	if err != nil {
		log.Fatal(err)
	}
	ctx := context.Background()

	out, _ := eng.Interact(ctx, "", domain.Interaction{})
	fmt.Println(out.View.Instruction)

	out, _ = eng.Interact(ctx, out.Token, domain.Interaction{Click: &domain.Click{X: 30, Y: 30, StepIndex: 0}})
	fmt.Println(out.View.Instruction)

	out, _ = eng.Interact(ctx, out.Token, domain.Interaction{Click: &domain.Click{X: 5, Y: 5, StepIndex: 1}})
	fmt.Println(out.View.Message)

	out, _ = eng.Interact(ctx, out.Token, domain.Interaction{Questionnaire: &domain.Questionnaire{
		Difficulty:      6,
		UnclearStep:     "The second one",
		ExpectedMissing: "A security tab",
	}})
	fmt.Println(out.View.Message, out.Rotated)

	// Output:
	// Open the settings page
	// Change your password
	// Final Questions
	// Thank you for completing the test! true
}
