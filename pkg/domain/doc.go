/*
Package domain contains the core domain models of a spotcheck usability test.

It defines the entities the flow controller works with: the ordered test Steps and their
Hotspots, the per-participant session State, and the append-only Results written for every
interaction. This package is kept pure and free of I/O or persistence concerns.

# Key Entities

  - Step: One image + instruction + hotspot unit of the ordered test sequence.
  - Hotspot: The hidden target rectangle. Hotspot.Contains is the hit-test.
  - State: Captures where a participant is (Phase and StepIndex).
  - Result: One immutable row per click or questionnaire submission.
  - View: A structural representation of what the host should render next.
*/
package domain
