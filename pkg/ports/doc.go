/*
Package ports defines the driven ports (interfaces) for the spotcheck engine.

These interfaces decouple the flow controller from external implementations, allowing
the engine to work with various storage backends and step catalogs.

# Key Interfaces

  - Catalog: Provides the ordered sequence of test steps (read-only to the engine).
  - StateStore: Responsible for persisting and loading session State.
  - ResultRecorder: Appends one durable row per interaction.
  - DistributedLocker: Provides distributed locking for handling concurrent session access.
*/
package ports
