// Package services provides domain services that orchestrate business operations
// across multiple domain entities in the fieldwork system. It implements
// business workflows that don't naturally belong to a single aggregate root.
//
// The package includes:
//   - RouteOrderer: sorts a batch of jobs into an efficient visiting order
//   - Scorer: grades completion evidence into points and awards
//   - JobNumberAllocator: hands out sequential job numbers with a
//     clock-based fallback
//
// Domain services coordinate between aggregates, implementing business logic
// that spans multiple bounded contexts following Domain-Driven Design principles.
package services
