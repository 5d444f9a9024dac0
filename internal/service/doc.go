// Package service implements the business logic of the playlist API.
//
// Services sit between the HTTP handlers and the storage adapter. They own
// the rules the adapters deliberately leave out: who may see or change a
// playlist, and how accounts are registered and signed in.
//
// # Store Interfaces
//
// Each service declares the narrow slice of the storage adapter it needs
// (PlaylistStore, UserStore). Any store.Store satisfies both, and tests
// substitute an in-memory fake.
//
// # Ownership
//
// A playlist belongs to the user whose email matches its ownerEmail. Every
// read, update and delete resolves that user and compares its id with the
// session user id; a mismatch yields ErrNotOwner.
//
// # Error Handling
//
// Services return the sentinel errors declared in errors.go, or propagate
// store errors unchanged:
//
//	playlist, err := svc.Get(ctx, userID, id)
//	switch {
//	case errors.Is(err, service.ErrPlaylistNotFound):
//	case errors.Is(err, service.ErrNotOwner):
//	}
package service
